package renderer

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FileRenderer materializes a profile into a document on disk using a
// text/template file. The artifact reference it returns is the written path.
type FileRenderer struct {
	template  *template.Template
	outputDir string
}

type templateData struct {
	Profile entities.Profile
	Job     entities.Job
	Score   entities.MatchScore
}

func NewFileRenderer(templatePath, outputDir string) (*FileRenderer, error) {

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %v", templatePath)
	}

	if err = os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output dir %v", outputDir)
	}

	return &FileRenderer{template: tmpl, outputDir: outputDir}, nil
}

func (r *FileRenderer) Render(profile entities.Profile, job entities.Job, score entities.MatchScore) (string, error) {

	name := documentName(job)
	path := filepath.Join(r.outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create %v", path)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warnf("failed to close %v: %v", path, closeErr)
		}
	}()

	data := templateData{Profile: profile, Job: job, Score: score}
	if err = r.template.Execute(file, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %v", path)
	}

	log.Infof("rendered document %v", path)
	return path, nil
}

// documentName keeps the filename filesystem-safe and collision-free: the
// company slug is for humans, the fingerprint prefix for uniqueness.
func documentName(job entities.Job) string {
	slug := strings.ToLower(strings.TrimSpace(job.Company))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	if slug == "" {
		slug = "unknown"
	}

	fp := job.Fingerprint
	if len(fp) > 8 {
		fp = fp[:8]
	}
	return "resume_" + slug + "_" + fp + ".tex"
}
