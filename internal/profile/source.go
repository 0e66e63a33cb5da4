package profile

import (
	"encoding/json"
	"os"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/pkg/errors"
)

// FileSource reads the candidate profile from a JSON file. The file is the
// single source of truth and is never written to.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load() (*entities.Profile, error) {

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read profile %v", s.path)
	}

	var p entities.Profile
	if err = json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse profile %v", s.path)
	}

	if len(p.Experience) == 0 {
		return nil, errors.Errorf("profile %v has no experience entries", s.path)
	}
	if len(p.Skills) == 0 {
		return nil, errors.Errorf("profile %v has no skills", s.path)
	}

	return &p, nil
}
