package events

const (
	JobMatchedTopic        = "pipeline:job_matched"
	JobAnalyzedTopic       = "pipeline:job_analyzed"
	DocumentGeneratedTopic = "pipeline:document_generated"
)

type JobAnalyzed struct {
	Fingerprint  string
	Title        string
	Company      string
	RoleCategory string
}

type JobMatched struct {
	Fingerprint string
	Title       string
	Company     string
	Overall     float64
	Variant     string
}

type DocumentGenerated struct {
	Fingerprint string
	Company     string
	ArtifactRef string
}
