package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

type JobStatus string

const (
	JobStatusNew      JobStatus = "new"
	JobStatusAnalyzed JobStatus = "analyzed"
	JobStatusMatched  JobStatus = "matched"
	JobStatusApplied  JobStatus = "applied"
)

var jobStatusRank = map[JobStatus]int{
	JobStatusNew:      0,
	JobStatusAnalyzed: 1,
	JobStatusMatched:  2,
	JobStatusApplied:  3,
}

// Rank returns the position of the status in the pipeline. Unknown statuses
// rank below "new" so they never win a monotonic comparison.
func (s JobStatus) Rank() int {
	if rank, ok := jobStatusRank[s]; ok {
		return rank
	}
	return -1
}

func (s JobStatus) IsValid() bool {
	_, ok := jobStatusRank[s]
	return ok
}

type Job struct {
	Fingerprint string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Company     string `gorm:"not null"`
	Location    string
	Description string
	Source      string
	URL         string
	PostedAt    time.Time
	ScrapedAt   time.Time
	Status      JobStatus `gorm:"default:new"`
}

func NewJob(title, company, location, description, source, url string, postedAt time.Time) Job {
	return Job{
		Fingerprint: Fingerprint(company, title, location),
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		Source:      source,
		URL:         url,
		PostedAt:    postedAt,
		ScrapedAt:   time.Now(),
		Status:      JobStatusNew,
	}
}

// Fingerprint derives a stable identity from the posting itself, so re-scraping
// the same posting never creates a duplicate row.
func Fingerprint(company, title, location string) string {
	normalized := strings.ToLower(strings.TrimSpace(company)) + "|" +
		strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(location))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
