package entities

import (
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationInterview   ApplicationStatus = "interview"
	ApplicationOffer       ApplicationStatus = "offer"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

var applicationStatuses = map[ApplicationStatus]struct{}{
	ApplicationSubmitted:   {},
	ApplicationUnderReview: {},
	ApplicationInterview:   {},
	ApplicationOffer:       {},
	ApplicationRejected:    {},
	ApplicationWithdrawn:   {},
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := applicationStatuses[s]
	return ok
}

type Application struct {
	ID             string `gorm:"primaryKey"`
	JobFingerprint string `gorm:"index;not null"`
	ResumeFile     string
	MatchScore     float64
	VariantUsed    string
	Status         ApplicationStatus `gorm:"default:submitted"`
	Notes          string
	AppliedAt      time.Time
	UpdatedAt      time.Time
}

// AppendNote concatenates a timestamped line to the notes log. Notes are
// append-only: updates never overwrite earlier entries.
func (a *Application) AppendNote(note string, at time.Time) {
	if note == "" {
		return
	}
	line := fmt.Sprintf("[%s] %s", at.UTC().Format(time.RFC3339), note)
	if a.Notes == "" {
		a.Notes = line
		return
	}
	a.Notes += "\n" + line
}
