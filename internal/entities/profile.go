package entities

// Profile is the candidate's ground truth. It is owned by an external source
// and read-only to the pipeline: customization produces a transient copy that
// is never written back.
type Profile struct {
	Personal   Personal            `json:"personal"`
	Experience []ExperienceEntry   `json:"experience"`
	Skills     map[string][]string `json:"skills"`
	Education  []EducationEntry    `json:"education"`
	Metadata   ProfileMetadata     `json:"metadata"`
}

type Personal struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type ExperienceEntry struct {
	Company      string            `json:"company"`
	Role         string            `json:"role"`
	Duration     string            `json:"duration"`
	Highlights   []string          `json:"highlights"`
	Technologies []string          `json:"technologies"`
	Variants     map[string]string `json:"variants,omitempty"`
}

type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

type ProfileMetadata struct {
	YearsOfExperience float64 `json:"years_of_experience"`
	Version           string  `json:"version,omitempty"`
}

// Clone deep-copies the profile so a customization can mutate its copy without
// touching the ground truth.
func (p Profile) Clone() Profile {
	clone := p
	clone.Experience = make([]ExperienceEntry, len(p.Experience))
	for i, exp := range p.Experience {
		entry := exp
		entry.Highlights = append([]string(nil), exp.Highlights...)
		entry.Technologies = append([]string(nil), exp.Technologies...)
		if exp.Variants != nil {
			entry.Variants = make(map[string]string, len(exp.Variants))
			for k, v := range exp.Variants {
				entry.Variants[k] = v
			}
		}
		clone.Experience[i] = entry
	}
	clone.Education = append([]EducationEntry(nil), p.Education...)
	if p.Skills != nil {
		clone.Skills = make(map[string][]string, len(p.Skills))
		for category, skills := range p.Skills {
			clone.Skills[category] = append([]string(nil), skills...)
		}
	}
	return clone
}
