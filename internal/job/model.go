package job

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

type Job struct {
	ID                 string     `json:"id"`
	Slug               string     `json:"slug"`
	Position           string     `json:"position"`
	OrganisationName   string     `json:"organisation_name"`
	Domain             string     `json:"domain"`
	Location           string     `json:"location"`
	About              string     `json:"about,omitempty"`
	JobDescription     string     `json:"job_description,omitempty"`
	CompensationRange  string     `json:"compensation_range,omitempty"`
	PDFURL             string     `json:"pdf_url,omitempty"`
	ApplyBy            *time.Time `json:"apply_by,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	JobDescriptionHTML string     `json:"job_description_html,omitempty"`
	CreatedAtHumanized string     `json:"created_at_humanized,omitempty"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}
