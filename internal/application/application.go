package application

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JobInfo is the slice of the parent job read alongside each row for
// the dotted job.* columns.
type JobInfo struct {
	Position          string     `json:"position"`
	OrganisationName  string     `json:"organisation_name"`
	Domain            string     `json:"domain"`
	Location          string     `json:"location"`
	About             string     `json:"about"`
	CompensationRange string     `json:"compensation_range"`
	PDFURL            string     `json:"pdf_url"`
	ApplyBy           *time.Time `json:"apply_by"`
}

type Application struct {
	ID              string       `json:"id"`
	JobID           string       `json:"job_id"`
	ReferenceNumber string       `json:"reference_number"`
	FullName        string       `json:"full_name"`
	Batch           string       `json:"batch"`
	Gender          string       `json:"gender"`
	EmailOfficial   string       `json:"email_official"`
	EmailPersonal   string       `json:"email_personal"`
	PhoneNumber     string       `json:"phone_number"`
	BigBet          string       `json:"big_bet"`
	FellowshipState string       `json:"fellowship_state"`
	HomeState       string       `json:"home_state"`
	FPCName         string       `json:"fpc_name"`
	StateSPOCName   string       `json:"state_spoc_name"`
	CoverLetter     string       `json:"cover_letter"`
	ResumeURL       string       `json:"resume_url"`
	Status          string       `json:"status"`
	Archived        bool         `json:"archived"`
	AppliedAt       time.Time    `json:"applied_at"`
	Job             JobInfo      `json:"job"`
	CustomFields    CustomFields `json:"custom_admin_fields"`
}

// CustomFields is the JSONB bag holding every custom-column value on a
// row, keyed by column id. The whole bag is written on each update, so
// two concurrent edits to different keys on the same row race with
// last-write-wins.
type CustomFields struct {
	Values map[string]string `json:"values"`
}

// Merge returns a copy with value set under columnID, all other keys
// untouched.
func (c CustomFields) Merge(columnID, value string) CustomFields {
	merged := make(map[string]string, len(c.Values)+1)
	for k, v := range c.Values {
		merged[k] = v
	}
	merged[columnID] = value
	return CustomFields{Values: merged}
}

func (c CustomFields) Get(columnID string) string {
	return c.Values[columnID]
}

func (c CustomFields) Value() (driver.Value, error) {
	if c.Values == nil {
		c.Values = map[string]string{}
	}
	return json.Marshal(c)
}

func (c *CustomFields) Scan(src interface{}) error {
	if src == nil {
		c.Values = map[string]string{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unable to scan custom fields from %T", src)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return err
	}
	if c.Values == nil {
		c.Values = map[string]string{}
	}
	return nil
}
