package application

import (
	"time"

	"github.com/careersdesk/portal/internal/column"
)

const dateLayout = "2006-01-02"

// FieldValue resolves the display value of one column for one row.
// Rendering and export share it so headers and cells always agree.
// Dotted ids read through the nested job, date columns truncate to the
// calendar day, custom ids look up the bag.
func FieldValue(app Application, col column.Definition) string {
	if col.IsCustom || column.IsCustomID(col.ID) {
		return app.CustomFields.Get(col.ID)
	}
	switch col.ID {
	case "full_name":
		return app.FullName
	case "batch":
		return app.Batch
	case "gender":
		return app.Gender
	case "email_official":
		return app.EmailOfficial
	case "email_personal":
		return app.EmailPersonal
	case "phone_number":
		return app.PhoneNumber
	case "big_bet":
		return app.BigBet
	case "fellowship_state":
		return app.FellowshipState
	case "home_state":
		return app.HomeState
	case "fpc_name":
		return app.FPCName
	case "state_spoc_name":
		return app.StateSPOCName
	case "reference_number":
		return app.ReferenceNumber
	case "cover_letter":
		return app.CoverLetter
	case "resume_url":
		return app.ResumeURL
	case "applied_at":
		if app.AppliedAt.IsZero() {
			return ""
		}
		return app.AppliedAt.Format(dateLayout)
	case "status":
		return app.Status
	case "job.position":
		return app.Job.Position
	case "job.organisation_name":
		return app.Job.OrganisationName
	case "job.domain":
		return app.Job.Domain
	case "job.location":
		return app.Job.Location
	case "job.about":
		return app.Job.About
	case "job.compensation_range":
		return app.Job.CompensationRange
	case "job.pdf_url":
		return app.Job.PDFURL
	case "job.apply_by":
		return formatDay(app.Job.ApplyBy)
	}
	return ""
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
