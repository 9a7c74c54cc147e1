package application

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/segmentio/ksuid"
)

const selectColumns = `a.id, a.job_id, a.reference_number, a.full_name, a.batch, a.gender,
	a.email_official, a.email_personal, a.phone_number, a.big_bet, a.fellowship_state,
	a.home_state, a.fpc_name, a.state_spoc_name, a.cover_letter, a.resume_url, a.status,
	a.archived, a.custom_admin_fields, a.applied_at,
	j.position, j.organisation_name, j.domain, j.location, j.about, j.compensation_range,
	j.pdf_url, j.apply_by`

// editableFields maps built-in column ids onto their SQL columns for
// single-field cell commits. Anything missing here (reference number,
// resume link, timestamps, job.* reads) is read-only in the grid.
var editableFields = map[string]string{
	"full_name":        "full_name",
	"batch":            "batch",
	"gender":           "gender",
	"email_official":   "email_official",
	"email_personal":   "email_personal",
	"phone_number":     "phone_number",
	"big_bet":          "big_bet",
	"fellowship_state": "fellowship_state",
	"home_state":       "home_state",
	"fpc_name":         "fpc_name",
	"state_spoc_name":  "state_spoc_name",
	"cover_letter":     "cover_letter",
	"status":           "status",
}

func IsEditableField(columnID string) bool {
	_, ok := editableFields[columnID]
	return ok
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) List(includeArchived bool) ([]Application, error) {
	stmt := `SELECT ` + selectColumns + `
		FROM application a JOIN job j ON j.id = a.job_id`
	if !includeArchived {
		stmt += ` WHERE a.archived = FALSE`
	}
	stmt += ` ORDER BY a.applied_at DESC`
	rows, err := r.db.Query(stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// ListByJobIDs scopes the grid for managers to their assigned jobs.
func (r *Repository) ListByJobIDs(jobIDs []string, includeArchived bool) ([]Application, error) {
	stmt := `SELECT ` + selectColumns + `
		FROM application a JOIN job j ON j.id = a.job_id
		WHERE a.job_id = ANY($1)`
	if !includeArchived {
		stmt += ` AND a.archived = FALSE`
	}
	stmt += ` ORDER BY a.applied_at DESC`
	rows, err := r.db.Query(stmt, pq.Array(jobIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *Repository) GetByID(id string) (Application, error) {
	row := r.db.QueryRow(
		`SELECT `+selectColumns+`
		FROM application a JOIN job j ON j.id = a.job_id
		WHERE a.id = $1`, id,
	)
	return scanApplication(row)
}

// Insert stores a fresh public submission with an empty bag and a
// generated reference number, returned for the confirmation response.
func (r *Repository) Insert(app Application) (Application, error) {
	app.ID = uuid.New().String()
	app.ReferenceNumber = "APP-" + ksuid.New().String()
	app.Status = "new"
	app.AppliedAt = time.Now().UTC()
	app.CustomFields = CustomFields{Values: map[string]string{}}
	_, err := r.db.Exec(
		`INSERT INTO application (id, job_id, reference_number, full_name, batch, gender,
			email_official, email_personal, phone_number, big_bet, fellowship_state, home_state,
			fpc_name, state_spoc_name, cover_letter, resume_url, status, archived, custom_admin_fields, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, FALSE, $18, $19)`,
		app.ID, app.JobID, app.ReferenceNumber, app.FullName, app.Batch, app.Gender,
		app.EmailOfficial, app.EmailPersonal, app.PhoneNumber, app.BigBet, app.FellowshipState,
		app.HomeState, app.FPCName, app.StateSPOCName, app.CoverLetter, app.ResumeURL,
		app.Status, app.CustomFields, app.AppliedAt,
	)
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

// UpdateField writes one built-in column. Column ids come from the
// grid, so they go through the whitelist rather than into the SQL.
func (r *Repository) UpdateField(id, columnID, value string) error {
	sqlColumn, ok := editableFields[columnID]
	if !ok {
		return fmt.Errorf("field %q is not editable", columnID)
	}
	_, err := r.db.Exec(
		fmt.Sprintf(`UPDATE application SET %s = $1 WHERE id = $2`, sqlColumn),
		value, id,
	)
	return err
}

// UpdateCustomFields persists the whole merged bag.
func (r *Repository) UpdateCustomFields(id string, fields CustomFields) error {
	_, err := r.db.Exec(`UPDATE application SET custom_admin_fields = $1 WHERE id = $2`, fields, id)
	return err
}

func (r *Repository) SetArchived(id string, archived bool) error {
	_, err := r.db.Exec(`UPDATE application SET archived = $1 WHERE id = $2`, archived, id)
	return err
}

func (r *Repository) ArchiveByJobID(jobID string) error {
	_, err := r.db.Exec(`UPDATE application SET archived = TRUE WHERE job_id = $1`, jobID)
	return err
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM application WHERE id = $1`, id)
	return err
}

func scanApplication(row *sql.Row) (Application, error) {
	var app Application
	var bigBet, fpcName, stateSPOCName, coverLetter, resumeURL sql.NullString
	var about, compensationRange, pdfURL sql.NullString
	var applyBy sql.NullTime
	err := row.Scan(
		&app.ID, &app.JobID, &app.ReferenceNumber, &app.FullName, &app.Batch, &app.Gender,
		&app.EmailOfficial, &app.EmailPersonal, &app.PhoneNumber, &bigBet, &app.FellowshipState,
		&app.HomeState, &fpcName, &stateSPOCName, &coverLetter, &resumeURL, &app.Status,
		&app.Archived, &app.CustomFields, &app.AppliedAt,
		&app.Job.Position, &app.Job.OrganisationName, &app.Job.Domain, &app.Job.Location,
		&about, &compensationRange, &pdfURL, &applyBy,
	)
	if err != nil {
		return Application{}, err
	}
	fillNullables(&app, bigBet, fpcName, stateSPOCName, coverLetter, resumeURL, about, compensationRange, pdfURL, applyBy)
	return app, nil
}

func scanApplications(rows *sql.Rows) ([]Application, error) {
	apps := make([]Application, 0)
	for rows.Next() {
		var app Application
		var bigBet, fpcName, stateSPOCName, coverLetter, resumeURL sql.NullString
		var about, compensationRange, pdfURL sql.NullString
		var applyBy sql.NullTime
		err := rows.Scan(
			&app.ID, &app.JobID, &app.ReferenceNumber, &app.FullName, &app.Batch, &app.Gender,
			&app.EmailOfficial, &app.EmailPersonal, &app.PhoneNumber, &bigBet, &app.FellowshipState,
			&app.HomeState, &fpcName, &stateSPOCName, &coverLetter, &resumeURL, &app.Status,
			&app.Archived, &app.CustomFields, &app.AppliedAt,
			&app.Job.Position, &app.Job.OrganisationName, &app.Job.Domain, &app.Job.Location,
			&about, &compensationRange, &pdfURL, &applyBy,
		)
		if err != nil {
			return apps, err
		}
		fillNullables(&app, bigBet, fpcName, stateSPOCName, coverLetter, resumeURL, about, compensationRange, pdfURL, applyBy)
		apps = append(apps, app)
	}
	return apps, nil
}

func fillNullables(app *Application, bigBet, fpcName, stateSPOCName, coverLetter, resumeURL, about, compensationRange, pdfURL sql.NullString, applyBy sql.NullTime) {
	app.BigBet = bigBet.String
	app.FPCName = fpcName.String
	app.StateSPOCName = stateSPOCName.String
	app.CoverLetter = coverLetter.String
	app.ResumeURL = resumeURL.String
	app.Job.About = about.String
	app.Job.CompensationRange = compensationRange.String
	app.Job.PDFURL = pdfURL.String
	if applyBy.Valid {
		t := applyBy.Time
		app.Job.ApplyBy = &t
	}
}
