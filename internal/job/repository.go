package job

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const selectColumns = `id, slug, position, organisation_name, domain, location, about,
	job_description, compensation_range, pdf_url, apply_by, status, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) List() ([]Job, error) {
	rows, err := r.db.Query(`SELECT ` + selectColumns + ` FROM job ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *Repository) ListByStatus(status string) ([]Job, error) {
	rows, err := r.db.Query(`SELECT `+selectColumns+` FROM job WHERE status = $1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *Repository) GetByID(id string) (Job, error) {
	return scanJob(r.db.QueryRow(`SELECT `+selectColumns+` FROM job WHERE id = $1`, id))
}

func (r *Repository) GetBySlug(jobSlug string) (Job, error) {
	return scanJob(r.db.QueryRow(`SELECT `+selectColumns+` FROM job WHERE slug = $1`, jobSlug))
}

func (r *Repository) Search(query string) ([]Job, error) {
	like := "%" + query + "%"
	rows, err := r.db.Query(
		`SELECT `+selectColumns+` FROM job
		WHERE position ILIKE $1 OR domain ILIKE $1 OR organisation_name ILIKE $1
			OR location ILIKE $1 OR job_description ILIKE $1
		ORDER BY created_at DESC`, like,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *Repository) Create(j Job) (Job, error) {
	now := time.Now().UTC()
	j.ID = uuid.New().String()
	j.Slug = slug.Make(fmt.Sprintf("%s %s %d", j.Position, j.OrganisationName, now.Unix()))
	if j.Status == "" {
		j.Status = StatusActive
	}
	j.CreatedAt = now
	j.UpdatedAt = now
	_, err := r.db.Exec(
		`INSERT INTO job (id, slug, position, organisation_name, domain, location, about,
			job_description, compensation_range, pdf_url, apply_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		j.ID, j.Slug, j.Position, j.OrganisationName, j.Domain, j.Location,
		nullable(j.About), nullable(j.JobDescription), nullable(j.CompensationRange),
		nullable(j.PDFURL), j.ApplyBy, j.Status, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	return j, nil
}

func (r *Repository) Update(j Job) error {
	_, err := r.db.Exec(
		`UPDATE job SET position = $1, organisation_name = $2, domain = $3, location = $4,
			about = $5, job_description = $6, compensation_range = $7, pdf_url = $8,
			apply_by = $9, status = $10, updated_at = $11
		WHERE id = $12`,
		j.Position, j.OrganisationName, j.Domain, j.Location,
		nullable(j.About), nullable(j.JobDescription), nullable(j.CompensationRange),
		nullable(j.PDFURL), j.ApplyBy, j.Status, time.Now().UTC(), j.ID,
	)
	return err
}

func (r *Repository) SetPDFURL(id, pdfURL string) error {
	_, err := r.db.Exec(`UPDATE job SET pdf_url = $1, updated_at = $2 WHERE id = $3`, nullable(pdfURL), time.Now().UTC(), id)
	return err
}

func (r *Repository) SetStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE job SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	return err
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM job WHERE id = $1`, id)
	return err
}

// ArchiveJob is a two-phase intent, not a transaction: the job flips
// to archived first, then its applications. A crash in between leaves
// the job archived with live applications until RepairArchiveCascades
// runs.
func (r *Repository) ArchiveJob(id string) error {
	if err := r.SetStatus(id, StatusArchived); err != nil {
		return err
	}
	_, err := r.db.Exec(`UPDATE application SET archived = TRUE WHERE job_id = $1`, id)
	return err
}

// RepairArchiveCascades finishes any cascade interrupted between the
// two writes. Idempotent, safe to run at any time.
func (r *Repository) RepairArchiveCascades() (int64, error) {
	res, err := r.db.Exec(
		`UPDATE application SET archived = TRUE
		WHERE archived = FALSE
		AND job_id IN (SELECT id FROM job WHERE status = $1)`, StatusArchived,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanJob(row *sql.Row) (Job, error) {
	var j Job
	var about, jobDescription, compensationRange, pdfURL sql.NullString
	var applyBy sql.NullTime
	err := row.Scan(&j.ID, &j.Slug, &j.Position, &j.OrganisationName, &j.Domain, &j.Location,
		&about, &jobDescription, &compensationRange, &pdfURL, &applyBy, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return Job{}, err
	}
	fillJobNullables(&j, about, jobDescription, compensationRange, pdfURL, applyBy)
	return j, nil
}

func scanJobs(rows *sql.Rows) ([]Job, error) {
	jobs := make([]Job, 0)
	for rows.Next() {
		var j Job
		var about, jobDescription, compensationRange, pdfURL sql.NullString
		var applyBy sql.NullTime
		err := rows.Scan(&j.ID, &j.Slug, &j.Position, &j.OrganisationName, &j.Domain, &j.Location,
			&about, &jobDescription, &compensationRange, &pdfURL, &applyBy, &j.Status, &j.CreatedAt, &j.UpdatedAt)
		if err != nil {
			return jobs, err
		}
		fillJobNullables(&j, about, jobDescription, compensationRange, pdfURL, applyBy)
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func fillJobNullables(j *Job, about, jobDescription, compensationRange, pdfURL sql.NullString, applyBy sql.NullTime) {
	j.About = about.String
	j.JobDescription = jobDescription.String
	j.CompensationRange = compensationRange.String
	j.PDFURL = pdfURL.String
	if applyBy.Valid {
		t := applyBy.Time
		j.ApplyBy = &t
	}
}
