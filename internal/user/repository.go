package user

import (
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) CreateUser(p CreatePayload) (User, error) {
	if err := p.Validate(); err != nil {
		return User{}, err
	}
	u := User{
		ID:         uuid.New().String(),
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       p.Role,
		EmployeeID: p.EmployeeID,
		Department: p.Department,
		Position:   p.Position,
		CreatedAt:  time.Now().UTC(),
	}
	tx, err := r.db.Begin()
	if err != nil {
		return User{}, err
	}
	_, err = tx.Exec(
		`INSERT INTO admin_users (id, email, full_name, password_digest, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.FullName, passwordDigest(p.Password), u.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return User{}, err
	}
	// admins carry a single NULL-job access row, managers get theirs
	// when a job is assigned
	_, err = tx.Exec(
		`INSERT INTO user_job_access (user_id, job_id, role, employee_id, department, position, created_at)
		VALUES ($1, NULL, $2, $3, $4, $5, $6)`,
		u.ID, u.Role, nullable(u.EmployeeID), nullable(u.Department), nullable(u.Position), u.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return User{}, err
	}
	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repository) UpdateUser(id string, p UpdatePayload) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Password != "" {
		_, err := r.db.Exec(
			`UPDATE admin_users SET full_name = $1, password_digest = $2 WHERE id = $3`,
			p.FullName, passwordDigest(p.Password), id,
		)
		if err != nil {
			return err
		}
	} else {
		_, err := r.db.Exec(`UPDATE admin_users SET full_name = $1 WHERE id = $2`, p.FullName, id)
		if err != nil {
			return err
		}
	}
	_, err := r.db.Exec(
		`UPDATE user_job_access SET role = $1, employee_id = $2, department = $3, position = $4
		WHERE user_id = $5 AND job_id IS NULL`,
		p.Role, nullable(p.EmployeeID), nullable(p.Department), nullable(p.Position), id,
	)
	return err
}

func (r *Repository) DeleteUser(id string) error {
	if _, err := r.db.Exec(`DELETE FROM user_job_access WHERE user_id = $1`, id); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM admin_users WHERE id = $1`, id)
	return err
}

func (r *Repository) ListUsers() ([]User, error) {
	rows, err := r.db.Query(
		`SELECT u.id, u.email, u.full_name, a.role, a.employee_id, a.department, a.position, u.created_at
		FROM admin_users u JOIN user_job_access a ON a.user_id = u.id AND a.job_id IS NULL
		ORDER BY u.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]User, 0)
	for rows.Next() {
		var u User
		var employeeID, department, position sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &employeeID, &department, &position, &u.CreatedAt); err != nil {
			return users, err
		}
		u.EmployeeID = employeeID.String
		u.Department = department.String
		u.Position = position.String
		users = append(users, u)
	}
	return users, nil
}

// GetUserByEmail resolves the account plus its assigned job ids, the
// basis for the admin/manager claims in the session token.
func (r *Repository) GetUserByEmail(email string) (User, error) {
	row := r.db.QueryRow(
		`SELECT u.id, u.email, u.full_name, a.role, a.employee_id, a.department, a.position, u.created_at
		FROM admin_users u JOIN user_job_access a ON a.user_id = u.id AND a.job_id IS NULL
		WHERE u.email = $1`, email,
	)
	var u User
	var employeeID, department, position sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &employeeID, &department, &position, &u.CreatedAt); err != nil {
		return User{}, err
	}
	u.EmployeeID = employeeID.String
	u.Department = department.String
	u.Position = position.String
	jobIDs, err := r.assignedJobIDs(u.ID)
	if err != nil {
		return User{}, err
	}
	u.AssignedJobIDs = jobIDs
	return u, nil
}

// Authenticate checks an email/password pair in constant time.
func (r *Repository) Authenticate(email, password string) (User, error) {
	row := r.db.QueryRow(`SELECT password_digest FROM admin_users WHERE email = $1`, email)
	var digest string
	if err := row.Scan(&digest); err != nil {
		return User{}, fmt.Errorf("invalid credentials")
	}
	if subtle.ConstantTimeCompare([]byte(digest), []byte(passwordDigest(password))) != 1 {
		return User{}, fmt.Errorf("invalid credentials")
	}
	return r.GetUserByEmail(email)
}

func (r *Repository) AssignManagerToJob(userID, jobID string) error {
	_, err := r.db.Exec(
		`INSERT INTO user_job_access (user_id, job_id, role, created_at) VALUES ($1, $2, $3, $4)`,
		userID, jobID, RoleManager, time.Now().UTC(),
	)
	return err
}

func (r *Repository) RemoveManagerFromJob(userID, jobID string) error {
	_, err := r.db.Exec(`DELETE FROM user_job_access WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	return err
}

func (r *Repository) ListJobManagerAccess() ([]JobAccess, error) {
	rows, err := r.db.Query(
		`SELECT a.user_id, a.job_id, j.position, a.role, a.employee_id, a.department, a.position
		FROM user_job_access a JOIN job j ON j.id = a.job_id
		WHERE a.job_id IS NOT NULL
		ORDER BY a.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	access := make([]JobAccess, 0)
	for rows.Next() {
		var ja JobAccess
		var employeeID, department, position sql.NullString
		if err := rows.Scan(&ja.UserID, &ja.JobID, &ja.JobTitle, &ja.Role, &employeeID, &department, &position); err != nil {
			return access, err
		}
		ja.EmployeeID = employeeID.String
		ja.Department = department.String
		ja.Position = position.String
		access = append(access, ja)
	}
	return access, nil
}

func (r *Repository) assignedJobIDs(userID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT job_id FROM user_job_access WHERE user_id = $1 AND job_id IS NOT NULL`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func passwordDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
