package user

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Role               string    `json:"role"`
	EmployeeID         string    `json:"employee_id,omitempty"`
	Department         string    `json:"department,omitempty"`
	Position           string    `json:"position,omitempty"`
	AssignedJobIDs     []string  `json:"assigned_job_ids,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedAtHumanised string    `json:"created_at_humanised,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsManager() bool {
	return len(u.AssignedJobIDs) > 0
}

// JobAccess is one row of the user_job_access table joined with its
// job, shown on the manager-assignment screen.
type JobAccess struct {
	UserID     string `json:"user_id"`
	JobID      string `json:"job_id"`
	JobTitle   string `json:"job_title"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}
