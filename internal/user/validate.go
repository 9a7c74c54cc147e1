package user

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

const minPasswordLength = 6

// CreatePayload is the structured body of the create-user endpoint.
type CreatePayload struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Password   string `json:"password"`
}

type UpdatePayload struct {
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Password   string `json:"password"`
}

// Validate runs before any SQL, per the inline-error contract.
func (p CreatePayload) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRe.MatchString(p.Email) {
		return fmt.Errorf("email is malformed")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if p.Role != RoleAdmin && p.Role != RoleManager {
		return fmt.Errorf("role must be %q or %q", RoleAdmin, RoleManager)
	}
	if len(p.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (p UpdatePayload) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if p.Role != RoleAdmin && p.Role != RoleManager {
		return fmt.Errorf("role must be %q or %q", RoleAdmin, RoleManager)
	}
	if p.Password != "" && len(p.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
