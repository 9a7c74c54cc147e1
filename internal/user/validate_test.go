package user

import "testing"

func TestCreatePayloadValidate(t *testing.T) {
	valid := CreatePayload{
		Email:    "asha@example.org",
		FullName: "Asha Verma",
		Role:     RoleManager,
		Password: "s3cret!",
	}
	cases := []struct {
		name    string
		mutate  func(p *CreatePayload)
		wantErr bool
	}{
		{"valid", func(p *CreatePayload) {}, false},
		{"valid admin", func(p *CreatePayload) { p.Role = RoleAdmin }, false},
		{"missing email", func(p *CreatePayload) { p.Email = "" }, true},
		{"malformed email", func(p *CreatePayload) { p.Email = "not-an-email" }, true},
		{"missing name", func(p *CreatePayload) { p.FullName = "  " }, true},
		{"unknown role", func(p *CreatePayload) { p.Role = "viewer" }, true},
		{"short password", func(p *CreatePayload) { p.Password = "abc" }, true},
		{"missing password", func(p *CreatePayload) { p.Password = "" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			err := p.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestUpdatePayloadValidate(t *testing.T) {
	p := UpdatePayload{FullName: "Asha Verma", Role: RoleAdmin}
	if err := p.Validate(); err != nil {
		t.Errorf("password is optional on update, got err %v", err)
	}
	p.Password = "abc"
	if err := p.Validate(); err == nil {
		t.Error("short password must fail on update too")
	}
}

func TestUserRoles(t *testing.T) {
	admin := User{Role: RoleAdmin}
	if !admin.IsAdmin() || admin.IsManager() {
		t.Error("admin role misclassified")
	}
	manager := User{Role: RoleManager, AssignedJobIDs: []string{"j1"}}
	if manager.IsAdmin() || !manager.IsManager() {
		t.Error("manager with assigned jobs misclassified")
	}
	idle := User{Role: RoleManager}
	if idle.IsManager() {
		t.Error("manager without assigned jobs must not be treated as managing")
	}
}
