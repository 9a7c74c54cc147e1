package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"PORT":              "9876",
		"DATABASE_USER":     "portal",
		"DATABASE_PASSWORD": "secret",
		"DATABASE_HOST":     "localhost",
		"DATABASE_PORT":     "5432",
		"DATABASE_NAME":     "portal",
		"DATABASE_SSL_MODE": "disable",
		"EMAIL_API_KEY":     "key",
		"ADMIN_EMAILS":      "a@example.org",
		"NO_REPLY_EMAIL":    "noreply@example.org",
		"STORAGE_ENDPOINT":  "https://files.example.org",
		"STORAGE_API_KEY":   "key",
		"ENV":               "dev",
		"SESSION_KEY":       "c2Vzc2lvbg==",
		"JWT_SIGNING_KEY":   "c2lnbmluZw==",
		"SITE_NAME":         "Careers Desk",
		"SITE_HOST":         "example.org",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestAdminEmailsSkipsEmptyEntries(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_EMAILS", "a@example.org, ,b@example.org,")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() err = %v", err)
	}
	want := []string{"a@example.org", "b@example.org"}
	if len(cfg.AdminEmails) != len(want) {
		t.Fatalf("AdminEmails = %v, want %v", cfg.AdminEmails, want)
	}
	for i := range want {
		if cfg.AdminEmails[i] != want[i] {
			t.Fatalf("AdminEmails = %v, want %v", cfg.AdminEmails, want)
		}
	}
}

func TestAdminEmailsAllBlankFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_EMAILS", ", ,")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when every recipient is blank")
	}
}

func TestBucketDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() err = %v", err)
	}
	if cfg.ResumeBucket != "resumes" {
		t.Errorf("ResumeBucket = %q, want %q", cfg.ResumeBucket, "resumes")
	}
	if cfg.JobPDFBucket != "job-pdfs" {
		t.Errorf("JobPDFBucket = %q, want %q", cfg.JobPDFBucket, "job-pdfs")
	}
}
