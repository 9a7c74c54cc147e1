package storage

import (
	"regexp"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	got := SanitizeFilename("Asha Verma Résumé (final).pdf")
	if !regexp.MustCompile(`^\d+-[a-zA-Z0-9._-]+\.pdf$`).MatchString(got) {
		t.Errorf("sanitized filename %q contains unsafe characters", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("sanitized filename %q contains whitespace", got)
	}
}

func TestPublicURLRoundTrip(t *testing.T) {
	c := Client{baseURL: "https://files.example.org"}
	url := c.PublicURL("resumes", "123-cv.pdf")
	if got := ObjectNameFromURL(url, "resumes"); got != "123-cv.pdf" {
		t.Errorf("ObjectNameFromURL(%q) = %q, want %q", url, got, "123-cv.pdf")
	}
}

func TestObjectNameFromURLUnknownBucket(t *testing.T) {
	if got := ObjectNameFromURL("https://files.example.org/other/123.pdf", "resumes"); got != "" {
		t.Errorf("expected empty object name, got %q", got)
	}
}
