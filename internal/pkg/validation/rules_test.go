package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

func TestMessageContent(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"trimmed", "  hello  ", "hello", false},
		{"empty", "", "", true},
		{"whitespace only", " \t\n ", "", true},
		{"exactly limit", strings.Repeat("a", 1000), strings.Repeat("a", 1000), false},
		{"over limit", strings.Repeat("a", 1001), "", true},
		{"multibyte at limit", strings.Repeat("é", 1000), strings.Repeat("é", 1000), false},
		{"padding does not count", "  " + strings.Repeat("a", 1000) + "  ", strings.Repeat("a", 1000), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MessageContent(tc.in)
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q", got)
			}
		})
	}
}

func TestRegistration(t *testing.T) {
	if err := Registration("Ada", "ada@northeastern.edu", "secret1", "student"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Registration("Ada", "ada@northeastern.edu", "secret1", "admin"); err == nil {
		t.Fatal("admin self-registration must be rejected")
	}
	if err := Registration("Ada", "not-an-email", "secret1", "student"); err == nil {
		t.Fatal("bad email accepted")
	}
	if err := Registration("Ada", "ada@northeastern.edu", "123", "professor"); err == nil {
		t.Fatal("short password accepted")
	}
}

func TestPostAndEvent(t *testing.T) {
	if err := Post("Title", "Body", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Post("Title", "Body", 5); err == nil {
		t.Fatal("too many images accepted")
	}
	if err := Post("  ", "Body", 0); err == nil {
		t.Fatal("blank title accepted")
	}
	if err := Event("Hack night", "Bring a laptop", "2026-11-01T18:00", "Snell", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Event("Hack night", "Bring a laptop", "2026-11-01T18:00", "Snell", -1); err == nil {
		t.Fatal("negative cap accepted")
	}
}

func TestRatingAndImage(t *testing.T) {
	for _, r := range []int{0, 1, 5} {
		if err := Rating(r); err != nil {
			t.Errorf("rating %d rejected: %v", r, err)
		}
	}
	for _, r := range []int{-1, 6} {
		if err := Rating(r); err == nil {
			t.Errorf("rating %d accepted", r)
		}
	}
	if err := ImageUpload("image/png", 1024); err != nil {
		t.Errorf("png rejected: %v", err)
	}
	if err := ImageUpload("application/pdf", 1024); err == nil {
		t.Error("pdf accepted")
	}
	if err := ImageUpload("image/jpeg", ImageMaxBytes+1); err == nil {
		t.Error("oversized image accepted")
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" go, web ,,go, chat ")
	want := []string{"go", "web", "chat"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v", got)
	}
	if SplitTags("") != nil {
		t.Fatal("empty input should give nil")
	}
}

func TestCertificationPlatform(t *testing.T) {
	if !CertificationPlatform("linkedin-learning") {
		t.Fatal("known platform rejected")
	}
	if CertificationPlatform("myspace") {
		t.Fatal("unknown platform accepted")
	}
}
