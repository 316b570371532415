package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/pkg/scheduler"
)

const routeSkills = "GET /api/skills/search"

func TestSkillSearchEmptyInputSkipsRequest(t *testing.T) {
	env := newTestEnv(t)
	p := NewSkillPicker(env.repos.SkillRepository, 5*time.Millisecond, 50)

	skills, err := p.Search(context.Background(), "   ", nil)
	if err != nil || skills != nil {
		t.Fatalf("expected no results and no error, got %v %v", skills, err)
	}
	if n := env.backend.Calls(routeSkills); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestSkillSearchKeepsOnlyLatestInput(t *testing.T) {
	env := newTestEnv(t)
	p := NewSkillPicker(env.repos.SkillRepository, 50*time.Millisecond, 50)

	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Search(context.Background(), "G", nil)
		firstErr <- err
	}()
	time.Sleep(10 * time.Millisecond)

	skills, err := p.Search(context.Background(), "go", []string{"Go"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := <-firstErr; !errors.Is(err, scheduler.ErrSuperseded) {
		t.Fatalf("expected the first search to be superseded, got %v", err)
	}
	if n := env.backend.Calls(routeSkills); n != 1 {
		t.Fatalf("expected a single request, got %d", n)
	}
	if len(skills) != 1 || skills[0].Name != "Golang" {
		t.Fatalf("expected selected skills filtered out, got %+v", skills)
	}
}

func TestFilterSkills(t *testing.T) {
	all := []models.Skill{{ID: "1", Name: "Go"}, {ID: "2", Name: "Rust"}}
	got := FilterSkills(all, []string{"Rust"})
	if len(got) != 1 || got[0].Name != "Go" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestToggleSkill(t *testing.T) {
	selected := []string{"Go"}

	selected = ToggleSkill(selected, "Rust", 2)
	if !reflect.DeepEqual(selected, []string{"Go", "Rust"}) {
		t.Fatalf("add failed: %v", selected)
	}
	if got := ToggleSkill(selected, "Python", 2); !reflect.DeepEqual(got, selected) {
		t.Fatalf("add past max should be ignored: %v", got)
	}
	if got := ToggleSkill(selected, "Go", 2); !reflect.DeepEqual(got, []string{"Rust"}) {
		t.Fatalf("toggle of a selected skill should remove it: %v", got)
	}
	if got := RemoveSkill(selected, "Rust"); !reflect.DeepEqual(got, []string{"Go"}) {
		t.Fatalf("remove failed: %v", got)
	}
}

func TestCertificationFetch(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCertificationService(env.repos.CertificationRepository, testLogger())

	if _, err := svc.Fetch(env.ctx(), "myspace", "abc"); err == nil {
		t.Fatal("expected unsupported platform to fail")
	}
	if _, err := svc.Fetch(env.ctx(), "coursera", "   "); err == nil {
		t.Fatal("expected blank credential id to fail")
	}
	if n := env.backend.Calls("GET /api/certifications/fetch"); n != 0 {
		t.Fatalf("invalid input reached the backend %d times", n)
	}

	cert, err := svc.Fetch(env.ctx(), "coursera", "  ABC123 ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if cert.CredentialID != "ABC123" || cert.Platform != "coursera" {
		t.Fatalf("unexpected certification %+v", cert)
	}

	list := AppendCertification(nil, *cert)
	list = AppendCertification(list, models.Certification{CredentialID: "X"})
	list = RemoveCertification(list, 0)
	if len(list) != 1 || list[0].CredentialID != "X" {
		t.Fatalf("unexpected list %+v", list)
	}
	if got := RemoveCertification(list, 5); len(got) != 1 {
		t.Fatal("out of range removal changed the list")
	}
}
