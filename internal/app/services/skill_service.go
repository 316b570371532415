package services

import (
	"context"
	"strings"
	"time"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/scheduler"
)

// SkillPicker backs the skills autocomplete of the profile editor. Input is
// debounced and only the newest request's answer is used.
type SkillPicker struct {
	skillRepo *repositories.SkillRepository
	debouncer *scheduler.Debouncer
	seq       scheduler.Sequence
	maxSkills int
}

// NewSkillPicker creates a picker with the given debounce window
func NewSkillPicker(skillRepo *repositories.SkillRepository, debounce time.Duration, maxSkills int) *SkillPicker {
	return &SkillPicker{
		skillRepo: skillRepo,
		debouncer: scheduler.NewDebouncer(debounce),
		maxSkills: maxSkills,
	}
}

// MaxSkills is the selection cap
func (p *SkillPicker) MaxSkills() int {
	return p.maxSkills
}

// Search suggests skills for input that are not selected yet. Empty input
// returns nothing without a request and discards any answer still in flight.
// A call replaced by a newer one returns scheduler.ErrSuperseded.
func (p *SkillPicker) Search(ctx context.Context, input string, selected []string) ([]models.Skill, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		p.seq.Next()
		return nil, nil
	}

	var out []models.Skill
	err := p.debouncer.Do(ctx, func(ctx context.Context) error {
		ticket := p.seq.Next()
		skills, err := p.skillRepo.Search(ctx, input)
		if err != nil {
			return err
		}
		if !p.seq.Latest(ticket) {
			return scheduler.ErrSuperseded
		}
		out = FilterSkills(skills, selected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FilterSkills drops suggestions already in selected
func FilterSkills(skills []models.Skill, selected []string) []models.Skill {
	taken := make(map[string]bool, len(selected))
	for _, s := range selected {
		taken[s] = true
	}
	out := make([]models.Skill, 0, len(skills))
	for _, s := range skills {
		if !taken[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

// ToggleSkill removes name when selected, otherwise adds it while the
// selection is below max.
func ToggleSkill(selected []string, name string, max int) []string {
	for _, s := range selected {
		if s == name {
			return RemoveSkill(selected, name)
		}
	}
	if len(selected) >= max {
		return selected
	}
	out := make([]string, 0, len(selected)+1)
	out = append(out, selected...)
	return append(out, name)
}

// RemoveSkill drops name from the selection
func RemoveSkill(selected []string, name string) []string {
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if s != name {
			out = append(out, s)
		}
	}
	return out
}
