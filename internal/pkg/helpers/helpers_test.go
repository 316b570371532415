package helpers

import (
	"testing"
	"time"
)

func TestMessageTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Duration{
		"Just now":  20 * time.Second,
		"5m ago":    5 * time.Minute,
		"3h ago":    3 * time.Hour,
		"Yesterday": 30 * time.Hour,
		"3/7/2026":  72 * time.Hour,
	}
	for want, ago := range cases {
		if got := MessageTime(now.Add(-ago), now); got != want {
			t.Errorf("%v ago: got %q, want %q", ago, got, want)
		}
	}
}

func TestConversationTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := ConversationTime(now.Add(-2*time.Hour), now); got != "10:00 AM" {
		t.Errorf("got %q", got)
	}
	if got := ConversationTime(now.Add(-30*time.Hour), now); got != "Yesterday" {
		t.Errorf("got %q", got)
	}
	if got := ConversationTime(now.Add(-10*24*time.Hour), now); got != "Feb 28" {
		t.Errorf("got %q", got)
	}
}

func TestPostedAgo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	cases := map[time.Duration]string{
		time.Hour:  "Today",
		day + 1:    "Yesterday",
		3 * day:    "3 days ago",
		14 * day:   "2 weeks ago",
		65 * day:   "2 months ago",
	}
	for ago, want := range cases {
		if got := PostedAgo(now.Add(-ago), now); got != want {
			t.Errorf("%v: got %q, want %q", ago, got, want)
		}
	}
	if got := PostedAgo(time.Time{}, now); got != "Date not available" {
		t.Errorf("zero time: %q", got)
	}
}

func TestFormatSalary(t *testing.T) {
	if got := FormatSalary(80000, 120000, ""); got != "$80k - $120k" {
		t.Errorf("got %q", got)
	}
	if got := FormatSalary(0, 120000, "Competitive"); got != "Competitive" {
		t.Errorf("got %q", got)
	}
	if got := FormatSalary(0, 0, ""); got != "Salary not specified" {
		t.Errorf("got %q", got)
	}
}

func TestEmploymentTypeAndLocation(t *testing.T) {
	if got := EmploymentTypeLabel("INTERN"); got != "Internship" {
		t.Errorf("got %q", got)
	}
	if got := EmploymentTypeLabel("TEMP"); got != "TEMP" {
		t.Errorf("got %q", got)
	}
	if got := JobLocation(true, "Boston", "MA", "US"); got != "Remote" {
		t.Errorf("got %q", got)
	}
	if got := JobLocation(false, "Boston", "MA", "US"); got != "Boston, MA" {
		t.Errorf("got %q", got)
	}
	if got := JobLocation(false, "", "", "US"); got != "US" {
		t.Errorf("got %q", got)
	}
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText("<p>First line</p><ul><li>Go</li><li>SQL</li></ul>Done<br>after")
	want := "First line\nGo\nSQL\nDone\nafter"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := HTMLToText("  plain text  "); got != "plain text" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello…" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Errorf("got %q", got)
	}
}
