package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// Limits enforced before a request leaves the client
var (
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	MessageMaxLength   = 1000
	PostMaxImages      = 4
	ImageMaxBytes      = int64(5 * 1024 * 1024)
	RatingMin          = 1
	RatingMax          = 5
	CommentMaxLength   = 2000
	NameMaxLength      = 100
	BioMaxLength       = 500
	PasswordMinLength  = 6
	TitleMaxLength     = 200
	DefaultMaxSkills   = 50
	CertificationTypes = []string{"coursera", "microsoft", "aws", "udemy", "linkedin-learning"}
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation checks a single string value; lengths count runes
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && strings.TrimSpace(v.Value) == "" {
		return false
	}
	if !v.Required && v.Value == "" {
		return true
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// MessageContent trims a chat message and checks it is sendable.
func MessageContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", apperrors.NewValidationError("content", "Message cannot be empty")
	}
	if utf8.RuneCountInString(content) > MessageMaxLength {
		return "", apperrors.NewValidationError("content", "Message must be 1000 characters or fewer")
	}
	return content, nil
}

// Credentials checks the login form
func Credentials(email, password string) error {
	if !NewStringValidation(email).WithPattern(CompiledPatterns.Email).Validate() {
		return apperrors.NewValidationError("email", "A valid email is required")
	}
	if password == "" {
		return apperrors.NewValidationError("password", "Password is required")
	}
	return nil
}

// Registration checks the register form
func Registration(name, email, password, role string) error {
	if !NewStringValidation(name).WithMaxLength(NameMaxLength).Validate() {
		return apperrors.NewValidationError("name", "Name is required")
	}
	if !NewStringValidation(email).WithPattern(CompiledPatterns.Email).Validate() {
		return apperrors.NewValidationError("email", "A valid email is required")
	}
	if !NewStringValidation(password).WithMinLength(PasswordMinLength).Validate() {
		return apperrors.NewValidationError("password", "Password must be at least 6 characters")
	}
	if role != "student" && role != "professor" {
		return apperrors.NewValidationError("role", "Role must be student or professor")
	}
	return nil
}

// Post checks the post form
func Post(title, content string, imageCount int) error {
	if !NewStringValidation(title).WithMaxLength(TitleMaxLength).Validate() {
		return apperrors.NewValidationError("title", "Title is required")
	}
	if !NewStringValidation(content).Validate() {
		return apperrors.NewValidationError("content", "Content is required")
	}
	if imageCount > PostMaxImages {
		return apperrors.NewValidationError("images", "You can attach up to 4 images")
	}
	return nil
}

// Event checks the event form
func Event(title, description, date, location string, maxParticipants int) error {
	switch {
	case !NewStringValidation(title).WithMaxLength(TitleMaxLength).Validate():
		return apperrors.NewValidationError("title", "Title is required")
	case !NewStringValidation(description).Validate():
		return apperrors.NewValidationError("description", "Description is required")
	case !NewStringValidation(date).Validate():
		return apperrors.NewValidationError("date", "Date is required")
	case !NewStringValidation(location).Validate():
		return apperrors.NewValidationError("location", "Location is required")
	case maxParticipants < 0:
		return apperrors.NewValidationError("maxParticipants", "Max participants cannot be negative")
	}
	return nil
}

// CommentText checks a post comment
func CommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !NewStringValidation(text).WithMaxLength(CommentMaxLength).Validate() {
		return "", apperrors.NewValidationError("text", "Comment cannot be empty")
	}
	return text, nil
}

// Rating checks an optional job rating; zero means no rating
func Rating(r int) error {
	if r == 0 {
		return nil
	}
	if r < RatingMin || r > RatingMax {
		return apperrors.NewValidationError("rating", "Rating must be between 1 and 5")
	}
	return nil
}

// Profile checks the edit-profile form
func Profile(name, bio string) error {
	if !NewStringValidation(name).WithMaxLength(NameMaxLength).Validate() {
		return apperrors.NewValidationError("name", "Name is required")
	}
	if !NewStringValidation(bio).WithRequired(false).WithMaxLength(BioMaxLength).Validate() {
		return apperrors.NewValidationError("bio", "Bio must be 500 characters or fewer")
	}
	return nil
}

// ImageUpload checks an uploaded picture before it is cropped
func ImageUpload(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return apperrors.NewValidationError("picture", "Please select an image file")
	}
	if size > ImageMaxBytes {
		return apperrors.NewValidationError("picture", "Image size must be less than 5MB")
	}
	return nil
}

// CertificationPlatform reports whether p is a supported platform
func CertificationPlatform(p string) bool {
	for _, t := range CertificationTypes {
		if t == p {
			return true
		}
	}
	return false
}

// SplitTags turns "a, b,,c" into [a b c], dropping duplicates
func SplitTags(raw string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
