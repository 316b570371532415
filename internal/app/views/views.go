// Package views holds the embedded page templates and the gin renderer
// that pairs each page with the shared layout.
package views

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/pkg/helpers"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the stylesheet and browser script
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Options configures the template functions that depend on runtime values
type Options struct {
	// AssetURL resolves backend upload paths
	AssetURL func(string) string
	// Now is used for relative times; defaults to time.Now
	Now func() time.Time
}

// Renderer implements gin's render.HTMLRender with one template set per page
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout, partials and every page
func New(opts Options) (*Renderer, error) {
	if opts.AssetURL == nil {
		opts.AssetURL = func(s string) string { return s }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	base, err := template.New("layout").Funcs(FuncMap(opts)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, p); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", p, err)
		}
		r.pages[strings.TrimSuffix(path.Base(p), ".html")] = t
	}
	return r, nil
}

// Instance returns the render for a page name such as "home". A name of
// the form "page:fragment" renders only that template of the page, without
// the layout.
func (r *Renderer) Instance(name string, data any) render.Render {
	page, fragment, partial := strings.Cut(name, ":")
	t, ok := r.pages[page]
	if !ok {
		return render.HTML{Template: r.pages["error"], Name: "layout", Data: data}
	}
	if partial {
		return render.HTML{Template: t, Name: fragment, Data: data}
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Has reports whether a page exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// FuncMap returns the template helpers
func FuncMap(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset":            opts.AssetURL,
		"messageTime":      func(t time.Time) string { return helpers.MessageTime(t, opts.Now()) },
		"conversationTime": func(t time.Time) string { return helpers.ConversationTime(t, opts.Now()) },
		"postedAgo":        func(t time.Time) string { return helpers.PostedAgo(t, opts.Now()) },
		"longDate":         helpers.LongDate,
		"inputDate":        func(t time.Time) string { return inputDate(t) },
		"salary": func(j models.Job) string {
			return helpers.FormatSalary(j.MinSalary, j.MaxSalary, j.Salary)
		},
		"jobLocation": func(j models.Job) string {
			return helpers.JobLocation(j.IsRemote, j.City, j.State, j.Country)
		},
		"employmentType": helpers.EmploymentTypeLabel,
		"paragraphs": func(s string) []string {
			text := helpers.HTMLToText(s)
			if text == "" {
				return nil
			}
			return strings.Split(text, "\n")
		},
		"truncate": helpers.Truncate,
		"join":     strings.Join,
		"rating":   func(f float64) string { return fmt.Sprintf("%.1f", f) },
		"stars":    stars,
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"isUpcoming": func(e models.Event) bool { return e.IsUpcoming(opts.Now()) },
		"add":        func(a, b int) int { return a + b },

		"certJSON": func(c models.Certification) string {
			b, err := json.Marshal(c)
			if err != nil {
				return ""
			}
			return string(b)
		},

		"canDeleteComment":    auth.CanDeleteComment,
		"canDeleteJobComment": auth.CanDeleteJobComment,
		"canDeleteMessage":    auth.CanDeleteMessage,
	}
}

func inputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02T15:04")
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
