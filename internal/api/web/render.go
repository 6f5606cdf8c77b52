// Package web renders the HTML pages served by the application.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Page names accepted by Renderer.Render.
const (
	PageIndex      = "index.html"
	PageSignUp     = "sign-up.html"
	PageLogIn      = "log-in.html"
	PageMembership = "membership.html"
	PageCreatePost = "create-post.html"
	PageError      = "error.html"
)

// Page is the view model shared by every template.
type Page struct {
	Title string
	// User is nil for anonymous visitors.
	User *domain.User
	// Errors are form-level messages shown above the form.
	Errors []string
	// FieldErrors holds per-field messages keyed by form field name.
	FieldErrors map[string][]string
	// Form echoes submitted values back into the inputs. Passwords are never
	// echoed.
	Form map[string]string
	// Incorrect marks a rejected membership secret.
	Incorrect bool
	Status    int
	Message   string
}

// Renderer implements echo.Renderer over the embedded templates. Each page is
// parsed together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		tmpl, err := template.ParseFS(templatesFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[path.Base(f)] = tmpl
	}
	return r, nil
}

// MustNewRenderer is like NewRenderer but panics on a template error.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
