package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/bryanwahyu/phishguard/internal/domain/notify"
	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the embedded templates. Safe for concurrent use.
type Renderer struct {
	tpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// MustRenderer is NewRenderer for wiring code where the embedded templates
// are known to parse.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Page writes the full document
func (r *Renderer) Page(w io.Writer, p PageView) error {
	return r.tpl.ExecuteTemplate(w, "page", p)
}

// Result renders a single-scan payload. explanation may be empty.
func (r *Renderer) Result(res *domain.ScanResult, explanation string) (Fragment, error) {
	v := NewResultView(res)
	v.Explanation = explanation
	return r.fragment("result", v)
}

// Batch renders batch items in order
func (r *Renderer) Batch(items []domain.BatchItem) (Fragment, error) {
	return r.fragment("batch", NewBatchView(items))
}

// Toast renders one notification
func (r *Renderer) Toast(n notify.Notification) (Fragment, error) {
	return r.fragment("toast", n)
}

func (r *Renderer) fragment(name string, data any) (Fragment, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return Fragment(buf.String()), nil
}

// Static returns the embedded CSS/JS for http.FileServer
func Static() (http.FileSystem, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
