package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/hpungsan/pintree/internal/errors"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "browse", "outline", "stats"
	Query   string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Code       string
	Message    string
	Loading    bool
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *zap.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, logger *zap.Logger) *Renderer {
	funcMap := template.FuncMap{
		"browseURL": browseURL,
		"crumbURL":  crumbURL,
		"ago":       ago,
		"since":     humanize.Time,
		"selected":  selected,
		"childURL":  childURL,
		"comma":     func(n int) string { return humanize.Comma(int64(n)) },
		"plural":    plural,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"browse":  "browse.html",
		"outline": "outline.html",
		"stats":   "stats.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		logger:    logger,
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For htmx requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if isHTMX(req) {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock renders a specific named block from a page template.
// Used for htmx partial swaps that target a sub-section of the page.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.logger.Error("template not found", zap.String("template", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.logger.Error("template execution failed", zap.String("template", page), zap.String("block", block), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
// NOT_READY responses carry Retry-After and render the loading panel.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	pErr := errors.As(err)
	status := pErr.Status
	loading := pErr.Code == errors.ErrNotReady
	if loading {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(pErr.Code),
				"message": pErr.Message,
				"status":  status,
			},
		})
		return
	}

	title := fmt.Sprintf("Error %d", status)
	if loading {
		title = "Loading"
	}
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(title, ""),
		StatusCode: status,
		Code:       string(pErr.Code),
		Message:    pErr.Message,
		Loading:    loading,
	})
}

const retryAfterSeconds = 2

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is not passed through.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

func isHTMX(req *http.Request) bool {
	return req != nil && req.Header.Get("HX-Request") == "true"
}

func wantsJSON(req *http.Request) bool {
	return strings.HasPrefix(req.URL.Path, "/api/") ||
		strings.Contains(req.Header.Get("Accept"), "application/json")
}

// browseURL builds a /browse link selecting the given levels in order.
func browseURL(levels ...string) string {
	keys := []string{"p", "s", "t"}
	v := url.Values{}
	for i, title := range levels {
		if i >= len(keys) {
			break
		}
		v.Set(keys[i], title)
	}
	if len(v) == 0 {
		return "/browse"
	}
	return "/browse?" + v.Encode()
}

// crumbURL links breadcrumb i back to its level.
func crumbURL(crumbs []string, i int) string {
	return browseURL(crumbs[:i+1]...)
}

// selected reports whether title is the selection at level (0-based).
func selected(crumbs []string, level int, title string) bool {
	return level < len(crumbs) && crumbs[level] == title
}

// childURL links a child folder of the current position, or returns "" when
// the position is already at the deepest navigable level.
func childURL(crumbs []string, title string) string {
	if len(crumbs) >= 3 {
		return ""
	}
	return browseURL(append(slices.Clone(crumbs), title)...)
}

func ago(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return humanize.Time(*t)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
