package web

import (
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hpungsan/pintree/internal/ops"
	"github.com/hpungsan/pintree/internal/session"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	sess     *session.Session
	logger   *zap.Logger
	renderer *Renderer
}

// BrowsePageData is the template data for the browse page.
type BrowsePageData struct {
	PageData
	View       *ops.BrowseOutput
	Results    []ops.LinkItem
	Pagination *ops.Pagination
	NextURL    string
}

// OutlinePageData is the template data for the outline page.
type OutlinePageData struct {
	PageData
	Depth int
	HTML  template.HTML
}

// StatsPageData is the template data for the stats page.
type StatsPageData struct {
	PageData
	Stats *ops.StatsOutput
	Lint  *ops.LintOutput
}

func browseInput(r *http.Request) ops.BrowseInput {
	q := r.URL.Query()
	return ops.BrowseInput{
		Primary:   q.Get("p"),
		Secondary: q.Get("s"),
		Tertiary:  q.Get("t"),
		Query:     q.Get("q"),
	}
}

// HandleBrowse handles GET /browse: the category view, or search results
// when q is set.
func (h *Handlers) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	view, err := ops.Browse(r.Context(), h.sess, browseInput(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	for _, m := range view.Misses {
		h.logger.Warn("browse lookup miss", zap.String("level", string(m.Level)), zap.String("title", m.Title))
	}

	title := "Bookmarks"
	if n := len(view.Breadcrumbs); n > 0 {
		title = view.Breadcrumbs[n-1]
	}
	data := BrowsePageData{
		PageData: h.renderer.page(title, "browse"),
		View:     view,
		Results:  view.Results,
	}
	data.Query = view.Query
	h.renderer.renderPage(w, r, "browse", data)
}

// HandleSearch handles GET /search: paginated search. Requests targeting
// #results get only the results fragment.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	in := browseInput(r)
	partial := r.Header.Get("HX-Target") == "results"

	if in.Query == "" && !partial {
		http.Redirect(w, r, browseURL(nonEmpty(in.Primary, in.Secondary, in.Tertiary)...), http.StatusFound)
		return
	}

	view, err := ops.Browse(r.Context(), h.sess, ops.BrowseInput{Primary: in.Primary, Secondary: in.Secondary, Tertiary: in.Tertiary})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data := BrowsePageData{
		PageData: h.renderer.page("Search", "browse"),
		View:     view,
	}
	data.Query = in.Query

	if in.Query != "" {
		result, err := ops.Search(r.Context(), h.sess, ops.SearchInput{
			Query:  in.Query,
			Limit:  parseIntParam(r, "limit", ops.DefaultSearchLimit),
			Offset: parseIntParam(r, "offset", 0),
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Results = result.Items
		data.Pagination = &result.Pagination
		if result.Pagination.HasMore {
			q := r.URL.Query()
			q.Set("offset", strconv.Itoa(result.Pagination.Offset+result.Pagination.Limit))
			data.NextURL = "/search?" + q.Encode()
		}
	}

	if partial {
		h.renderer.renderBlock(w, http.StatusOK, "browse", "results", data)
		return
	}
	h.renderer.renderPage(w, r, "browse", data)
}

// HandleOutline handles GET /outline: the hierarchy as rendered markdown.
func (h *Handlers) HandleOutline(w http.ResponseWriter, r *http.Request) {
	depth := parseIntParam(r, "depth", 0)
	tree, err := ops.Tree(r.Context(), h.sess, ops.TreeInput{Depth: depth, Format: ops.TreeFormatMarkdown})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, r, "outline", OutlinePageData{
		PageData: h.renderer.page("Outline", "outline"),
		Depth:    depth,
		HTML:     renderMarkdown(tree.Markdown),
	})
}

// HandleStats handles GET /stats: counts and decode issues.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ops.Stats(r.Context(), h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	lint, err := ops.Lint(r.Context(), h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: h.renderer.page("Stats", "stats"),
		Stats:    stats,
		Lint:     lint,
	})
}

// HandleReload handles POST /reload: reload the source and reset navigation.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Reload(r.Context(), h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// htmx request: redirect via HX-Redirect header
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/browse")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/browse", http.StatusSeeOther)
}

// HandleAPIView handles GET /api/view: the browse view as JSON.
func (h *Handlers) HandleAPIView(w http.ResponseWriter, r *http.Request) {
	view, err := ops.Browse(r.Context(), h.sess, browseInput(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, view)
}

// HandleAPIStatus handles GET /api/status: the session's load status.
func (h *Handlers) HandleAPIStatus(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status": h.sess.Status(),
		"source": h.sess.Source(),
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// nonEmpty returns the leading non-empty values.
func nonEmpty(values ...string) []string {
	for i, v := range values {
		if v == "" {
			return values[:i]
		}
	}
	return values
}
