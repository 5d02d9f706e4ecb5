package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ExpiryPollInterval is how often the placeholder page re-checks its token.
const ExpiryPollInterval = 5 * time.Second

type loginPage struct {
	Error string
}

type adminPage struct {
	DefaultMinutes int
}

type placeholderPage struct {
	PollMillis int64
}

// render executes a template into a buffer first so a template error still
// yields a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render page", "request_id", getRequestID(r), "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// handleExpired handles GET /expired.
func (h *Handler) handleExpired(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "expired.html", nil)
}

// handlePage serves every gated page. With a root dir configured the files
// under it are served; otherwise "/" gets the placeholder page.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if root := h.Settings().RootDir; root != "" {
		http.FileServer(http.Dir(root)).ServeHTTP(w, r)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, "placeholder.html", placeholderPage{
		PollMillis: ExpiryPollInterval.Milliseconds(),
	})
}
