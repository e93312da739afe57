// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/vitrine/internal/app"
	"github.com/okian/vitrine/internal/skin"
	"github.com/okian/vitrine/pkg/logger"
)

// PageRenderer renders profile pages.
type PageRenderer interface {
	Render(ctx context.Context, req service.PageRequest) (*service.Page, error)
}

// PageHandler serves rendered profile pages.
type PageHandler struct {
	deps   PageRenderer
	logger logger.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(deps PageRenderer, l logger.Logger) *PageHandler {
	return &PageHandler{deps: deps, logger: logger.OrGlobal(l)}
}

// HandleRootPage handles GET / with the default or ?skin= selected skin.
func (h *PageHandler) HandleRootPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, "")
}

// HandleSkinPage handles GET /p/{skin} requests.
func (h *PageHandler) HandleSkinPage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/p/")
	if name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, name)
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	page, err := h.deps.Render(r.Context(), pageRequest(r, name))
	if err != nil {
		if errors.Is(err, skin.ErrUnknownSkin) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error(r.Context(), "page request failed",
			logger.String("request_id", RequestIDFromContext(r.Context())), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(page.HTML)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(page.Status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(page.HTML)
}
