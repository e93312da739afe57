// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/vitrine/internal/app"
	"github.com/okian/vitrine/internal/domain/profile"
	"github.com/okian/vitrine/internal/skin"
)

// ProfileDependencies defines the preview operation.
type ProfileDependencies interface {
	Preview(ctx context.Context, req service.PageRequest) (*service.Preview, error)
}

// ProfileHandler handles profile preview requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /api/v1/profile requests. It accepts the same
// query parameters as the page routes and returns the decoded record with
// its resolved view.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pv, err := h.deps.Preview(r.Context(), pageRequest(r, ""))
	if err != nil {
		writeSkinError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

// PayloadDependencies defines the link-building operation.
type PayloadDependencies interface {
	Link(rec profile.Record, base, skinName string) (encoded, link string, err error)
}

// PayloadHandler encodes profiles into shareable links.
type PayloadHandler struct {
	deps    PayloadDependencies
	maxBody int64
}

// NewPayloadHandler creates a new payload handler.
func NewPayloadHandler(deps PayloadDependencies, maxBody int64) *PayloadHandler {
	return &PayloadHandler{deps: deps, maxBody: maxBody}
}

type payloadResponse struct {
	Payload string `json:"payload"`
	URL     string `json:"url"`
}

// HandlePostPayload handles POST /api/v1/payload requests. The body is a
// profile object using any accepted key spelling; ?skin= selects the page
// route of the returned link.
func (h *PayloadHandler) HandlePostPayload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var rec profile.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	encoded, link, err := h.deps.Link(rec, baseURL(r), r.URL.Query().Get("skin"))
	if err != nil {
		writeSkinError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payloadResponse{Payload: encoded, URL: link})
}

// baseURL reconstructs the externally visible origin of r.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	host := r.Host
	if fh := strings.TrimSpace(r.Header.Get("X-Forwarded-Host")); fh != "" {
		host = fh
	}
	return scheme + "://" + host + "/"
}

func writeSkinError(w http.ResponseWriter, err error) {
	if errors.Is(err, skin.ErrUnknownSkin) {
		writeError(w, http.StatusNotFound, "unknown_skin", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
