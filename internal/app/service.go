// Package service provides the page service behind the HTTP API: it turns
// a request's payload into a rendered profile page.
package service

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/vitrine/internal/adapters/dom"
	"github.com/okian/vitrine/internal/domain/binder"
	"github.com/okian/vitrine/internal/domain/model"
	"github.com/okian/vitrine/internal/domain/payload"
	"github.com/okian/vitrine/internal/domain/profile"
	"github.com/okian/vitrine/internal/domain/types"
	"github.com/okian/vitrine/internal/skin"
	"github.com/okian/vitrine/pkg/logger"
	"github.com/okian/vitrine/pkg/metrics"
)

// Prober answers whether an image URL can be displayed.
type Prober interface {
	Probe(ctx context.Context, kind, url string) bool
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Stats() types.ProbeStats
}

// PageRequest is one page view.
type PageRequest struct {
	// Query holds the request's query parameters, payload included.
	Query url.Values
	// Skin names the template; empty selects the default skin.
	Skin string
	// Lang overrides the page language.
	Lang string
	// RequestID correlates logs.
	RequestID string
	// ID is the opaque identifier carried by the id parameter; logged only.
	ID string
}

// Page is a rendered document.
type Page struct {
	HTML      []byte
	Status    int
	Skin      string
	Fallbacks []string
	// Err is the bind or render failure behind an error page.
	Err error
}

// Preview is the decoded record with its resolved view.
type Preview struct {
	Skin         string              `json:"skin"`
	Record       profile.Record      `json:"record"`
	View         binder.View         `json:"view"`
	Probes       binder.Probes       `json:"probes"`
	Param        string              `json:"param"`
	Placeholders binder.Placeholders `json:"placeholders"`
}

// Service renders profile pages.
type Service struct {
	mu sync.RWMutex

	skins   *skin.Registry
	decoder *payload.Decoder
	writer  *binder.Writer
	prober  Prober

	placeholders   binder.Placeholders
	contactMessage string
	baseURL        string

	started   bool
	startedAt time.Time
	rendered  atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// New constructs a Service. Components not supplied through options are
// built with their defaults. Without WithProber every http(s) image URL is
// trusted.
func New(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrGlobal(s.logger).Named("service")

	if s.skins == nil {
		reg, err := skin.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("skins: %w", err)
		}
		s.skins = reg
	}
	if s.decoder == nil {
		s.decoder = payload.NewDecoder(payload.WithLogger(s.logger))
	}
	if s.writer == nil {
		s.writer = binder.NewWriter(binder.WithLogger(s.logger))
	}
	if s.prober == nil {
		s.prober = trustingProber{}
	}
	return s, nil
}

// Start launches background components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting page service...")
	s.prober.Start(ctx)
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "page service started",
		logger.String("default_skin", s.skins.Default().Name),
		logger.String("payload_param", s.decoder.Param()),
		logger.Bool("probe_enabled", s.prober.Stats().Enabled),
	)
	return nil
}

// Stop gracefully shuts down background components.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping page service...")
	s.started = false
	if err := s.prober.Stop(ctx); err != nil {
		return fmt.Errorf("stop service: %w", err)
	}
	s.logger.Info(ctx, "page service stopped")
	return nil
}

// Skins exposes the skin registry.
func (s *Service) Skins() *skin.Registry {
	return s.skins
}

// Param returns the query parameter carrying payloads.
func (s *Service) Param() string {
	return s.decoder.Param()
}

// Render produces the page for req. Decoding never fails: a missing or
// malformed payload shows the default profile. A bind or render failure
// yields the skin's error view with status 500. Only an unknown skin is
// returned as an error.
func (s *Service) Render(ctx context.Context, req PageRequest) (*Page, error) {
	sk, err := s.skins.Lookup(req.Skin)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := s.logger.With(logger.String("request_id", req.RequestID), logger.String("skin", sk.Name))
	if req.ID != "" {
		log = log.With(logger.String("id", req.ID))
	}

	rec := s.decoder.DecodeValues(ctx, req.Query)
	probes := s.probe(ctx, req.RequestID, rec)
	view := s.resolve(rec, probes, sk, req.Lang)

	out, err := s.bind(ctx, sk, view)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordPageRender(sk.Name, metrics.RenderError)
		log.Error(ctx, "page render failed; serving error view", logger.Error(err))
		return s.errorPage(ctx, sk, err), nil
	}

	s.rendered.Add(1)
	metrics.RecordPageRender(sk.Name, metrics.RenderOK)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordRenderLatency(sk.Name, elapsed)
	log.Debug(ctx, "page rendered",
		logger.Float64("latency_ms", elapsed),
		logger.String("fallbacks", strings.Join(view.Fallbacks, ",")),
	)
	return &Page{HTML: out, Status: statusOK, Skin: sk.Name, Fallbacks: view.Fallbacks}, nil
}

// Preview decodes and resolves req without rendering HTML.
func (s *Service) Preview(ctx context.Context, req PageRequest) (*Preview, error) {
	sk, err := s.skins.Lookup(req.Skin)
	if err != nil {
		return nil, err
	}
	rec := s.decoder.DecodeValues(ctx, req.Query)
	probes := s.probe(ctx, req.RequestID, rec)
	opts := sk.Options(s.placeholders, s.contactMessage)
	return &Preview{
		Skin:         sk.Name,
		Record:       rec,
		View:         s.resolve(rec, probes, sk, req.Lang),
		Probes:       probes,
		Param:        s.decoder.Param(),
		Placeholders: opts.Placeholders,
	}, nil
}

// Link encodes rec and returns the payload with the page URL for it. The
// configured public base URL takes precedence over base.
func (s *Service) Link(rec profile.Record, base, skinName string) (encoded, link string, err error) {
	if s.baseURL != "" {
		base = s.baseURL
	}
	if skinName != "" {
		sk, err := s.skins.Get(skinName)
		if err != nil {
			return "", "", err
		}
		base = strings.TrimRight(base, "/") + "/p/" + sk.Name
	}
	encoded, err = payload.Encode(rec)
	if err != nil {
		return "", "", err
	}
	link, err = payload.Link(base, s.decoder.Param(), rec)
	if err != nil {
		return "", "", err
	}
	return encoded, link, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		Running:       s.started,
		DefaultSkin:   s.skins.Default().Name,
		Skins:         s.skins.Names(),
		PayloadParam:  s.decoder.Param(),
		PagesRendered: s.rendered.Load(),
		PagesFailed:   s.failed.Load(),
		Probe:         s.prober.Stats(),
	}
	if s.started {
		st.Uptime = time.Since(s.startedAt).Truncate(time.Second).String()
	}
	return st
}

// probe checks photo and banner concurrently. A cancelled request stops
// both; whatever was not confirmed falls back.
func (s *Service) probe(ctx context.Context, requestID string, rec profile.Record) binder.Probes {
	var photo, banner bool
	g, gctx := errgroup.WithContext(ctx)
	if rec.PhotoURL != "" {
		g.Go(func() error {
			photo = s.prober.Probe(gctx, model.KindPhoto, rec.PhotoURL)
			return gctx.Err()
		})
	}
	if rec.BannerURL != "" {
		g.Go(func() error {
			banner = s.prober.Probe(gctx, model.KindBanner, rec.BannerURL)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Debug(ctx, "image probes cut short", logger.String("request_id", requestID), logger.Error(err))
	}
	if rec.PhotoURL != "" && !photo {
		s.logger.Debug(ctx, "photo unavailable; using initials avatar", logger.String("request_id", requestID))
	}
	return binder.Probes{Photo: photo, Banner: banner}
}

func (s *Service) resolve(rec profile.Record, probes binder.Probes, sk skin.Skin, lang string) binder.View {
	opts := sk.Options(s.placeholders, s.contactMessage)
	opts.Language = lang
	v := binder.Resolve(rec, probes, opts)
	if v.Language == "" {
		v.Language = sk.Language
	}
	return v
}

// bind writes view into a fresh copy of the skin document. Panics in the
// document layer are converted into errors.
func (s *Service) bind(ctx context.Context, sk skin.Skin, view binder.View) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: panic: %v", ErrRender, r)
		}
	}()

	doc, err := dom.ParseBytes(sk.Document, sk.Selectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := s.writer.Write(ctx, view, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBind, err)
	}
	out, err = doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return out, nil
}

// errorPage renders the skin's error view, or a minimal static page when
// the skin itself cannot be rendered.
func (s *Service) errorPage(ctx context.Context, sk skin.Skin, cause error) *Page {
	msg := sk.Options(s.placeholders, s.contactMessage).Placeholders.Error
	page := &Page{Status: statusError, Skin: sk.Name, Err: cause}

	out, err := func() (b []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: panic: %v", ErrRender, r)
			}
		}()
		doc, err := dom.ParseBytes(sk.Document, sk.Selectors)
		if err != nil {
			return nil, err
		}
		if err := s.writer.WriteError(ctx, doc, msg); err != nil {
			return nil, err
		}
		return doc.Bytes()
	}()
	if err != nil {
		s.logger.Warn(ctx, "error view unavailable; serving static page", logger.Error(err))
		out = []byte(fmt.Sprintf(fallbackErrorPage, html.EscapeString(msg)))
	}
	page.HTML = out
	return page
}

// trustingProber accepts every http(s) URL without fetching it.
type trustingProber struct{}

func (trustingProber) Probe(_ context.Context, kind, raw string) bool {
	_, ok := binder.UsableImageURL(raw)
	if ok {
		metrics.RecordProbe(kind, metrics.ProbeSkipped)
	} else {
		metrics.RecordProbe(kind, metrics.ProbeRejected)
	}
	return ok
}

func (trustingProber) Start(context.Context)      {}
func (trustingProber) Stop(context.Context) error { return nil }
func (trustingProber) Stats() types.ProbeStats    { return types.ProbeStats{} }
