package ctl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/vitrine/internal/adapters/dom"
	"github.com/okian/vitrine/internal/domain/binder"
	"github.com/okian/vitrine/internal/skin"
	"github.com/okian/vitrine/pkg/logger"
)

// headerRequestID matches the header the server echoes.
const headerRequestID = "X-Request-ID"

// Checker fetches rendered pages and reads their slots back.
type Checker struct {
	client *http.Client
	skins  *skin.Registry
	cfg    *Config
	logger logger.Logger
}

// NewChecker creates a Checker for cfg.
func NewChecker(cfg *Config, l logger.Logger) (*Checker, error) {
	skins, err := skin.NewRegistry()
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		client: &http.Client{Timeout: timeout},
		skins:  skins,
		cfg:    cfg,
		logger: logger.OrGlobal(l).Named("check"),
	}, nil
}

// CheckAll checks every target concurrently. Reports keep the order of
// targets; a failed fetch is reported in its Report rather than aborting
// the others.
func (c *Checker) CheckAll(ctx context.Context, targets []string) []Report {
	reports := make([]Report, len(targets))
	workers := c.cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, target := range targets {
		g.Go(func() error {
			reports[i] = c.Check(gctx, target)
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

// Check fetches one page and reports the state of every slot.
func (c *Checker) Check(ctx context.Context, target string) (rep Report) {
	start := time.Now()
	rep = Report{URL: target, RequestID: uuid.NewString()}
	defer func() { rep.Duration = time.Since(start).Truncate(time.Millisecond).String() }()

	sk, err := c.skinFor(target)
	if err != nil {
		rep.Err = err.Error()
		return rep
	}
	rep.Skin = sk.Name

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		rep.Err = fmt.Errorf("%w: %w", ErrCheck, err).Error()
		return rep
	}
	req.Header.Set(headerRequestID, rep.RequestID)

	resp, err := c.client.Do(req)
	if err != nil {
		rep.Err = fmt.Errorf("%w: %w", ErrCheck, err).Error()
		return rep
	}
	defer resp.Body.Close()
	rep.Status = resp.StatusCode
	if id := resp.Header.Get(headerRequestID); id != "" {
		rep.RequestID = id
	}

	doc, err := dom.Parse(io.LimitReader(resp.Body, maxPageBytes), sk.Selectors)
	if err != nil {
		rep.Err = fmt.Errorf("%w: %w", ErrCheck, err).Error()
		return rep
	}
	rep.Language = doc.Language()
	rep.Missing = doc.Missing(binder.AllSlots...)
	for _, name := range binder.AllSlots {
		text, ok := doc.Text(name)
		if !ok {
			continue
		}
		rep.Slots = append(rep.Slots, SlotValue{
			Name:     name,
			Text:     strings.Join(strings.Fields(text), " "),
			Hidden:   doc.Hidden(name),
			Children: doc.Children(name),
		})
	}
	c.logger.Debug(ctx, "page checked",
		logger.String("url", target),
		logger.String("request_id", rep.RequestID),
		logger.Int("status", rep.Status))
	return rep
}

// skinFor resolves the skin from the command flag or the /p/{skin} path.
func (c *Checker) skinFor(target string) (skin.Skin, error) {
	if c.cfg.Skin != "" {
		return c.skins.Get(c.cfg.Skin)
	}
	u, err := url.Parse(target)
	if err != nil {
		return skin.Skin{}, fmt.Errorf("%w: %w", ErrCheck, err)
	}
	if name, ok := strings.CutPrefix(u.Path, "/p/"); ok && name != "" {
		return c.skins.Get(strings.TrimSuffix(name, "/"))
	}
	if name := u.Query().Get("skin"); name != "" {
		return c.skins.Get(name)
	}
	return c.skins.Default(), nil
}
