package export

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/sections"
)

// DefaultSettleDelay is how long the expanded layout is given to settle before capture.
const DefaultSettleDelay = 50 * time.Millisecond

// Phase is the export state machine position.
type Phase int32

// Export phases, in order
const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseCapturing
	PhaseExporting
	PhaseRestoring
)

func (p Phase) String() string {
	switch p {
	case PhasePreparing:
		return "preparing"
	case PhaseCapturing:
		return "capturing"
	case PhaseExporting:
		return "exporting"
	case PhaseRestoring:
		return "restoring"
	default:
		return "idle"
	}
}

// PageSource renders the current page with the live collapse flags.
type PageSource interface {
	Page(ctx context.Context) (string, error)
}

// PageFunc adapts a function to PageSource.
type PageFunc func(ctx context.Context) (string, error)

// Page calls f.
func (f PageFunc) Page(ctx context.Context) (string, error) {
	return f(ctx)
}

// Orchestrator runs one export at a time against a section store.
type Orchestrator struct {
	store    *sections.Store
	source   PageSource
	renderer Renderer
	log      *logging.Logger
	metrics  *metrics.Recorder
	settle   time.Duration
	selector string

	busy  atomic.Bool
	phase atomic.Int32
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.settle = d }
}

// WithSelector overrides ContentSelector.
func WithSelector(selector string) Option {
	return func(o *Orchestrator) { o.selector = selector }
}

// WithMetrics records export outcomes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(store *sections.Store, source PageSource, renderer Renderer, log *logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		source:   source,
		renderer: renderer,
		log:      log,
		settle:   DefaultSettleDelay,
		selector: ContentSelector,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsExporting reports whether an export is running.
func (o *Orchestrator) IsExporting() bool {
	return o.busy.Load()
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	return Phase(o.phase.Load())
}

func (o *Orchestrator) setPhase(p Phase) {
	o.phase.Store(int32(p))
}

// Export expands every section, captures the content region and renders it.
// Collapse flags are restored and the gate released on every exit path.
// A call made while another export runs returns ErrExportInProgress and has no effect.
func (o *Orchestrator) Export(ctx context.Context, opts Options) (doc *Document, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	start := time.Now()

	o.setPhase(PhasePreparing)
	snap := o.store.Snapshot()

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &RenderError{Message: fmt.Sprintf("export panicked: %v", r)}
		}

		o.setPhase(PhaseRestoring)
		o.store.Restore(snap)
		o.setPhase(PhaseIdle)
		o.busy.Store(false)

		o.metrics.ObserveExport(err == nil, time.Since(start))
		if err != nil {
			o.log.Error("export failed", "filename", opts.Filename, "error", err)
		} else {
			o.log.Info("export finished", "filename", doc.Filename, "bytes", len(doc.PDF), "duration", time.Since(start))
		}
	}()

	o.store.ExpandAll()

	o.setPhase(PhaseCapturing)
	if o.settle > 0 {
		timer := time.NewTimer(o.settle)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("export cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	page, err := o.source.Page(ctx)
	if err != nil {
		return nil, &CaptureError{Message: "failed to render page", Cause: err}
	}
	region, err := Region(page, o.selector)
	if err != nil {
		return nil, err
	}

	o.setPhase(PhaseExporting)
	doc, err = o.renderer.Render(ctx, region, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", opts.Filename, err)
	}
	if doc.Filename == "" {
		doc.Filename = opts.Filename
	}
	return doc, nil
}
