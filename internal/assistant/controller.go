package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/types"
)

// DefaultTimeout bounds one gateway call.
const DefaultTimeout = 90 * time.Second

// Locale carries the language-dependent parts of a job.
type Locale struct {
	// LanguageName is the English name of the output language, e.g. "Danish".
	LanguageName string
	// Errors are the fallback messages shown when a failure has no text of its own.
	Errors map[types.JobKind]string
}

func (l Locale) errorMessage(kind types.JobKind) string {
	if msg := l.Errors[kind]; msg != "" {
		return msg
	}
	return "Something went wrong. Please try again."
}

// ContextSource returns the prompt context for the current view.
type ContextSource func() PromptContext

// Controller owns the three assistant jobs of one session.
// Cover letter and skill gap run independently of each other. A summary
// describes the current analysis, so a new skill gap run resets it.
type Controller struct {
	invoker gateway.Invoker
	source  ContextSource
	log     *logging.Logger
	metrics *metrics.Recorder
	timeout time.Duration
	notify  func(JobState)

	mu     sync.Mutex
	locale Locale
	states map[types.JobKind]JobState
	gens   map[types.JobKind]uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithMetrics records job outcomes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = r }
}

// WithNotify registers a callback for every state change. It runs outside the lock.
func WithNotify(fn func(JobState)) Option {
	return func(c *Controller) { c.notify = fn }
}

// WithLocale sets the initial locale.
func WithLocale(l Locale) Option {
	return func(c *Controller) { c.locale = l }
}

// NewController creates a Controller with every job idle.
func NewController(invoker gateway.Invoker, source ContextSource, log *logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		invoker: invoker,
		source:  source,
		log:     log,
		timeout: DefaultTimeout,
		locale:  Locale{LanguageName: "English"},
		states:  make(map[types.JobKind]JobState),
		gens:    make(map[types.JobKind]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, kind := range types.AllJobKinds() {
		c.states[kind] = idle(kind)
	}
	return c
}

// SetLocale retargets future jobs to another language.
func (c *Controller) SetLocale(l Locale) {
	c.mu.Lock()
	c.locale = l
	c.mu.Unlock()
}

// State returns the state of one job.
func (c *Controller) State(kind types.JobKind) JobState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[kind]
}

// Snapshot returns every job state in display order.
func (c *Controller) Snapshot() []JobState {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]JobState, 0, len(c.states))
	for _, kind := range types.AllJobKinds() {
		out = append(out, c.states[kind])
	}
	return out
}

// GenerateCoverLetter starts a cover letter for jobDescription.
func (c *Controller) GenerateCoverLetter(ctx context.Context, jobDescription string) (<-chan struct{}, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	pc := c.source()
	return c.start(ctx, types.JobCoverLetter, func(l Locale) (gateway.Payload, error) {
		return CoverLetterPayload(pc, l.LanguageName, jobDescription)
	})
}

// AnalyzeSkillGap starts a skill gap analysis for jobDescription.
func (c *Controller) AnalyzeSkillGap(ctx context.Context, jobDescription string) (<-chan struct{}, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	pc := c.source()
	return c.start(ctx, types.JobSkillGap, func(l Locale) (gateway.Payload, error) {
		return SkillGapPayload(pc, l.LanguageName, jobDescription)
	})
}

// SummarizeAnalysis summarizes the current successful analysis.
func (c *Controller) SummarizeAnalysis(ctx context.Context) (<-chan struct{}, error) {
	return c.start(ctx, types.JobSummary, nil)
}

// start runs the guards, moves kind to pending and launches the call.
// build runs under the lock so the payload matches the state it guards.
func (c *Controller) start(ctx context.Context, kind types.JobKind, build func(Locale) (gateway.Payload, error)) (<-chan struct{}, error) {
	c.mu.Lock()

	if c.states[kind].Status == StatusPending {
		c.mu.Unlock()
		return nil, ErrJobPending
	}

	var payload gateway.Payload
	var err error
	if kind == types.JobSummary {
		analysis := c.states[types.JobSkillGap]
		if analysis.Status != StatusSuccess || analysis.Analysis == nil {
			c.mu.Unlock()
			return nil, ErrAnalysisRequired
		}
		payload, err = SummaryPayload(analysis.Analysis, c.locale.LanguageName)
	} else {
		payload, err = build(c.locale)
	}
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.gens[kind]++
	gen := c.gens[kind]
	changed := []JobState{{Kind: kind, Status: StatusPending}}
	c.states[kind] = changed[0]

	if kind == types.JobSkillGap && c.states[types.JobSummary].Status != StatusIdle {
		c.gens[types.JobSummary]++
		c.states[types.JobSummary] = idle(types.JobSummary)
		changed = append(changed, c.states[types.JobSummary])
	}
	c.mu.Unlock()

	c.emit(changed...)
	c.log.Info("assistant job started", "kind", kind)

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	done := make(chan struct{})
	startedAt := time.Now()

	go func() {
		defer close(done)
		defer cancel()

		text, err := c.invoker.Invoke(runCtx, kind.Action(), payload)
		c.finish(kind, gen, text, err, startedAt)
	}()

	return done, nil
}

func (c *Controller) finish(kind types.JobKind, gen uint64, text string, callErr error, startedAt time.Time) {
	state := JobState{Kind: kind, Status: StatusSuccess}
	var failure error

	switch {
	case callErr != nil:
		failure = callErr
	case kind == types.JobSkillGap:
		analysis, err := ParseSkillGap(text)
		if err != nil {
			failure = err
		} else {
			state.Analysis = analysis
		}
	case strings.TrimSpace(text) == "":
		failure = errors.New("empty response")
	default:
		state.Text = strings.TrimSpace(text)
	}

	c.mu.Lock()
	if c.gens[kind] != gen {
		c.mu.Unlock()
		c.log.Debug("discarding stale assistant response", "kind", kind)
		c.metrics.ObserveJob(string(kind), "discarded", time.Since(startedAt))
		return
	}
	if failure != nil {
		state = JobState{Kind: kind, Status: StatusError, Error: c.failureMessage(kind, failure)}
	}
	c.states[kind] = state
	c.mu.Unlock()

	if failure != nil {
		c.log.Warn("assistant job failed", "kind", kind, "error", failure)
	} else {
		c.log.Info("assistant job finished", "kind", kind, "duration", time.Since(startedAt))
	}
	c.metrics.ObserveJob(string(kind), string(state.Status), time.Since(startedAt))
	c.emit(state)
}

// failureMessage picks the text shown for a failed job. Gateway errors carry
// a readable message; everything else falls back to the localized text.
// Called with c.mu held.
func (c *Controller) failureMessage(kind types.JobKind, err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && strings.TrimSpace(gwErr.Message) != "" {
		return gwErr.Message
	}
	return c.locale.errorMessage(kind)
}

// Reset returns every job to idle. Responses still in flight are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	changed := make([]JobState, 0, len(c.states))
	for _, kind := range types.AllJobKinds() {
		c.gens[kind]++
		c.states[kind] = idle(kind)
		changed = append(changed, c.states[kind])
	}
	c.mu.Unlock()

	c.emit(changed...)
}

func (c *Controller) emit(states ...JobState) {
	if c.notify == nil {
		return
	}
	for _, s := range states {
		c.notify(s)
	}
}
