package location

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultInterval = 3 * time.Second

var NoPartnerErr = errors.New("no partner identity available")

// Sample is one device position reading, produced per tick and not retained.
type Sample struct {
	Latitude  float64
	Longitude float64
}

// Positioner is the platform location provider.
type Positioner interface {
	Position(ctx context.Context) (Sample, error)
}

// Pusher reports a sample to the backend, tagged with the partner ID.
type Pusher interface {
	PushLocation(ctx context.Context, partnerID string, lat, lng float64) error
}

// IdentitySource resolves the partner the samples belong to. Start fails when
// no identity is resolvable.
type IdentitySource interface {
	PartnerID() (string, bool)
}

// statusCoder is implemented by backend errors that carry an HTTP status;
// matching codes in the suppression list are dropped without logging.
type statusCoder interface {
	StatusCode() int
}

// Reporter samples device location on a fixed cadence while a session is
// active and pushes it to the backend. Steady-state ticking never raises to
// the caller: transient failures are swallowed, with only non-suppressed
// statuses logged. No retry, no backoff.
type Reporter struct {
	positioner Positioner
	pusher     Pusher
	identity   IdentitySource
	interval   time.Duration
	suppress   []int
	log        zerolog.Logger

	mu       sync.Mutex
	stopCh   chan struct{}
	inFlight atomic.Bool
}

// ReporterOption defines a function type to modify the Reporter instance.
type ReporterOption func(*Reporter)

// WithInterval overrides the tick cadence (primarily for testing).
func WithInterval(d time.Duration) ReporterOption {
	return func(r *Reporter) {
		r.interval = d
	}
}

// WithSuppressedStatuses replaces the list of HTTP statuses whose push
// failures are silenced entirely. Defaults to 400 and 403.
func WithSuppressedStatuses(statuses []int) ReporterOption {
	return func(r *Reporter) {
		r.suppress = statuses
	}
}

// WithReporterLogger sets the reporter's logger.
func WithReporterLogger(log zerolog.Logger) ReporterOption {
	return func(r *Reporter) {
		r.log = log
	}
}

// NewReporter creates a Reporter. It does not start ticking until Start.
func NewReporter(positioner Positioner, pusher Pusher, identity IdentitySource, options ...ReporterOption) *Reporter {
	r := &Reporter{
		positioner: positioner,
		pusher:     pusher,
		identity:   identity,
		interval:   defaultInterval,
		suppress:   []int{400, 403},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Start arms the periodic tick. Idempotent: when already running, the active
// timer is cleared and replaced, never doubled. Fails only when no partner
// identity is resolvable.
func (r *Reporter) Start() error {
	partnerID, ok := r.identity.PartnerID()
	if !ok || partnerID == "" {
		return NoPartnerErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopCh != nil {
		close(r.stopCh)
	}
	stopCh := make(chan struct{})
	r.stopCh = stopCh

	go r.run(partnerID, stopCh)

	r.log.Info().Str("partner_id", partnerID).Dur("interval", r.interval).Msg("location reporting started")
	return nil
}

// Stop cancels the active timer. Safe to call when not running; no further
// ticks fire after Stop returns, though a push already in flight is allowed
// to finish.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopCh == nil {
		return
	}
	close(r.stopCh)
	r.stopCh = nil
	r.log.Info().Msg("location reporting stopped")
}

// Running reports whether a timer is currently armed.
func (r *Reporter) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopCh != nil
}

func (r *Reporter) run(partnerID string, stopCh chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// The interval is wall-clock: a slow push must not delay the
			// next tick's scheduling, so each tick runs off the loop. A tick
			// whose push is still in flight when the next fires is skipped.
			if !r.inFlight.CompareAndSwap(false, true) {
				r.log.Debug().Msg("previous location push still in flight, skipping tick")
				continue
			}
			go r.tick(partnerID)
		}
	}
}

func (r *Reporter) tick(partnerID string) {
	defer r.inFlight.Store(false)

	ctx := context.Background()
	sample, err := r.positioner.Position(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("location sample failed")
		return
	}

	if !finite(sample.Latitude) || !finite(sample.Longitude) {
		r.log.Debug().
			Float64("lat", sample.Latitude).
			Float64("lng", sample.Longitude).
			Msg("dropping invalid location sample")
		return
	}

	if err := r.pusher.PushLocation(ctx, partnerID, sample.Latitude, sample.Longitude); err != nil {
		if r.suppressed(err) {
			return
		}
		r.log.Error().Err(err).Msg("location push failed")
		return
	}

	r.log.Debug().
		Float64("lat", sample.Latitude).
		Float64("lng", sample.Longitude).
		Msg("location updated")
}

func (r *Reporter) suppressed(err error) bool {
	var sc statusCoder
	if !errors.As(err, &sc) {
		return false
	}
	for _, code := range r.suppress {
		if sc.StatusCode() == code {
			return true
		}
	}
	return false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
