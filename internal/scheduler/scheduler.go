// Package scheduler runs the refresh loop that owns all mutable tracker
// state. Each cycle runs to completion — fetch, normalize, select,
// evaluate, publish, persist, replan — before the next wakeup can fire,
// so latest/next and the retry counter are only ever written from one
// goroutine. A failed fetch aborts that cycle's state update; the
// previous launches stay authoritative and previously armed wakeups keep
// their original plan.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mkrebs/padwatch/internal/engine"
	"github.com/mkrebs/padwatch/internal/model"
	"github.com/mkrebs/padwatch/internal/sink"
	"github.com/mkrebs/padwatch/internal/source"
	"github.com/mkrebs/padwatch/internal/store"
	"github.com/mkrebs/padwatch/internal/tile"
)

// Options configures a Scheduler.
type Options struct {
	RefreshInterval   time.Duration
	HoursInactive     time.Duration
	ClearWhenInactive bool
	Tile              tile.Options
	Location          *time.Location

	// Now overrides the clock; nil means time.Now. Tests use this.
	Now func() time.Time
}

// Scheduler owns the tracked launch pair and drives the refresh cycle.
type Scheduler struct {
	src   source.Source
	store *store.Store
	sink  sink.Sink
	opts  Options
	log   *slog.Logger

	latest, next *model.Launch
	attempts     int // status-poll retries spent on the current latest launch

	wake   chan engine.Wakeup
	timers []*time.Timer
}

// New builds a Scheduler. store and sink may be nil (tests).
func New(src source.Source, st *store.Store, snk sink.Sink, opts Options) *Scheduler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 2 * time.Hour
	}
	if snk == nil {
		snk = sink.Multi{}
	}
	return &Scheduler{
		src:   src,
		store: st,
		sink:  snk,
		opts:  opts,
		log:   slog.Default(),
		wake:  make(chan engine.Wakeup, 8),
	}
}

// Run executes the loop until ctx is cancelled. The first cycle runs
// immediately; persisted state, when present, is published before that so
// a restart has data on the dashboard while the fetch is in flight.
func (s *Scheduler) Run(ctx context.Context) error {
	s.restore()
	s.publish()
	s.refresh(ctx)

	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()
	defer s.disarm()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		case w := <-s.wake:
			s.dispatch(ctx, w)
		}
	}
}

// dispatch handles a fired wakeup according to its kind. Duplicate or
// stale wakeups are harmless: every handler is an idempotent
// recomputation over current state.
func (s *Scheduler) dispatch(ctx context.Context, w engine.Wakeup) {
	s.log.Debug("wakeup fired", "kind", w.Kind.String(), "at", w.At)
	switch w.Kind {
	case engine.WakeReselect:
		s.publish()
		s.replan()
	case engine.WakeStatusPoll:
		s.statusPoll(ctx)
	default:
		s.refresh(ctx)
	}
}

// refresh performs a full upstream fetch and, on success, replaces the
// tracked pair wholesale.
func (s *Scheduler) refresh(ctx context.Context) {
	latest, next, err := s.src.FetchLatestAndNext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		var ue *source.UpstreamError
		if errors.As(err, &ue) {
			s.log.Warn("refresh failed, keeping previous state", "err", err)
			return
		}
		s.log.Warn("refresh failed", "err", err)
		return
	}

	if changedLaunch(s.latest, latest) {
		s.attempts = 0
	}
	s.latest, s.next = latest, next
	s.persist()
	s.publish()
	s.replan()
}

// statusPoll re-reads only the latest launch, looking for its outcome to
// resolve. It burns one retry attempt whether or not the poll succeeded;
// the planner stops re-arming the chain once the budget is spent.
func (s *Scheduler) statusPoll(ctx context.Context) {
	s.attempts++
	l, err := s.src.FetchLatest(ctx)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("status poll failed", "attempt", s.attempts, "err", err)
	case l != nil:
		if !l.Status.Unresolved() {
			s.log.Info("launch status resolved", "name", l.Name, "status", l.Status)
		}
		s.latest = l
		s.persist()
	}
	s.publish()
	s.replan()
}

// publish runs selection and the activity evaluation over current state
// and pushes the resulting attributes to the sink.
func (s *Scheduler) publish() {
	now := s.opts.Now()
	sel := engine.Select(s.latest, s.next, now)
	inactive := engine.Inactive(s.latest, s.next, now, s.opts.HoursInactive)
	cleared := inactive && s.opts.ClearWhenInactive

	attrs, err := tile.Attributes(sel, s.opts.Tile, cleared, now, s.opts.Location)
	if err != nil {
		s.log.Warn("building attributes failed", "err", err)
		return
	}
	if err := s.sink.Publish(attrs); err != nil {
		s.log.Warn("publishing attributes failed", "err", err)
	}
	if s.store != nil {
		if err := s.store.PutAttributes(attrs); err != nil {
			s.log.Warn("persisting attributes failed", "err", err)
		}
	}
}

// replan recomputes the wakeup set from current state and re-arms the
// timers, superseding the previous plan wholesale.
func (s *Scheduler) replan() {
	now := s.opts.Now()
	plan := engine.Plan(s.latest, s.next, now, s.opts.HoursInactive, s.attempts)

	s.disarm()
	s.timers = make([]*time.Timer, 0, len(plan))
	for _, w := range plan {
		w := w
		s.timers = append(s.timers, time.AfterFunc(w.At.Sub(now), func() {
			select {
			case s.wake <- w:
			default:
				// A full wake queue means a burst of duplicates; dropping
				// one is safe since handlers recompute from scratch.
			}
		}))
	}
	s.log.Debug("replanned wakeups", "count", len(plan))
}

// disarm stops all armed timers.
func (s *Scheduler) disarm() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// persist writes the tracked pair to the store.
func (s *Scheduler) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.PutState(s.latest, s.next); err != nil {
		s.log.Warn("persisting state failed", "err", err)
	}
}

// restore loads the last persisted pair, if any.
func (s *Scheduler) restore() {
	if s.store == nil {
		return
	}
	latest, next, ok, err := s.store.GetState()
	if err != nil {
		s.log.Warn("restoring state failed", "err", err)
		return
	}
	if ok {
		s.latest, s.next = latest, next
		s.log.Info("restored persisted state",
			"latest", launchName(latest), "next", launchName(next))
	}
}

// changedLaunch reports whether the latest launch is a different flight
// than before, which resets the status-poll budget.
func changedLaunch(prev, cur *model.Launch) bool {
	switch {
	case prev == nil && cur == nil:
		return false
	case prev == nil || cur == nil:
		return true
	}
	return prev.ID != cur.ID
}

func launchName(l *model.Launch) string {
	if l == nil {
		return "<none>"
	}
	return l.Name
}
