// Package engine holds the launch-state decision core: which of the two
// tracked launches to display, whether the tracker is inside its
// inactivity window, and the set of future instants at which the caller
// must wake up and re-evaluate. All functions are pure; no I/O, no clock
// access — the caller passes now explicitly.
package engine

import (
	"sort"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
)

const (
	// switchGap is the latest/next spacing at or above which the display
	// flips a fixed 24h after the latest launch rather than gliding.
	switchGap = 24 * time.Hour

	// settleDelay is how long after a launch's scheduled time the upstream
	// API is given to settle before a full refetch.
	settleDelay = 10 * time.Minute

	// StatusPollInterval spaces the short status-only retries that run
	// while a recent launch's outcome is still unknown.
	StatusPollInterval = 10 * time.Minute

	// statusPollWindow bounds how long after a launch the status retries
	// keep running.
	statusPollWindow = 3 * time.Hour

	// StatusPollMax caps the retry chain; past it the tracker gives up
	// silently and waits for the next natural refresh.
	StatusPollMax = 24
)

// ─── Display Selection ────────────────────────────────────────────────────────

// SwitchInstant computes the instant at which the display flips from the
// latest launch to the next one. Returns ok=false when either launch is
// missing (the caller special-cases single-launch display).
//
// For closely spaced launches (under 24h apart) the instant is the
// midpoint between now and the next launch, expressed as an offset from
// the latest launch's time — so re-evaluating later moves the switch
// forward rather than pinning it. Once now passes the next launch's time
// the switch is immediate. For wider spacing the instant is fixed at one
// day after the latest launch.
func SwitchInstant(latest, next *model.Launch, now time.Time) (time.Time, bool) {
	if latest == nil || next == nil {
		return time.Time{}, false
	}
	if next.Time.Sub(latest.Time) < switchGap {
		if !now.Before(next.Time) {
			return now, true
		}
		half := next.Time.Sub(now) / 2
		return latest.Time.Add(half.Round(time.Second)), true
	}
	return latest.Time.Add(24 * time.Hour), true
}

// Select decides which launch to surface right now. It returns nil only
// when both inputs are nil.
func Select(latest, next *model.Launch, now time.Time) *model.Launch {
	switch {
	case latest == nil && next == nil:
		return nil
	case latest == nil:
		return next
	case next == nil:
		return latest
	}
	at, _ := SwitchInstant(latest, next, now)
	if !now.Before(at) {
		return next
	}
	return latest
}

// ─── Activity Window ──────────────────────────────────────────────────────────

// Inactive reports whether now falls inside the inactivity window between
// the two tracked launches: the span starting gap after the latest launch
// and ending gap before the next one.
//
// A next launch whose time is only known to a month or coarser does not
// anchor an end bound — "gap before sometime this year" is meaningless —
// so only the start bound applies in that case.
func Inactive(latest, next *model.Launch, now time.Time, gap time.Duration) bool {
	var start, end time.Time
	hasStart := latest != nil
	if hasStart {
		start = latest.Time.Add(gap)
	}
	hasEnd := next != nil && !next.Precision.Coarse()
	if hasEnd {
		end = next.Time.Add(-gap)
	}

	switch {
	case hasStart && hasEnd:
		return now.After(start) && now.Before(end)
	case hasEnd:
		return now.Before(end)
	case hasStart:
		return now.After(start)
	default:
		return false
	}
}

// ─── Wakeup Planning ──────────────────────────────────────────────────────────

// WakeKind says what work a wakeup requires.
type WakeKind int

const (
	// WakeReselect re-runs display selection over the launches already held.
	WakeReselect WakeKind = iota
	// WakeRefetch performs a full upstream refresh.
	WakeRefetch
	// WakeStatusPoll re-reads only the latest launch's status.
	WakeStatusPoll
)

// String returns the kind's log name.
func (k WakeKind) String() string {
	switch k {
	case WakeReselect:
		return "reselect"
	case WakeRefetch:
		return "refetch"
	case WakeStatusPoll:
		return "status-poll"
	}
	return "unknown"
}

// Wakeup is a one-shot instant at which the scheduler must act.
type Wakeup struct {
	At   time.Time
	Kind WakeKind
}

// Plan computes every future instant at which the tracker must wake,
// given the current state. attempts is the running status-poll count for
// the latest launch. The result is sorted ascending and deduplicated;
// instants not strictly after now are dropped. Plans are recomputed
// wholesale on every cycle — a fresh plan supersedes all previous arming.
func Plan(latest, next *model.Launch, now time.Time, gap time.Duration, attempts int) []Wakeup {
	var wake []Wakeup

	if at, ok := SwitchInstant(latest, next, now); ok {
		wake = append(wake, Wakeup{At: at, Kind: WakeReselect})
	}
	if next != nil {
		// Post-launch refetch, delayed so the API has settled.
		wake = append(wake, Wakeup{At: next.Time.Add(settleDelay), Kind: WakeRefetch})
		// End of the inactivity window.
		wake = append(wake, Wakeup{At: next.Time.Add(-gap), Kind: WakeRefetch})
	}
	if latest != nil {
		// Start of the inactivity window.
		wake = append(wake, Wakeup{At: latest.Time.Add(gap), Kind: WakeRefetch})
		// Short retry chain while a recent launch's outcome is unknown.
		if latest.Status.Unresolved() && now.Sub(latest.Time) < statusPollWindow && attempts < StatusPollMax {
			wake = append(wake, Wakeup{At: now.Add(StatusPollInterval), Kind: WakeStatusPoll})
		}
	}

	// Keep only future instants, order them, and collapse duplicates.
	// When two kinds land on the same instant the heavier one wins
	// (a refetch subsumes a reselect).
	kept := wake[:0]
	for _, w := range wake {
		if w.At.After(now) {
			kept = append(kept, w)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if !kept[i].At.Equal(kept[j].At) {
			return kept[i].At.Before(kept[j].At)
		}
		return weight(kept[i].Kind) > weight(kept[j].Kind)
	})
	out := kept[:0]
	for _, w := range kept {
		if len(out) > 0 && out[len(out)-1].At.Equal(w.At) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// weight orders kinds by how much work they subsume.
func weight(k WakeKind) int {
	switch k {
	case WakeRefetch:
		return 2
	case WakeStatusPoll:
		return 1
	}
	return 0
}
