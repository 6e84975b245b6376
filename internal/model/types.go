// Package model defines the canonical data types used throughout padwatch.
// These types are the single source of truth for launch records: raw
// upstream JSON shapes never leave internal/source, and everything
// downstream of the client boundary handles only these types.
package model

import (
	"strings"
	"time"
)

// ─── Precision ────────────────────────────────────────────────────────────────

// Precision is the granularity at which a launch's scheduled time is known.
// Far-future launches frequently carry only a month or a year.
type Precision string

const (
	PrecisionExact   Precision = "exact" // known to the minute (or hour)
	PrecisionDay     Precision = "day"
	PrecisionMonth   Precision = "month"
	PrecisionQuarter Precision = "quarter"
	PrecisionHalf    Precision = "half"
	PrecisionYear    Precision = "year"
)

// precisionByName maps upstream precision tags (both API generations use
// capitalised words) to canonical values. Minute and hour collapse to exact.
var precisionByName = map[string]Precision{
	"minute":  PrecisionExact,
	"hour":    PrecisionExact,
	"exact":   PrecisionExact,
	"day":     PrecisionDay,
	"week":    PrecisionDay,
	"month":   PrecisionMonth,
	"quarter": PrecisionQuarter,
	"half":    PrecisionHalf,
	"year":    PrecisionYear,
}

// ParsePrecision normalizes an upstream precision tag.
// Unknown or empty tags default to exact, matching the common case of
// launches that simply omit the field.
func ParsePrecision(s string) Precision {
	if p, ok := precisionByName[strings.ToLower(s)]; ok {
		return p
	}
	return PrecisionExact
}

// Coarse reports whether the precision is too coarse to anchor an
// hour-scale boundary (month or wider). Day-level is still considered
// anchored: the date itself is trusted even if the hour is not.
func (p Precision) Coarse() bool {
	switch p {
	case PrecisionMonth, PrecisionQuarter, PrecisionHalf, PrecisionYear:
		return true
	}
	return false
}

// ─── Status ───────────────────────────────────────────────────────────────────

// Status describes where a launch is in its lifecycle. The first API
// generation only distinguishes scheduled/launched/failed; the second
// passes through abbreviation strings (Go, TBD, TBC, Hold, ...) which are
// kept verbatim so the dashboard can show them.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusLaunched  Status = "Launched"
	StatusFailed    Status = "Failed"
	StatusGo        Status = "Go"
	StatusTBD       Status = "TBD"
	StatusTBC       Status = "TBC"
)

// Unresolved reports whether the launch outcome is still unknown.
// Scheduled-like statuses (and the empty string) count as unresolved;
// a launch never transitions back once it resolves.
func (s Status) Unresolved() bool {
	switch s {
	case "", StatusScheduled, StatusGo, StatusTBD, StatusTBC:
		return true
	}
	return false
}

// ─── Core Recovery ────────────────────────────────────────────────────────────

// CoreRecovery is the aggregate booster recovery outcome for a launch,
// independent of mission success.
type CoreRecovery string

const (
	RecoveryNotApplicable  CoreRecovery = "Not Applicable"
	RecoveryNotAttempted   CoreRecovery = "Not Attempted"
	RecoverySuccess        CoreRecovery = "Success"
	RecoveryFailure        CoreRecovery = "Failure"
	RecoveryPartialSuccess CoreRecovery = "Partial Success"
)

// RecoveryAttempt is a single booster landing attempt on a launch.
// Success is only meaningful when Attempted is true.
type RecoveryAttempt struct {
	Attempted bool `json:"attempted"`
	Success   bool `json:"success"`
}

// AggregateRecovery collapses all recovery attempts on a launch into one
// CoreRecovery value. A launch with no cores at all is NotApplicable;
// cores present but never attempting a landing is NotAttempted; otherwise
// the result follows from whether any attempt succeeded and any failed.
func AggregateRecovery(attempts []RecoveryAttempt) CoreRecovery {
	if len(attempts) == 0 {
		return RecoveryNotApplicable
	}
	var success, failure bool
	for _, a := range attempts {
		if !a.Attempted {
			continue
		}
		if a.Success {
			success = true
		} else {
			failure = true
		}
	}
	switch {
	case success && failure:
		return RecoveryPartialSuccess
	case success:
		return RecoverySuccess
	case failure:
		return RecoveryFailure
	default:
		return RecoveryNotAttempted
	}
}

// ─── Launch ───────────────────────────────────────────────────────────────────

// DefaultPatchURL is the placeholder mission patch used when the upstream
// record carries no image.
const DefaultPatchURL = "https://raw.githubusercontent.com/mkrebs/padwatch/main/assets/default-patch.png"

// Launch is the canonical, post-normalization launch record. Any display
// string may be empty; renderers substitute placeholders, never error.
type Launch struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Time         time.Time    `json:"time"`
	Precision    Precision    `json:"precision"`
	Locality     string       `json:"locality"`
	RocketName   string       `json:"rocket_name"`
	Description  string       `json:"description"`
	PatchURL     string       `json:"patch_url"`
	Status       Status       `json:"status"`
	CoreRecovery CoreRecovery `json:"core_recovery"`
	FetchedAt    time.Time    `json:"fetched_at,omitempty"`
}

// Patch returns the mission patch URL, falling back to the default asset.
func (l *Launch) Patch() string {
	if l == nil || l.PatchURL == "" {
		return DefaultPatchURL
	}
	return l.PatchURL
}

// ─── Attributes ───────────────────────────────────────────────────────────────

// Attributes is the named attribute set published to the dashboard sink on
// every cycle. Field names match the attribute names the dashboard binds to.
type Attributes struct {
	Time         int64     `json:"time"` // epoch milliseconds of the displayed launch
	TimeStr      string    `json:"timeStr"`
	Window       string    `json:"window"` // countdown/elapsed, e.g. "T-38m"
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Rocket       string    `json:"rocket"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CoreRecovery string    `json:"coreRecovery"`
	Switch       bool      `json:"switch"` // on while the tracker is in its active window
	Tile         string    `json:"tile"`   // rendered HTML
	GeneratedAt  time.Time `json:"generated_at"`
}
