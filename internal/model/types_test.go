package model_test

import (
	"testing"

	"github.com/mkrebs/padwatch/internal/model"
)

// ─── Recovery Aggregation ─────────────────────────────────────────────────────

// attempts builds an attempt slice with the given number of successful,
// failed, and not-attempted cores.
func attempts(success, failure, skipped int) []model.RecoveryAttempt {
	var out []model.RecoveryAttempt
	for i := 0; i < success; i++ {
		out = append(out, model.RecoveryAttempt{Attempted: true, Success: true})
	}
	for i := 0; i < failure; i++ {
		out = append(out, model.RecoveryAttempt{Attempted: true, Success: false})
	}
	for i := 0; i < skipped; i++ {
		out = append(out, model.RecoveryAttempt{Attempted: false})
	}
	return out
}

func TestAggregateRecoveryTable(t *testing.T) {
	cases := []struct {
		name string
		in   []model.RecoveryAttempt
		want model.CoreRecovery
	}{
		{"no cores", nil, model.RecoveryNotApplicable},
		{"empty slice", []model.RecoveryAttempt{}, model.RecoveryNotApplicable},
		{"cores but no attempts", attempts(0, 0, 2), model.RecoveryNotAttempted},
		{"single success", attempts(1, 0, 0), model.RecoverySuccess},
		{"single failure", attempts(0, 1, 0), model.RecoveryFailure},
		{"success and failure", attempts(1, 1, 0), model.RecoveryPartialSuccess},
		{"multiple successes", attempts(3, 0, 0), model.RecoverySuccess},
		{"multiple failures", attempts(0, 3, 0), model.RecoveryFailure},
		{"mixed with skipped", attempts(1, 1, 1), model.RecoveryPartialSuccess},
		{"success plus skipped", attempts(2, 0, 1), model.RecoverySuccess},
		{"failure plus skipped", attempts(0, 2, 1), model.RecoveryFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := model.AggregateRecovery(tc.in); got != tc.want {
				t.Errorf("AggregateRecovery(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestAggregateRecoveryExhaustive walks every combination of attempt
// presence, success presence, and failure presence, checking the
// collapsed result against the decision table.
func TestAggregateRecoveryExhaustive(t *testing.T) {
	for _, hasAttempts := range []bool{false, true} {
		for _, anySuccess := range []bool{false, true} {
			for _, anyFailure := range []bool{false, true} {
				var in []model.RecoveryAttempt
				if hasAttempts {
					in = attempts(0, 0, 1)
				}
				if anySuccess {
					in = append(in, model.RecoveryAttempt{Attempted: true, Success: true})
				}
				if anyFailure {
					in = append(in, model.RecoveryAttempt{Attempted: true, Success: false})
				}

				var want model.CoreRecovery
				switch {
				case len(in) == 0:
					want = model.RecoveryNotApplicable
				case anySuccess && anyFailure:
					want = model.RecoveryPartialSuccess
				case anySuccess:
					want = model.RecoverySuccess
				case anyFailure:
					want = model.RecoveryFailure
				default:
					want = model.RecoveryNotAttempted
				}

				if got := model.AggregateRecovery(in); got != want {
					t.Errorf("attempts=%v success=%v failure=%v: got %q, want %q",
						hasAttempts, anySuccess, anyFailure, got, want)
				}
			}
		}
	}
}

// ─── Precision ────────────────────────────────────────────────────────────────

func TestParsePrecision(t *testing.T) {
	cases := []struct {
		in   string
		want model.Precision
	}{
		{"hour", model.PrecisionExact},
		{"Hour", model.PrecisionExact},
		{"Minute", model.PrecisionExact},
		{"day", model.PrecisionDay},
		{"Month", model.PrecisionMonth},
		{"quarter", model.PrecisionQuarter},
		{"Half", model.PrecisionHalf},
		{"YEAR", model.PrecisionYear},
		{"", model.PrecisionExact},
		{"garbage", model.PrecisionExact},
	}
	for _, tc := range cases {
		if got := model.ParsePrecision(tc.in); got != tc.want {
			t.Errorf("ParsePrecision(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrecisionCoarse(t *testing.T) {
	coarse := map[model.Precision]bool{
		model.PrecisionExact:   false,
		model.PrecisionDay:     false,
		model.PrecisionMonth:   true,
		model.PrecisionQuarter: true,
		model.PrecisionHalf:    true,
		model.PrecisionYear:    true,
	}
	for p, want := range coarse {
		if got := p.Coarse(); got != want {
			t.Errorf("%q.Coarse() = %v, want %v", p, got, want)
		}
	}
}

// ─── Status ───────────────────────────────────────────────────────────────────

func TestStatusUnresolved(t *testing.T) {
	cases := []struct {
		s    model.Status
		want bool
	}{
		{model.StatusScheduled, true},
		{model.StatusGo, true},
		{model.StatusTBD, true},
		{model.StatusTBC, true},
		{model.Status(""), true},
		{model.StatusLaunched, false},
		{model.StatusFailed, false},
		{model.Status("Hold"), false},
	}
	for _, tc := range cases {
		if got := tc.s.Unresolved(); got != tc.want {
			t.Errorf("%q.Unresolved() = %v, want %v", tc.s, got, tc.want)
		}
	}
}

// ─── Patch Fallback ───────────────────────────────────────────────────────────

func TestPatchFallback(t *testing.T) {
	var nilLaunch *model.Launch
	if got := nilLaunch.Patch(); got != model.DefaultPatchURL {
		t.Errorf("nil launch patch = %q, want default", got)
	}
	l := &model.Launch{}
	if got := l.Patch(); got != model.DefaultPatchURL {
		t.Errorf("empty patch = %q, want default", got)
	}
	l.PatchURL = "https://example.com/patch.png"
	if got := l.Patch(); got != l.PatchURL {
		t.Errorf("patch = %q, want %q", got, l.PatchURL)
	}
}
