package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
	"github.com/mkrebs/padwatch/internal/store"
)

// open creates a store in a temp dir and closes it on cleanup.
func open(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "padwatch.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleLaunch(id string) *model.Launch {
	return &model.Launch{
		ID:           id,
		Name:         "Mission " + id,
		Time:         time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Precision:    model.PrecisionExact,
		Locality:     "Kourou",
		RocketName:   "Ariane 6",
		Status:       model.StatusLaunched,
		CoreRecovery: model.RecoveryNotApplicable,
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := open(t)

	latest := sampleLaunch("l1")
	next := sampleLaunch("n1")
	next.Status = model.StatusScheduled

	if err := s.PutState(latest, next); err != nil {
		t.Fatalf("put: %v", err)
	}
	gotLatest, gotNext, ok, err := s.GetState()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected stored state")
	}
	if gotLatest.ID != "l1" || gotNext.ID != "n1" {
		t.Errorf("round trip ids = %q/%q", gotLatest.ID, gotNext.ID)
	}
	if !gotLatest.Time.Equal(latest.Time) {
		t.Errorf("latest time = %v, want %v", gotLatest.Time, latest.Time)
	}
	if gotNext.Status != model.StatusScheduled {
		t.Errorf("next status = %q", gotNext.Status)
	}
}

func TestStateNilLaunchesRoundTrip(t *testing.T) {
	s := open(t)

	if err := s.PutState(sampleLaunch("l1"), nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	latest, next, ok, err := s.GetState()
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if latest == nil {
		t.Error("latest lost in round trip")
	}
	if next != nil {
		t.Errorf("nil next came back as %+v", next)
	}
}

func TestGetStateEmpty(t *testing.T) {
	s := open(t)
	_, _, ok, err := s.GetState()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("empty store reported stored state")
	}
}

func TestAttributesRoundTrip(t *testing.T) {
	s := open(t)

	in := model.Attributes{
		Time:    1760000000000,
		TimeStr: "Today 10:00 AM",
		Name:    "Mission l1",
		Status:  "Launched",
		Switch:  true,
		Tile:    "<div>tile</div>",
	}
	if err := s.PutAttributes(in); err != nil {
		t.Fatalf("put: %v", err)
	}
	out, ok, err := s.GetAttributes()
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.TimeStr != in.TimeStr || out.Tile != in.Tile || !out.Switch {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestStateOverwrite(t *testing.T) {
	s := open(t)

	if err := s.PutState(sampleLaunch("old"), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.PutState(sampleLaunch("new"), sampleLaunch("n")); err != nil {
		t.Fatal(err)
	}
	latest, next, _, err := s.GetState()
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != "new" || next == nil {
		t.Errorf("state not replaced wholesale: latest=%v next=%v", latest, next)
	}
}

func TestClear(t *testing.T) {
	s := open(t)
	if err := s.PutState(sampleLaunch("l1"), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, _, ok, err := s.GetState()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("state survived Clear")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padwatch.db")

	s, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutState(sampleLaunch("persist"), nil); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	latest, _, ok, err := s2.GetState()
	if err != nil || !ok {
		t.Fatalf("reopen get: ok=%v err=%v", ok, err)
	}
	if latest.ID != "persist" {
		t.Errorf("latest id = %q", latest.ID)
	}
}
