package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
)

// ll2Now is the fixed reference instant the test client's clock returns.
var ll2Now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// ll2Record builds a listing record offset from ll2Now.
func ll2Record(id string, offset time.Duration, abbrev, precision string) map[string]interface{} {
	return map[string]interface{}{
		"id":   id,
		"name": "Mission " + id,
		"net":  ll2Now.Add(offset).Format(time.RFC3339),
		"status": map[string]interface{}{
			"abbrev":      abbrev,
			"description": "status description",
		},
		"net_precision": map[string]interface{}{"name": precision},
		"mission":       map[string]interface{}{"description": "payload details"},
		"rocket": map[string]interface{}{
			"configuration": map[string]interface{}{"name": "Vulcan Centaur"},
		},
		"pad": map[string]interface{}{
			"location": map[string]interface{}{"name": "Vandenberg SFB"},
		},
		"image": "https://img.example/" + id + ".png",
	}
}

// newLL2TestServer serves the given records as a single ascending page.
func newLL2TestServer(t *testing.T, records []map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/launch/upcoming/", func(w http.ResponseWriter, r *http.Request) {
		page := map[string]interface{}{
			"count":   len(records),
			"next":    "",
			"results": records,
		}
		if err := json.NewEncoder(w).Encode(page); err != nil {
			t.Errorf("encoding page: %v", err)
		}
	})
	return httptest.NewServer(mux)
}

func newTestLL2Client(baseURL string) *LL2Client {
	c := NewLL2Client(baseURL, 5*time.Second, 100, false)
	c.now = func() time.Time { return ll2Now }
	return c
}

func TestLL2ScanSplitsAroundNow(t *testing.T) {
	ts := newLL2TestServer(t, []map[string]interface{}{
		ll2Record("a", -30*time.Hour, "Success", "Hour"),
		ll2Record("b", -2*time.Hour, "Success", "Hour"),
		ll2Record("c", 20*time.Hour, "Go", "Hour"),
		ll2Record("d", 40*time.Hour, "TBD", "Day"),
	})
	defer ts.Close()

	c := newTestLL2Client(ts.URL)
	latest, next, err := c.FetchLatestAndNext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Latest is the most recent record before now, not the first seen.
	if latest == nil || latest.ID != "b" {
		t.Fatalf("latest = %+v, want record b", latest)
	}
	// Next is the first record at/after now; later ones are ignored.
	if next == nil || next.ID != "c" {
		t.Fatalf("next = %+v, want record c", next)
	}

	if latest.Status != model.StatusLaunched {
		t.Errorf("latest status = %q, want Launched", latest.Status)
	}
	if next.Status != model.StatusGo {
		t.Errorf("next status = %q, want Go (abbreviation preserved)", next.Status)
	}
	if next.Locality != "Vandenberg SFB" {
		t.Errorf("next locality = %q", next.Locality)
	}
	if next.RocketName != "Vulcan Centaur" {
		t.Errorf("next rocket = %q", next.RocketName)
	}
	if latest.CoreRecovery != model.RecoveryNotApplicable {
		t.Errorf("latest recovery = %q; the listing carries no landing data", latest.CoreRecovery)
	}
}

func TestLL2NoUpcoming(t *testing.T) {
	ts := newLL2TestServer(t, []map[string]interface{}{
		ll2Record("a", -30*time.Hour, "Success", "Hour"),
	})
	defer ts.Close()

	c := newTestLL2Client(ts.URL)
	latest, next, err := c.FetchLatestAndNext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest == nil || latest.ID != "a" {
		t.Errorf("latest = %+v, want record a", latest)
	}
	if next != nil {
		t.Errorf("next = %+v, want nil", next)
	}
}

func TestLL2Pagination(t *testing.T) {
	// Page 0 holds only past records; the upcoming one is on page 1.
	pages := [][]map[string]interface{}{
		nil, // filled below
		{ll2Record("future", 5*time.Hour, "Go", "Hour")},
	}
	for i := 0; i < ll2PageSize; i++ {
		pages[0] = append(pages[0], ll2Record("past-"+strconv.Itoa(i), -time.Duration(ll2PageSize-i)*time.Hour, "Success", "Hour"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/launch/upcoming/", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		idx := offset / ll2PageSize
		if idx >= len(pages) {
			fmt.Fprint(w, `{"count": 0, "next": "", "results": []}`)
			return
		}
		next := ""
		if idx+1 < len(pages) {
			next = "more"
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"count":   len(pages[idx]),
			"next":    next,
			"results": pages[idx],
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := newTestLL2Client(ts.URL)
	latest, next, err := c.FetchLatestAndNext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest == nil || latest.ID != "past-"+strconv.Itoa(ll2PageSize-1) {
		t.Errorf("latest = %+v, want last record of page 0", latest)
	}
	if next == nil || next.ID != "future" {
		t.Errorf("next = %+v, want the page-1 record", next)
	}
}

func TestLL2SkipsMalformedRecords(t *testing.T) {
	bad := ll2Record("bad", 2*time.Hour, "Go", "Hour")
	bad["net"] = "not-a-timestamp"
	ts := newLL2TestServer(t, []map[string]interface{}{
		bad,
		ll2Record("good", 3*time.Hour, "Go", "Hour"),
	})
	defer ts.Close()

	c := newTestLL2Client(ts.URL)
	_, next, err := c.FetchLatestAndNext(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next == nil || next.ID != "good" {
		t.Errorf("next = %+v, want the well-formed record", next)
	}
}

func TestLL2StatusMapping(t *testing.T) {
	cases := []struct {
		abbrev, description string
		want                model.Status
	}{
		{"Success", "", model.StatusLaunched},
		{"Failure", "", model.StatusFailed},
		{"Partial Failure", "", model.StatusFailed},
		{"Go", "", model.StatusGo},
		{"TBD", "", model.StatusTBD},
		{"TBC", "", model.StatusTBC},
		{"Hold", "", model.Status("Hold")},
		{"", "On hold indefinitely", model.Status("On hold indefinitely")},
		{"", "", model.StatusScheduled},
	}
	for _, tc := range cases {
		if got := ll2Status(tc.abbrev, tc.description); got != tc.want {
			t.Errorf("ll2Status(%q, %q) = %q, want %q", tc.abbrev, tc.description, got, tc.want)
		}
	}
}
