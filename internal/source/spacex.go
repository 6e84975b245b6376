package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
)

const defaultSpaceXBaseURL = "https://api.spacexdata.com/v4/"

// SpaceXClient consumes the first-generation API: two single-record
// endpoints (launches/latest, launches/next) whose records reference the
// launch pad and rocket by opaque id, each resolved through its own
// lookup endpoint.
type SpaceXClient struct {
	core httpCore

	// id → display-name lookups are immutable upstream, so resolved
	// values are kept for the life of the client. Safe without locking:
	// the refresh cycle is the only caller.
	pads    map[string]string
	rockets map[string]string
}

// NewSpaceXClient builds a SpaceXClient against baseURL (the production
// endpoint when empty).
func NewSpaceXClient(baseURL string, timeout time.Duration, ratePerSec float64, debug bool) *SpaceXClient {
	if baseURL == "" {
		baseURL = defaultSpaceXBaseURL
	}
	return &SpaceXClient{
		core:    newHTTPCore(baseURL, timeout, ratePerSec, debug),
		pads:    make(map[string]string),
		rockets: make(map[string]string),
	}
}

// rawSpaceXLaunch is the wire shape of a single launch document.
type rawSpaceXLaunch struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DateUTC       string `json:"date_utc"`
	DatePrecision string `json:"date_precision"`
	Details       string `json:"details"`
	Upcoming      bool   `json:"upcoming"`
	Success       *bool  `json:"success"`
	Launchpad     string `json:"launchpad"`
	Rocket        string `json:"rocket"`
	Links         struct {
		Patch struct {
			Small string `json:"small"`
			Large string `json:"large"`
		} `json:"patch"`
	} `json:"links"`
	Cores []struct {
		LandingAttempt bool  `json:"landing_attempt"`
		LandingSuccess *bool `json:"landing_success"`
	} `json:"cores"`
}

// FetchLatestAndNext implements Source.
func (c *SpaceXClient) FetchLatestAndNext(ctx context.Context) (*model.Launch, *model.Launch, error) {
	latest, err := c.fetchOne(ctx, "launches/latest")
	if err != nil {
		return nil, nil, upstream("latest", err)
	}
	next, err := c.fetchOne(ctx, "launches/next")
	if err != nil {
		return nil, nil, upstream("next", err)
	}
	return latest, next, nil
}

// FetchLatest implements Source.
func (c *SpaceXClient) FetchLatest(ctx context.Context) (*model.Launch, error) {
	l, err := c.fetchOne(ctx, "launches/latest")
	if err != nil {
		return nil, upstream("latest", err)
	}
	return l, nil
}

func (c *SpaceXClient) fetchOne(ctx context.Context, endpoint string) (*model.Launch, error) {
	var raw rawSpaceXLaunch
	if err := c.core.getJSON(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	return c.normalize(ctx, raw)
}

// normalize converts a raw launch document into the canonical record,
// resolving its pad and rocket ids. Lookup failures degrade to empty
// display strings rather than failing the whole cycle.
func (c *SpaceXClient) normalize(ctx context.Context, raw rawSpaceXLaunch) (*model.Launch, error) {
	t, err := time.Parse(time.RFC3339, raw.DateUTC)
	if err != nil {
		return nil, fmt.Errorf("launch %s: invalid date %q", raw.ID, raw.DateUTC)
	}

	attempts := make([]model.RecoveryAttempt, 0, len(raw.Cores))
	for _, core := range raw.Cores {
		attempts = append(attempts, model.RecoveryAttempt{
			Attempted: core.LandingAttempt,
			Success:   core.LandingSuccess != nil && *core.LandingSuccess,
		})
	}

	patch := raw.Links.Patch.Small
	if patch == "" {
		patch = raw.Links.Patch.Large
	}

	l := &model.Launch{
		ID:           raw.ID,
		Name:         raw.Name,
		Time:         t,
		Precision:    model.ParsePrecision(raw.DatePrecision),
		Locality:     c.padLocality(ctx, raw.Launchpad),
		RocketName:   c.rocketName(ctx, raw.Rocket),
		Description:  raw.Details,
		PatchURL:     patch,
		Status:       spacexStatus(raw),
		CoreRecovery: model.AggregateRecovery(attempts),
		FetchedAt:    time.Now().UTC(),
	}
	return l, nil
}

// spacexStatus derives the canonical status from the success flag.
// A null flag means the outcome is not known yet, whether or not the
// scheduled time has passed.
func spacexStatus(raw rawSpaceXLaunch) model.Status {
	if raw.Upcoming || raw.Success == nil {
		return model.StatusScheduled
	}
	if *raw.Success {
		return model.StatusLaunched
	}
	return model.StatusFailed
}

// padLocality resolves a launchpad id to its locality string.
func (c *SpaceXClient) padLocality(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := c.pads[id]; ok {
		return name
	}
	var raw struct {
		Locality string `json:"locality"`
		Region   string `json:"region"`
	}
	if err := c.core.getJSON(ctx, "launchpads/"+id, nil, &raw); err != nil {
		return ""
	}
	locality := raw.Locality
	if locality == "" {
		locality = raw.Region
	}
	c.pads[id] = locality
	return locality
}

// rocketName resolves a rocket id to its display name.
func (c *SpaceXClient) rocketName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := c.rockets[id]; ok {
		return name
	}
	var raw struct {
		Name string `json:"name"`
	}
	if err := c.core.getJSON(ctx, "rockets/"+id, nil, &raw); err != nil {
		return ""
	}
	c.rockets[id] = raw.Name
	return raw.Name
}
