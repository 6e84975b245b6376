package source

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
)

const (
	defaultLL2BaseURL = "https://ll.thespacedevs.com/2.2.0/"

	ll2PageSize = 50
	ll2MaxPages = 4
)

// LL2Client consumes the second-generation API: a single paginated
// "upcoming" listing sorted ascending by net time. The listing includes
// recently flown launches, so one scan yields both the latest and the
// next launch: the most recent record before now, and the first record at
// or after it.
type LL2Client struct {
	core httpCore
	now  func() time.Time
}

// NewLL2Client builds an LL2Client against baseURL (the production
// endpoint when empty).
func NewLL2Client(baseURL string, timeout time.Duration, ratePerSec float64, debug bool) *LL2Client {
	if baseURL == "" {
		baseURL = defaultLL2BaseURL
	}
	return &LL2Client{
		core: newHTTPCore(baseURL, timeout, ratePerSec, debug),
		now:  time.Now,
	}
}

// rawLL2Page is the wire shape of one listing page.
type rawLL2Page struct {
	Count   int            `json:"count"`
	Next    string         `json:"next"`
	Results []rawLL2Launch `json:"results"`
}

type rawLL2Launch struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Net    string `json:"net"`
	Image  string `json:"image"`
	Status struct {
		Name        string `json:"name"`
		Abbrev      string `json:"abbrev"`
		Description string `json:"description"`
	} `json:"status"`
	NetPrecision struct {
		Name string `json:"name"`
	} `json:"net_precision"`
	Mission struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"mission"`
	Rocket struct {
		Configuration struct {
			Name string `json:"name"`
		} `json:"configuration"`
	} `json:"rocket"`
	Pad struct {
		Name     string `json:"name"`
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
	} `json:"pad"`
}

// FetchLatestAndNext implements Source.
func (c *LL2Client) FetchLatestAndNext(ctx context.Context) (*model.Launch, *model.Launch, error) {
	latest, next, err := c.scan(ctx)
	if err != nil {
		return nil, nil, upstream("upcoming", err)
	}
	return latest, next, nil
}

// FetchLatest implements Source.
func (c *LL2Client) FetchLatest(ctx context.Context) (*model.Launch, error) {
	latest, _, err := c.scan(ctx)
	if err != nil {
		return nil, upstream("upcoming", err)
	}
	return latest, nil
}

// scan walks the listing in ascending net order, tracking the most recent
// record before now and stopping at the first record at or after it.
// Pagination is bounded; a listing that somehow never crosses now yields
// next=nil.
func (c *LL2Client) scan(ctx context.Context) (latest, next *model.Launch, err error) {
	now := c.now()
	for page := 0; page < ll2MaxPages; page++ {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(ll2PageSize))
		params.Set("offset", strconv.Itoa(page*ll2PageSize))
		params.Set("ordering", "net")

		var raw rawLL2Page
		if err := c.core.getJSON(ctx, "launch/upcoming/", params, &raw); err != nil {
			return nil, nil, err
		}

		for _, r := range raw.Results {
			l, err := c.normalize(r)
			if err != nil {
				continue // skip malformed records
			}
			if l.Time.Before(now) {
				latest = l
				continue
			}
			return latest, l, nil
		}

		if raw.Next == "" || len(raw.Results) == 0 {
			break
		}
	}
	return latest, nil, nil
}

func (c *LL2Client) normalize(raw rawLL2Launch) (*model.Launch, error) {
	t, err := time.Parse(time.RFC3339, raw.Net)
	if err != nil {
		return nil, err
	}
	return &model.Launch{
		ID:           raw.ID,
		Name:         raw.Name,
		Time:         t,
		Precision:    model.ParsePrecision(raw.NetPrecision.Name),
		Locality:     raw.Pad.Location.Name,
		RocketName:   raw.Rocket.Configuration.Name,
		Description:  raw.Mission.Description,
		PatchURL:     raw.Image,
		Status:       ll2Status(raw.Status.Abbrev, raw.Status.Description),
		CoreRecovery: model.RecoveryNotApplicable,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// ll2Status maps an abbreviation/description pair to the canonical
// status. Terminal abbreviations map to Launched/Failed; scheduled-like
// ones pass through verbatim so the dashboard can show Go/TBD/TBC; any
// other abbreviation is kept as-is.
func ll2Status(abbrev, description string) model.Status {
	switch abbrev {
	case "Success":
		return model.StatusLaunched
	case "Failure", "Partial Failure":
		return model.StatusFailed
	case "":
		if description == "" {
			return model.StatusScheduled
		}
		return model.Status(description)
	default:
		return model.Status(abbrev)
	}
}
