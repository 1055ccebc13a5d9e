// Package strava pulls activities from the Strava v3 API.
package strava

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/providers"
)

const defaultBaseURL = "https://www.strava.com/api/v3"

// perPage is Strava's maximum page size; a month of riding fits in one or
// two pages.
const perPage = 200

// Client is the Strava adapter. Token refresh is the caller's problem; the
// access token handed in must be valid for the life of the client.
type Client struct {
	http *resty.Client
	home *time.Location

	// gearNames memoizes gear id to human name lookups for equipment.
	gearNames map[string]string
}

// Option configures optional behaviour for the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// New builds a Client with the given access token.
func New(accessToken string, home *time.Location, opts ...Option) *Client {
	http := resty.New().
		SetBaseURL(defaultBaseURL).
		SetAuthToken(accessToken).
		SetTimeout(30 * time.Second)

	c := &Client{http: http, home: home, gearNames: make(map[string]string)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements providers.Adapter.
func (c *Client) Name() domain.Provider { return domain.ProviderStrava }

type summaryActivity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Distance  float64   `json:"distance"` // meters
	StartDate time.Time `json:"start_date"`
	GearID    string    `json:"gear_id"`
}

type gear struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchMonth pages through the athlete's activities for the month and
// normalizes them. Distances come back in meters; timestamps are UTC.
func (c *Client) FetchMonth(ctx context.Context, month domain.Month) ([]domain.ProviderActivityRecord, error) {
	start, end := month.Range(c.home)

	var records []domain.ProviderActivityRecord
	for page := 1; ; page++ {
		var activities []summaryActivity
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"after":    fmt.Sprintf("%d", start.Unix()),
				"before":   fmt.Sprintf("%d", end.Unix()),
				"per_page": fmt.Sprintf("%d", perPage),
				"page":     fmt.Sprintf("%d", page),
			}).
			SetResult(&activities).
			Get("/athlete/activities")
		if err != nil {
			return nil, fmt.Errorf("strava: list activities: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("strava: list activities: %s", resp.Status())
		}
		if len(activities) == 0 {
			break
		}

		for _, act := range activities {
			equipment, err := c.gearName(ctx, act.GearID)
			if err != nil {
				return nil, err
			}
			records = append(records, domain.ProviderActivityRecord{
				Provider:   domain.ProviderStrava,
				ProviderID: fmt.Sprintf("%d", act.ID),
				Start:      act.StartDate.UTC(),
				Distance:   providers.MilesFromMeters(act.Distance),
				Name:       act.Name,
				Equipment:  equipment,
			})
		}
		if len(activities) < perPage {
			break
		}
	}
	return records, nil
}

func (c *Client) gearName(ctx context.Context, gearID string) (string, error) {
	if gearID == "" {
		return "", nil
	}
	if name, ok := c.gearNames[gearID]; ok {
		return name, nil
	}

	var g gear
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&g).
		Get("/gear/" + gearID)
	if err != nil {
		return "", fmt.Errorf("strava: get gear %s: %w", gearID, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("strava: get gear %s: %s", gearID, resp.Status())
	}
	c.gearNames[gearID] = g.Name
	return g.Name, nil
}
