// Package steam fetches game metadata from the Steam store appdetails API.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyhaven/keyhaven/internal/redisx"
)

type Requirements struct {
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

type Details struct {
	Description             string       `json:"description"`
	HeaderImage             string       `json:"header_image"`
	Images                  []string     `json:"images"`
	Tags                    []string     `json:"tags"`
	RecommendationsTotal    int          `json:"recommendations_total"`
	RecommendationsPositive int          `json:"recommendations_positive"`
	PCRequirements          Requirements `json:"pc_requirements"`
}

type Client struct {
	HTTP     *http.Client
	Redis    *redis.Client // nil disables caching
	BaseURL  string
	CacheTTL time.Duration
}

func NewClient(baseURL string, rdb *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Redis:    rdb,
		BaseURL:  baseURL,
		CacheTTL: cacheTTL,
	}
}

// appdetails wire format. pc_requirements is an object normally but an empty
// array when Steam has nothing, so it stays raw until we know.
type appResponse struct {
	Success bool `json:"success"`
	Data    struct {
		DetailedDescription string `json:"detailed_description"`
		HeaderImage         string `json:"header_image"`
		Screenshots         []struct {
			PathFull string `json:"path_full"`
		} `json:"screenshots"`
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
		Recommendations struct {
			Total         int `json:"total"`
			TotalPositive int `json:"total_positive"`
		} `json:"recommendations"`
		PCRequirements json.RawMessage `json:"pc_requirements"`
	} `json:"data"`
}

// AppDetails returns metadata for a Steam app, or nil when Steam reports no
// data for it. Results are cached in redis.
func (c *Client) AppDetails(ctx context.Context, appID int64) (*Details, error) {
	if c.Redis != nil {
		key := fmt.Sprintf(redisx.KeySteamDetails, appID)
		if b, err := c.Redis.Get(ctx, key).Bytes(); err == nil {
			var d Details
			if err := json.Unmarshal(b, &d); err == nil {
				return &d, nil
			}
		}
	}

	url := fmt.Sprintf("%s/api/appdetails?appids=%d&cc=EU&l=english", c.BaseURL, appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam appdetails: status %d", resp.StatusCode)
	}

	var payload map[string]appResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("steam appdetails: %w", err)
	}
	app, ok := payload[fmt.Sprintf("%d", appID)]
	if !ok || !app.Success {
		return nil, nil
	}

	d := &Details{
		Description:             app.Data.DetailedDescription,
		HeaderImage:             app.Data.HeaderImage,
		RecommendationsTotal:    app.Data.Recommendations.Total,
		RecommendationsPositive: app.Data.Recommendations.TotalPositive,
	}
	for _, s := range app.Data.Screenshots {
		d.Images = append(d.Images, s.PathFull)
	}
	for _, g := range app.Data.Genres {
		d.Tags = append(d.Tags, g.Description)
	}
	// tolerate the empty-array form
	var reqs Requirements
	if err := json.Unmarshal(app.Data.PCRequirements, &reqs); err == nil {
		d.PCRequirements = reqs
	}

	if c.Redis != nil {
		key := fmt.Sprintf(redisx.KeySteamDetails, appID)
		if b, err := json.Marshal(d); err == nil {
			_ = c.Redis.Set(ctx, key, b, c.CacheTTL).Err()
		}
	}
	return d, nil
}
