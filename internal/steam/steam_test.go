package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appDetailsBody = `{
	"440": {
		"success": true,
		"data": {
			"detailed_description": "A hat-based shooter.",
			"header_image": "https://cdn.test/header.jpg",
			"screenshots": [
				{"path_full": "https://cdn.test/s1.jpg"},
				{"path_full": "https://cdn.test/s2.jpg"}
			],
			"genres": [{"description": "Action"}, {"description": "Free To Play"}],
			"recommendations": {"total": 100, "total_positive": 90},
			"pc_requirements": {"minimum": "min specs", "recommended": "rec specs"}
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, nil, time.Hour)
}

func TestAppDetails_ParsesPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		assert.Equal(t, "440", r.URL.Query().Get("appids"))
		fmt.Fprint(w, appDetailsBody)
	})

	d, err := c.AppDetails(context.Background(), 440)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, "A hat-based shooter.", d.Description)
	assert.Equal(t, "https://cdn.test/header.jpg", d.HeaderImage)
	assert.Equal(t, []string{"https://cdn.test/s1.jpg", "https://cdn.test/s2.jpg"}, d.Images)
	assert.Equal(t, []string{"Action", "Free To Play"}, d.Tags)
	assert.Equal(t, 100, d.RecommendationsTotal)
	assert.Equal(t, 90, d.RecommendationsPositive)
	assert.Equal(t, "min specs", d.PCRequirements.Minimum)
}

func TestAppDetails_UnsuccessfulAppIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"999": {"success": false}}`)
	})

	d, err := c.AppDetails(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestAppDetails_EmptyRequirementsArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"7": {"success": true, "data": {"pc_requirements": []}}}`)
	})

	d, err := c.AppDetails(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Empty(t, d.PCRequirements.Minimum)
}

func TestAppDetails_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.AppDetails(context.Background(), 440)
	require.Error(t, err)
}
