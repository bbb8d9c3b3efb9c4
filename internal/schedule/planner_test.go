package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRMClient_Route(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"type":"LineString","coordinates":[[4.9,52.3],[4.6,52.4]]},"duration":1530,"distance":21400}]}`))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL+"/", time.Second)
	route, err := client.Route(context.Background(), []Position{{Lat: 52.3676, Lng: 4.9041}, {Lat: 52.3874, Lng: 4.6462}})
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/driving/4.904100,52.367600;4.646200,52.387400", gotPath)
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Equal(t, 26, route.DurationMinutes)
	assert.InDelta(t, 21.4, route.DistanceKm, 0.001)
	assert.JSONEq(t, `{"type":"LineString","coordinates":[[4.9,52.3],[4.6,52.4]]}`, string(route.Geometry))
}

func TestOSRMClient_Failures(t *testing.T) {
	status := http.StatusOK
	body := `{"code":"NoRoute","routes":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL, time.Second)
	points := []Position{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	_, err := client.Route(context.Background(), points)
	assert.ErrorIs(t, err, ErrNoRoute)

	status, body = http.StatusBadGateway, `oops`
	_, err = client.Route(context.Background(), points)
	assert.Error(t, err)

	_, err = client.Route(context.Background(), points[:1])
	assert.Error(t, err)
}
