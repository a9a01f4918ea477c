package compute

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"route-bench/internal/algo"
	"route-bench/internal/geo"
)

type fakeDirections struct {
	calls    int
	reqs     []*maps.DirectionsRequest
	respond  func(call int) ([]maps.Route, error)
	onCalled func()
}

func (f *fakeDirections) Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	f.calls++
	f.reqs = append(f.reqs, r)
	if f.onCalled != nil {
		f.onCalled()
	}
	routes, err := f.respond(f.calls)
	return routes, nil, err
}

func oneRoute() []maps.Route {
	return []maps.Route{{
		Legs: []*maps.Leg{{
			Distance:    maps.Distance{Meters: 500},
			Duration:    45 * time.Second,
			EndLocation: maps.LatLng{Lat: 3, Lng: 4},
			Steps: []*maps.Step{{Polyline: maps.Polyline{Points: maps.Encode([]maps.LatLng{{Lat: 0, Lng: 0}, {Lat: 3, Lng: 4}})}}},
		}},
	}}
}

func walkDef() algo.Definition {
	return algo.Definition{
		Name:       "walk",
		API:        algo.DirectionsSDK,
		TravelMode: "WALKING",
		NumRoutes:  5,
		Options:    map[string]any{"avoidHighways": true, "optimizeWaypoints": true},
	}
}

func TestDirections_RequestShape(t *testing.T) {
	f := &fakeDirections{respond: func(int) ([]maps.Route, error) { return oneRoute(), nil }}
	d := NewDirections(f, 0)

	recs := d.Compute(context.Background(), []geo.Pair{{
		Origin:      geo.Point{Lat: 1.5, Lng: -2},
		Destination: geo.Point{Lat: 3, Lng: 4},
		Waypoints:   []geo.Point{{Lat: 0.25, Lng: 0.75}},
	}}, walkDef())
	require.Len(t, recs, 1)
	assert.Equal(t, 500, recs[0].Distance)
	assert.Equal(t, 45.0, recs[0].Duration)

	req := f.reqs[0]
	assert.Equal(t, "1.5,-2", req.Origin)
	assert.Equal(t, "3,4", req.Destination)
	assert.Equal(t, []string{"0.25,0.75"}, req.Waypoints)
	assert.Equal(t, maps.TravelModeWalking, req.Mode)
	assert.True(t, req.Optimize)
	assert.Equal(t, []maps.Avoid{maps.AvoidHighways}, req.Avoid)
}

func TestDirections_ZeroResultsSkipped(t *testing.T) {
	f := &fakeDirections{respond: func(call int) ([]maps.Route, error) {
		switch call {
		case 2:
			return nil, nil
		case 4:
			return nil, errors.New("maps: ZERO_RESULTS - ")
		}
		return oneRoute(), nil
	}}
	recs := NewDirections(f, 0).Compute(context.Background(), fivePairs(), walkDef())
	assert.Len(t, recs, 3)
	assert.Equal(t, 5, f.calls)
}

func TestDirections_FatalStops(t *testing.T) {
	f := &fakeDirections{respond: func(call int) ([]maps.Route, error) {
		if call == 3 {
			return nil, errors.New("maps: OVER_QUERY_LIMIT - ")
		}
		return oneRoute(), nil
	}}
	recs := NewDirections(f, 0).Compute(context.Background(), fivePairs(), walkDef())
	assert.Len(t, recs, 2)
	assert.Equal(t, 3, f.calls)
}

func TestDirections_Pacing(t *testing.T) {
	var stamps []time.Time
	f := &fakeDirections{
		respond:  func(int) ([]maps.Route, error) { return oneRoute(), nil },
		onCalled: func() { stamps = append(stamps, time.Now()) },
	}
	recs := NewDirections(f, 20*time.Millisecond).Compute(context.Background(), fivePairs()[:3], walkDef())
	require.Len(t, recs, 3)
	require.Len(t, stamps, 3)
	for i := 1; i < len(stamps); i++ {
		assert.GreaterOrEqual(t, stamps[i].Sub(stamps[i-1]), 20*time.Millisecond)
	}
}

func TestDirections_CancelDuringPacing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeDirections{
		respond:  func(int) ([]maps.Route, error) { return oneRoute(), nil },
		onCalled: cancel,
	}
	recs := NewDirections(f, time.Hour).Compute(ctx, fivePairs(), walkDef())
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, f.calls)
}

func TestNewDirections_DefaultPacing(t *testing.T) {
	assert.Equal(t, DefaultPacing, NewDirections(nil, -1).Pacing)
	assert.Equal(t, time.Duration(0), NewDirections(nil, 0).Pacing)
}
