package algo

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDef() Definition {
	return Definition{
		Name:              "drive",
		API:               PreferredRouting,
		TravelMode:        "DRIVE",
		RoutingPreference: "TRAFFIC_AWARE",
		NumRoutes:         10,
		NumWaypoints:      2,
		Options:           map[string]any{"avoidTolls": true, "avoidHighways": false},
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := baseDef()
	b := baseDef()
	// map 插入顺序不影响键
	b.Options = map[string]any{"avoidHighways": false, "avoidTolls": true}
	assert.Equal(t, Key("Seattle", a), Key("Seattle", b))
	assert.Equal(t,
		`Seattle_{"name":"drive","api":"RoutesPreferred","travelMode":"DRIVE","routingPreference":"TRAFFIC_AWARE","numRoutes":10,"numWaypoints":2,"options":{"avoidHighways":false,"avoidTolls":true}}_route`,
		Key("Seattle", a))
}

func TestKey_AnyFieldChangeDiffers(t *testing.T) {
	base := Key("Seattle", baseDef())
	mutations := map[string]func(*Definition){
		"name":       func(d *Definition) { d.Name = "drive2" },
		"api":        func(d *Definition) { d.API = DirectionsSDK },
		"travelMode": func(d *Definition) { d.TravelMode = "WALK" },
		"preference": func(d *Definition) { d.RoutingPreference = "" },
		"numRoutes":  func(d *Definition) { d.NumRoutes = 11 },
		"waypoints":  func(d *Definition) { d.NumWaypoints = 0 },
		"options":    func(d *Definition) { d.Options = map[string]any{"avoidTolls": false} },
		"offline":    func(d *Definition) { d.Offline = true },
	}
	for name, mut := range mutations {
		t.Run(name, func(t *testing.T) {
			d := baseDef()
			mut(&d)
			assert.NotEqual(t, base, Key("Seattle", d))
		})
	}
	assert.NotEqual(t, base, Key("Jakarta", baseDef()))
}

func TestParseBackendKind(t *testing.T) {
	for in, want := range map[string]BackendKind{
		"RoutesPreferred":  PreferredRouting,
		"PreferredRouting": PreferredRouting,
		"DirectionsJsSDK":  DirectionsSDK,
		" directionssdk ":  DirectionsSDK,
	} {
		got, err := ParseBackendKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseBackendKind("CarrierPigeon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDefinition))
}

func TestValidate(t *testing.T) {
	d := baseDef()
	d.API = "DirectionsSDK"
	v, err := d.Validate()
	require.NoError(t, err)
	assert.Equal(t, DirectionsSDK, v.API)

	d.API = "Teleport"
	_, err = d.Validate()
	assert.True(t, errors.Is(err, ErrMalformedDefinition))

	d = baseDef()
	d.NumRoutes = -1
	_, err = d.Validate()
	assert.True(t, errors.Is(err, ErrMalformedDefinition))
}

func TestBoolOption(t *testing.T) {
	d := baseDef()
	assert.True(t, d.Bool("avoidTolls"))
	assert.False(t, d.Bool("avoidHighways"))
	assert.False(t, d.Bool("missing"))
	d.Options["weird"] = "yes"
	assert.False(t, d.Bool("weird"))
}

func TestValidate_RejectsUnencodableOptions(t *testing.T) {
	d := baseDef()
	d.Options["weight"] = math.NaN()
	_, err := d.Validate()
	assert.True(t, errors.Is(err, ErrMalformedDefinition))

	p := filepath.Join(t.TempDir(), "algos.yaml")
	require.NoError(t, os.WriteFile(p, []byte("a:\n  api: RoutesPreferred\n  numRoutes: 5\n  options:\n    weight: .nan\n"), 0o644))
	_, err = LoadFile(p)
	assert.True(t, errors.Is(err, ErrMalformedDefinition))
}

func TestKey_UnencodableOptionsStillDistinguishFields(t *testing.T) {
	a := Definition{Name: "x", API: PreferredRouting, TravelMode: "DRIVE", NumRoutes: 5, Options: map[string]any{"w": math.NaN()}}
	b := a
	b.NumRoutes = 50
	b.TravelMode = "WALK"
	assert.NotEqual(t, Key("r", a), Key("r", b))
	assert.Equal(t, Key("r", a), Key("r", a))
}
