package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-bench/internal/route"
)

func TestAggregate(t *testing.T) {
	d := Aggregate([]route.Record{
		route.New("", 1200, 95.9, 210, nil),
		route.New("", 800, 61.2, 180.5, nil),
	})

	assert.Equal(t, "Latency", d.Latency.Name)
	assert.Equal(t, "ms", d.Latency.Unit)
	assert.Equal(t, []Row{{"req #0", 210}, {"req #1", 180.5}}, d.Latency.Rows)
	assert.Equal(t, []Row{{"req #0", 95}, {"req #1", 61}}, d.Duration.Rows)
	assert.Equal(t, []Row{{"req #0", 1200}, {"req #1", 800}}, d.Distance.Rows)
}

func TestAggregate_JSONShape(t *testing.T) {
	b, err := json.Marshal(Aggregate([]route.Record{route.New("", 5, 1.5, 7, nil)}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"latencyData": [["Latency","ms"],["req #0",7]],
		"durationData": [["Duration","sec"],["req #0",1]],
		"distanceData": [["Distance","meters"],["req #0",5]]
	}`, string(b))
}

func TestAggregate_Empty(t *testing.T) {
	b, err := json.Marshal(Aggregate(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"latencyData":[["Latency","ms"]],"durationData":[["Duration","sec"]],"distanceData":[["Distance","meters"]]}`, string(b))
}
