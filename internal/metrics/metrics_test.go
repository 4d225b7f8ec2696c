package metrics

import (
	"errors"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prom.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				out[f.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	return out
}

func TestRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewRecorder(reg)

	r.Save("sqlite", nil, 5*time.Millisecond)
	r.Save("file", errors.New("boom"), time.Millisecond)
	r.Load("sqlite", nil)
	r.Clear("sqlite", nil)
	r.Fallback("save")

	totals := gather(t, reg)
	assert.Equal(t, 2.0, totals["jobtracker_storage_saves_total"])
	assert.Equal(t, 1.0, totals["jobtracker_storage_loads_total"])
	assert.Equal(t, 1.0, totals["jobtracker_storage_clears_total"])
	assert.Equal(t, 1.0, totals["jobtracker_storage_fallbacks_total"])
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var r *Recorder

	// none of these may panic
	r.Save("sqlite", nil, time.Millisecond)
	r.Load("sqlite", nil)
	r.Clear("sqlite", nil)
	r.Fallback("load")
}

func TestNewRecorderNilRegistry(t *testing.T) {
	assert.NotNil(t, NewRecorder(nil))
}
