package stats_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/Jille/rebalance/stats"
)

func TestMeterUpdate(t *testing.T) {
	m := stats.NewMeter("loss", "")
	m.Reset()
	m.Update(4, 2)
	m.Update(6, 2)
	assert.Equal(t, 20.0, m.Sum)
	assert.Equal(t, 4, m.Count)
	assert.Equal(t, 5.0, m.Avg)
	assert.Equal(t, 6.0, m.Val)
}

func TestMeterEmpty(t *testing.T) {
	m := stats.NewMeter("acc", "%.2f")
	assert.Equal(t, 0.0, m.Avg)
	m.Update(3, 0)
	assert.Equal(t, 0.0, m.Avg)
	assert.Equal(t, 3.0, m.Val)
	assert.Equal(t, "acc 3.00 (0.00)", m.String())
}

func TestMeterRetracted(t *testing.T) {
	m := stats.NewMeter("loss", "")
	m.Update(5, 1)
	m.Update(5, -1)
	assert.Equal(t, 0, m.Count)
	assert.Equal(t, 0.0, m.Sum)
	assert.Equal(t, 0.0, m.Avg)
}

func TestMeterMatchesWeightedMean(t *testing.T) {
	vals := []float64{0.9, 0.7, 0.4, 0.35, 0.2}
	ns := []int{32, 32, 16, 32, 8}
	m := stats.NewMeter("loss", "")
	weights := make([]float64, len(ns))
	for i, v := range vals {
		m.Update(v, ns[i])
		weights[i] = float64(ns[i])
	}
	assert.InDelta(t, stat.Mean(vals, weights), m.Avg, 1e-12)
}

func TestMeterString(t *testing.T) {
	m := stats.NewMeter("loss", "")
	m.Update(1.5, 1)
	m.Update(2.5, 1)
	assert.Equal(t, "loss 2.500000 (2.000000)", m.String())
}

func TestTracker(t *testing.T) {
	tr := stats.NewTracker("", "")
	tr.Update("loss", 1.0, 1)
	tr.Update("loss", 3.0, 1)
	m, err := tr.Meter("loss")
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.Avg)

	_, err = tr.Meter("acc")
	assert.Equal(t, stats.ErrNoMeter, errors.Cause(err))
	_, err = tr.Meter("acc")
	assert.Error(t, err, "lookup must not register the key")
}

func TestTrackerUpdateMap(t *testing.T) {
	tr := stats.NewTracker("train ", "%.1f")
	tr.UpdateMap(map[string]float64{"loss": 0.5, "acc": 0.8}, 4)
	tr.UpdateMap(map[string]float64{"loss": 1.5, "acc": 0.4}, 4)

	assert.ElementsMatch(t, []string{"loss", "acc"}, tr.Keys())
	loss, err := tr.Meter("loss")
	require.NoError(t, err)
	assert.Equal(t, 8, loss.Count)
	assert.InDelta(t, 1.0, loss.Avg, 1e-12)
	acc, err := tr.Meter("acc")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, acc.Avg, 1e-12)
}

func TestTrackerString(t *testing.T) {
	tr := stats.NewTracker("val_", "%.2f")
	tr.Update("loss", 0.25, 1)
	tr.Update("acc", 0.5, 1)
	assert.Equal(t, "val_loss 0.25 (0.25) | val_acc 0.50 (0.50)", tr.String())
	assert.Equal(t, "", stats.NewTracker("", "").String())
}

func TestTrackerReset(t *testing.T) {
	tr := stats.NewTracker("", "")
	tr.Update("loss", 2, 3)
	tr.Reset()
	m, err := tr.Meter("loss")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count)
	assert.Equal(t, 0.0, m.Avg)
	assert.Equal(t, []string{"loss"}, tr.Keys())
}

func TestCollector(t *testing.T) {
	tr := stats.NewTracker("", "")
	tr.Update("loss", 1, 2)
	tr.Update("loss", 4, 1)
	tr.Update("acc", 0.75, 4)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(tr.Collector("train")))
	mfs, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]map[string]float64{}
	for _, mf := range mfs {
		got[mf.GetName()] = map[string]float64{}
		for _, m := range mf.GetMetric() {
			got[mf.GetName()][m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
		}
	}
	assert.Equal(t, map[string]map[string]float64{
		"train_meter_avg":   {"loss": 2, "acc": 0.75},
		"train_meter_count": {"loss": 3, "acc": 4},
	}, got)
}

func TestCollectWhileUpdating(t *testing.T) {
	tr := stats.NewTracker("", "")
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(tr.Collector("train")))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			acc := fmt.Sprintf("w%d_acc", w)
			for i := 0; i < 200; i++ {
				tr.UpdateMap(map[string]float64{"loss": float64(i), acc: 0.5}, 2)
				tr.Update("distinct", 1, 1)
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := reg.Gather(); err != nil {
				t.Error(err)
				return
			}
			_ = tr.String()
		}
	}()
	wg.Wait()

	loss, err := tr.Meter("loss")
	require.NoError(t, err)
	assert.Equal(t, 4*200*2, loss.Count)
	distinct, err := tr.Meter("distinct")
	require.NoError(t, err)
	assert.Equal(t, 4*200, distinct.Count)
	assert.Len(t, tr.Keys(), 6)
}
