package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRate(t *testing.T) {
	t0 := time.Unix(100, 0)
	st := monitorState{lastAt: t0, lastTransferred: 200}

	ev, next, ok := derive("f", st, Sample{Transferred: 700, Total: 1000, At: t0.Add(2 * time.Second)})
	require.True(t, ok)

	assert.InDelta(t, 250.0, ev.Rate, 1e-9)
	assert.InDelta(t, 70.0, ev.Percent, 1e-9)
	require.True(t, ev.ETAKnown)
	assert.InDelta(t, float64(1200*time.Millisecond), float64(ev.ETA), float64(time.Microsecond))
	assert.Equal(t, int64(700), next.lastTransferred)
	assert.Equal(t, t0.Add(2*time.Second), next.lastAt)
}

func TestDeriveClampsStaleSample(t *testing.T) {
	t0 := time.Unix(100, 0)
	st := monitorState{lastAt: t0, lastTransferred: 600}

	ev, next, ok := derive("f", st, Sample{Transferred: 400, Total: 1000, At: t0.Add(time.Second)})
	require.True(t, ok)

	assert.Equal(t, int64(600), ev.Transferred)
	assert.Zero(t, ev.Rate)
	assert.False(t, ev.ETAKnown)
	assert.Equal(t, int64(600), next.lastTransferred)
}

func TestDeriveZeroTimeDelta(t *testing.T) {
	t0 := time.Unix(100, 0)
	st := monitorState{lastAt: t0, lastTransferred: 0}

	ev, _, ok := derive("f", st, Sample{Transferred: 500, Total: 1000, At: t0})
	require.True(t, ok)
	assert.Zero(t, ev.Rate)
	assert.False(t, ev.ETAKnown)
	assert.InDelta(t, 50.0, ev.Percent, 1e-9)
}

func TestDeriveSkipsUnknownTotal(t *testing.T) {
	t0 := time.Unix(100, 0)
	st := monitorState{lastAt: t0, lastTransferred: 10}

	_, next, ok := derive("f", st, Sample{Transferred: 50, Total: 0, At: t0.Add(time.Second)})
	assert.False(t, ok)
	assert.Equal(t, st, next)
}

func TestDerivePercentBounds(t *testing.T) {
	const total = 977
	t0 := time.Unix(0, 0)
	st := monitorState{lastAt: t0}
	var last Event

	for i, b := range []int64{0, 1, 1, 300, 512, 512, 976, 977, 1200} {
		ev, next, ok := derive("f", st, Sample{Transferred: b, Total: total, At: t0.Add(time.Duration(i+1) * time.Second)})
		require.True(t, ok)
		assert.GreaterOrEqual(t, ev.Percent, 0.0)
		assert.LessOrEqual(t, ev.Percent, 100.0)
		assert.GreaterOrEqual(t, ev.Transferred, last.Transferred)
		assert.GreaterOrEqual(t, ev.Rate, 0.0)
		if ev.Rate == 0 {
			assert.False(t, ev.ETAKnown)
		}
		last, st = ev, next
	}
	assert.InDelta(t, 100.0, last.Percent, 1e-9)
}

func TestFinalEvent(t *testing.T) {
	ev := finalEvent("f", 1000)
	assert.Equal(t, Event{Label: "f", Transferred: 1000, Total: 1000, Percent: 100, ETAKnown: true, Final: true}, ev)
}

func TestDeriveShrinkingTotal(t *testing.T) {
	t0 := time.Unix(100, 0)
	st := monitorState{lastAt: t0, lastTransferred: 800}

	ev, next, ok := derive("f", st, Sample{Transferred: 900, Total: 500, At: t0.Add(time.Second)})
	require.True(t, ok)

	assert.Equal(t, int64(800), ev.Transferred)
	assert.Equal(t, int64(800), ev.Total)
	assert.InDelta(t, 100.0, ev.Percent, 1e-9)
	assert.Zero(t, ev.Rate)
	assert.False(t, ev.ETAKnown)
	assert.Equal(t, int64(800), next.lastTransferred)
}
