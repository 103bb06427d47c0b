package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/tgxfer/internal/progress"
)

func TestBarSinkRendersToCompletion(t *testing.T) {
	var buf bytes.Buffer
	s := NewBarSink(&buf, "Downloading")
	ctx := context.Background()

	require.NoError(t, s.OnProgress(ctx, progress.Event{Label: "a.bin", Transferred: 250, Total: 1000, Percent: 25, Rate: 100}))
	require.NoError(t, s.OnProgress(ctx, progress.Event{Label: "a.bin", Transferred: 1000, Total: 1000, Percent: 100, ETAKnown: true, Final: true}))

	assert.Contains(t, buf.String(), "Downloading a.bin")
}

func TestBarSinkFollowsTotal(t *testing.T) {
	var buf bytes.Buffer
	s := NewBarSink(&buf, "Uploading")
	ctx := context.Background()

	require.NoError(t, s.OnProgress(ctx, progress.Event{Label: "b", Transferred: 10, Total: 100}))
	require.NoError(t, s.OnProgress(ctx, progress.Event{Label: "b", Transferred: 150, Total: 300}))
	assert.Equal(t, int64(300), s.max)
}

func TestDescribe(t *testing.T) {
	s := NewBarSink(nil, "Uploading")

	assert.Equal(t, "Uploading b 10 B/100 B -- eta --", s.describe(progress.Event{Label: "b", Transferred: 10, Total: 100}))
}
