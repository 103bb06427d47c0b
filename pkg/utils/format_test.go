package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pavelc4/tgxfer/pkg/utils"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536 * 1024, "1.50 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, utils.FormatFileSize(tt.size))
	}
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "--", utils.FormatSpeed(0))
	assert.Equal(t, "2.00 KB/s", utils.FormatSpeed(2048))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", utils.FormatDuration(0))
	assert.Equal(t, "1m 5s", utils.FormatDuration(65*time.Second))
	assert.Equal(t, "2h 0m 1s", utils.FormatDuration(2*time.Hour+time.Second))
	assert.Equal(t, "1d 1h 0m 0s", utils.FormatDuration(25*time.Hour))
}

func TestFormatProgressBarClamps(t *testing.T) {
	full := utils.FormatProgressBar(150)
	assert.True(t, strings.HasSuffix(full, "100.0%"))
	assert.NotContains(t, full, "░")

	empty := utils.FormatProgressBar(-3)
	assert.True(t, strings.HasSuffix(empty, "0.0%"))
	assert.NotContains(t, empty, "█")
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report.pdf", utils.SanitizeFileName("../../etc/report.pdf", "document"))
	assert.Equal(t, "a_b.txt", utils.SanitizeFileName("a:b.txt", "document"))
	assert.Equal(t, "document", utils.SanitizeFileName("  ", "document"))
	assert.Equal(t, "document", utils.SanitizeFileName("..", "document"))
}
