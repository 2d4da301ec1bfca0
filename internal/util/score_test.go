package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeAndColor(t *testing.T) {
	tests := []struct {
		score     float64
		wantGrade string
		wantColor string
	}{
		{95, "A+", "success"},
		{91.2, "A+", "success"},
		{90, "A+", "success"},
		{89.99, "A", "success"},
		{80, "A", "success"},
		{79.9, "B", "warning"},
		{72.4, "B", "warning"},
		{70, "B", "warning"},
		{60, "C", "warning"},
		{59.9, "D", "error"},
		{0, "D", "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantGrade, Grade(tt.score), "grade for %v", tt.score)
		assert.Equal(t, tt.wantColor, ScoreColor(tt.score), "color for %v", tt.score)
	}
}

func TestSentimentGauge(t *testing.T) {
	assert.InDelta(t, 0, SentimentGauge(-1), 0)
	assert.InDelta(t, 50, SentimentGauge(0), 0)
	assert.InDelta(t, 75, SentimentGauge(0.5), 0.0001)
	assert.InDelta(t, 100, SentimentGauge(1), 0)
	assert.InDelta(t, 100, SentimentGauge(3), 0, "out of range input is clamped")
}

func TestSentimentBar(t *testing.T) {
	assert.InDelta(t, 50, SentimentBar(-0.5), 0.0001)
	assert.InDelta(t, 30, SentimentBar(0.3), 0.0001)
	assert.InDelta(t, 0, SentimentBar(0), 0)
}

func TestFormatSentiment(t *testing.T) {
	zero := 0.0
	neg := -0.456
	assert.Equal(t, "N/A", FormatSentiment(nil))
	assert.Equal(t, "0.00", FormatSentiment(&zero))
	assert.Equal(t, "-0.46", FormatSentiment(&neg))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512 Bytes", FormatFileSize(512))
	assert.Equal(t, "1 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.25 MB", FormatFileSize(2359296))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "7", FormatCount(7))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
}
