package util

import (
	"fmt"
	"math"
)

// Grade maps a 0-100 score to its letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}

// ScoreColor maps a 0-100 score to a display color bucket.
func ScoreColor(score float64) string {
	switch {
	case score >= 80:
		return "success"
	case score >= 60:
		return "warning"
	default:
		return "error"
	}
}

// ClampPercent bounds v to [0, 100] for use as a bar width.
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// SentimentGauge normalizes a sentiment in [-1, 1] to a 0-100 gauge fill.
func SentimentGauge(score float64) float64 {
	return ClampPercent((score + 1) / 2 * 100)
}

// SentimentBar is the bar width for a news item: |score| as a percent.
func SentimentBar(score float64) float64 {
	return ClampPercent(math.Abs(score) * 100)
}

// FormatSentiment renders an optional sentiment with two decimals, or N/A
// when it is absent. A neutral 0 renders as "0.00".
func FormatSentiment(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *score)
}
