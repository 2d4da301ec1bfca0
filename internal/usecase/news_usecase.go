package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/sirupsen/logrus"
)

type SentimentBucket string

const (
	BucketAll      SentimentBucket = "all"
	BucketPositive SentimentBucket = "positive"
	BucketNegative SentimentBucket = "negative"
	BucketNeutral  SentimentBucket = "neutral"
)

const sentimentThreshold = 0.3

var newsFilters = []struct {
	key   SentimentBucket
	label string
}{
	{BucketAll, "All"},
	{BucketPositive, "Positive"},
	{BucketNeutral, "Neutral"},
	{BucketNegative, "Negative"},
}

// Bucket classifies a sentiment score with strict thresholds, so exactly
// 0.3 and -0.3 are neutral. The server-supplied label is ignored.
func Bucket(score float64) SentimentBucket {
	switch {
	case score > sentimentThreshold:
		return BucketPositive
	case score < -sentimentThreshold:
		return BucketNegative
	default:
		return BucketNeutral
	}
}

func BucketColor(b SentimentBucket) string {
	switch b {
	case BucketPositive:
		return "success"
	case BucketNegative:
		return "error"
	default:
		return "warning"
	}
}

// ParseBucket maps a query value to a filter; anything unknown means all.
func ParseBucket(raw string) SentimentBucket {
	switch b := SentimentBucket(strings.ToLower(strings.TrimSpace(raw))); b {
	case BucketPositive, BucketNegative, BucketNeutral:
		return b
	default:
		return BucketAll
	}
}

// FilterNews returns the items in bucket b as a new slice; BucketAll keeps
// everything.
func FilterNews(items []model.News, b SentimentBucket) []model.News {
	out := make([]model.News, 0, len(items))
	for _, item := range items {
		if b == BucketAll || Bucket(item.SentimentScore) == b {
			out = append(out, item)
		}
	}
	return out
}

type NewsUsecase struct {
	esg service.ESGServiceInterface
	log *logrus.Logger
}

func NewNewsUsecase(esg service.ESGServiceInterface, log *logrus.Logger) *NewsUsecase {
	return &NewsUsecase{esg: esg, log: log}
}

func (uc *NewsUsecase) Load(ctx context.Context, filterRaw string) dto.NewsView {
	filter := ParseBucket(filterRaw)
	view := dto.NewsView{Filter: string(filter)}
	for _, f := range newsFilters {
		view.Filters = append(view.Filters, dto.NewsFilterOption{
			Key:    string(f.key),
			Label:  f.label,
			Active: f.key == filter,
		})
	}

	res := Load(ctx, uc.esg.GetNews)
	if res.Err != nil {
		uc.log.WithError(res.Err).Warn("news: failed to load news")
		view.Error = &dto.ErrorPanel{
			Title:    "Error Loading News",
			Message:  res.Error,
			RetryURL: "/news?filter=" + string(filter),
		}
		return view
	}

	for _, item := range FilterNews(res.Data, filter) {
		view.Rows = append(view.Rows, newsRow(item))
	}
	if len(view.Rows) == 0 {
		if filter == BucketAll {
			view.EmptyMessage = "No news found"
		} else {
			view.EmptyMessage = fmt.Sprintf("No %s news found", filter)
		}
	}
	return view
}

func newsRow(item model.News) dto.NewsRow {
	b := Bucket(item.SentimentScore)
	row := dto.NewsRow{
		ID:          item.ID,
		Title:       item.Title,
		Summary:     item.Summary,
		Score:       item.SentimentScore,
		Percent:     int(math.Round(item.SentimentScore * 100)),
		Bucket:      string(b),
		Color:       BucketColor(b),
		BarWidth:    util.SentimentBar(item.SentimentScore),
		ServerLabel: item.SentimentLabel,
	}
	if !item.CreatedAt.IsZero() {
		row.CreatedAt = item.CreatedAt.Format("Jan 2, 2006")
	}
	return row
}
