package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	FieldSentiment     = "sentiment_score"
	FieldEnvironmental = "environmental_score"
	FieldSocial        = "social_score"
	FieldGovernance    = "governance_score"
)

// PredictFields lists the form inputs in display order.
var PredictFields = []dto.PredictField{
	{Name: FieldSentiment, Label: "Sentiment Score", Min: -1, Max: 1, Step: 0.01},
	{Name: FieldEnvironmental, Label: "Environmental Score", Min: 0, Max: 100, Step: 1},
	{Name: FieldSocial, Label: "Social Score", Min: 0, Max: 100, Step: 1},
	{Name: FieldGovernance, Label: "Governance Score", Min: 0, Max: 100, Step: 1},
}

var (
	ErrPredictionInFlight = errors.New("a prediction is already in progress")
	ErrUnknownField       = errors.New("unknown prediction field")
	ErrInvalidValue       = errors.New("prediction value must be a finite number")
)

// PredictForm is the user-edited prediction input plus its last outcome.
// Any edit clears the outcome so a stale prediction is never shown.
type PredictForm struct {
	Request model.PredictionRequest
	Result  *float64
	Error   string
}

func NewPredictForm() *PredictForm {
	return &PredictForm{Request: model.PredictionRequest{
		SentimentScore:     0,
		EnvironmentalScore: 50,
		SocialScore:        50,
		GovernanceScore:    50,
	}}
}

func (f *PredictForm) Set(field string, value float64) error {
	switch field {
	case FieldSentiment:
		f.Request.SentimentScore = value
	case FieldEnvironmental:
		f.Request.EnvironmentalScore = value
	case FieldSocial:
		f.Request.SocialScore = value
	case FieldGovernance:
		f.Request.GovernanceScore = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.Result = nil
	f.Error = ""
	return nil
}

// SetRaw parses a submitted text value. An empty value keeps the current one.
func (f *PredictForm) SetRaw(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, raw)
	}
	return f.Set(field, v)
}

func (f *PredictForm) value(field string) float64 {
	switch field {
	case FieldSentiment:
		return f.Request.SentimentScore
	case FieldEnvironmental:
		return f.Request.EnvironmentalScore
	case FieldSocial:
		return f.Request.SocialScore
	default:
		return f.Request.GovernanceScore
	}
}

func (f *PredictForm) View() dto.PredictView {
	view := dto.PredictView{Error: f.Error}
	for _, field := range PredictFields {
		field.Value = f.value(field.Name)
		view.Fields = append(view.Fields, field)
	}
	if f.Result != nil {
		view.HasResult = true
		view.Result = *f.Result
		view.Grade = util.Grade(*f.Result)
		view.Color = util.ScoreColor(*f.Result)
	}
	return view
}

type PredictUsecase struct {
	esg      service.ESGServiceInterface
	inflight *cache.Cache
	log      *logrus.Logger
}

// NewPredictUsecase builds the usecase. guardTTL bounds how long a stuck
// submission can block its session.
func NewPredictUsecase(esg service.ESGServiceInterface, guardTTL time.Duration, log *logrus.Logger) *PredictUsecase {
	return &PredictUsecase{
		esg:      esg,
		inflight: cache.New(guardTTL, time.Minute),
		log:      log,
	}
}

// Submit sends the form to the prediction endpoint. Only one submission per
// session may be in flight; a second one gets ErrPredictionInFlight and the
// form is left untouched. On failure the inputs are kept and Error is set.
func (uc *PredictUsecase) Submit(ctx context.Context, sessionID string, form *PredictForm) error {
	if err := uc.inflight.Add(sessionID, struct{}{}, cache.DefaultExpiration); err != nil {
		return ErrPredictionInFlight
	}
	defer uc.inflight.Delete(sessionID)

	form.Result = nil
	form.Error = ""

	req := form.Request
	res := Load(ctx, func(ctx context.Context) (*model.PredictionResponse, error) {
		return uc.esg.PredictESG(ctx, req)
	})
	if res.Err != nil {
		form.Error = res.Error
		if res.Canceled {
			form.Error = "Prediction was cancelled"
		}
		uc.log.WithError(res.Err).Warn("predict: request failed")
		return res.Err
	}

	score := res.Data.PredictedESGScore
	form.Result = &score
	return nil
}

// InFlight reports whether sessionID currently has a submission running.
func (uc *PredictUsecase) InFlight(sessionID string) bool {
	_, ok := uc.inflight.Get(sessionID)
	return ok
}
