package usecase

import (
	"bytes"
	"context"
	"strconv"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ParseCompanyID parses a route id; only positive integers are valid.
func ParseCompanyID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type CompanyDetailUsecase struct {
	esg service.ESGServiceInterface
	log *logrus.Logger
}

func NewCompanyDetailUsecase(esg service.ESGServiceInterface, log *logrus.Logger) *CompanyDetailUsecase {
	return &CompanyDetailUsecase{esg: esg, log: log}
}

// Load fetches the company and then its latest report. A missing or broken
// report never fails the page.
func (uc *CompanyDetailUsecase) Load(ctx context.Context, id int64) dto.CompanyDetailView {
	retry := "/companies/" + strconv.FormatInt(id, 10)

	res := Load(ctx, func(ctx context.Context) (*model.Company, error) {
		return uc.esg.GetCompanyDetail(ctx, id)
	})
	if res.Err != nil {
		panel := &dto.ErrorPanel{
			Title:    "Failed to load company details.",
			Message:  res.Error,
			RetryURL: retry,
		}
		if service.IsNotFound(res.Err) {
			panel.Title = "Company not found"
			panel.RetryURL = ""
		}
		uc.log.WithError(res.Err).WithField("company_id", id).Warn("company detail: failed to load company")
		return dto.CompanyDetailView{Error: panel}
	}

	view := BuildCompanyDetailView(res.Data)
	view.Report = uc.loadReport(ctx, res.Data.Company)
	return view
}

func (uc *CompanyDetailUsecase) loadReport(ctx context.Context, company string) *dto.ReportView {
	res := Load(ctx, func(ctx context.Context) (*model.Report, error) {
		return uc.esg.GetCompanyReport(ctx, company)
	})
	switch {
	case res.Err != nil && service.IsNotFound(res.Err):
		return &dto.ReportView{Message: "No report available"}
	case res.Err != nil:
		uc.log.WithError(res.Err).WithField("company", company).Warn("company detail: failed to load report")
		return &dto.ReportView{Message: "Report unavailable: " + res.Error}
	}
	return BuildReportView(res.Data)
}

func BuildCompanyDetailView(c *model.Company) dto.CompanyDetailView {
	view := dto.CompanyDetailView{
		Company: c,
		Grade:   util.Grade(c.ESGScore),
		Color:   util.ScoreColor(c.ESGScore),
		Breakdown: []dto.ScoreCard{
			scoreCard("Environmental", c.EnvironmentalScore),
			scoreCard("Social", c.SocialScore),
			scoreCard("Governance", c.GovernanceScore),
		},
		Sentiment: util.FormatSentiment(c.SentimentScore),
	}
	if c.SentimentScore != nil {
		view.HasSentiment = true
		view.SentimentGauge = util.SentimentGauge(*c.SentimentScore)
	}
	return view
}

func BuildReportView(r *model.Report) *dto.ReportView {
	raw := bytes.TrimSpace(r.Report)
	if len(raw) == 0 || !gjson.ValidBytes(raw) || gjson.ParseBytes(raw).Type == gjson.Null {
		return &dto.ReportView{Message: "No report available"}
	}
	view := &dto.ReportView{
		Available: true,
		Pretty:    string(pretty.Pretty(raw)),
	}
	if !r.CreatedAt.IsZero() {
		view.CreatedAt = r.CreatedAt.Format("2006-01-02 15:04")
	}
	return view
}
