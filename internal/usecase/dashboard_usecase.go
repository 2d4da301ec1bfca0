package usecase

import (
	"context"
	"sort"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/sirupsen/logrus"
)

const topCompaniesLimit = 5

type ScoreAverages struct {
	ESG           float64
	Environmental float64
	Social        float64
	Governance    float64
}

// Averages returns the mean of each dimension, or zeros for an empty list.
func Averages(companies []model.Company) ScoreAverages {
	if len(companies) == 0 {
		return ScoreAverages{}
	}
	var total ScoreAverages
	for _, c := range companies {
		total.ESG += c.ESGScore
		total.Environmental += c.EnvironmentalScore
		total.Social += c.SocialScore
		total.Governance += c.GovernanceScore
	}
	n := float64(len(companies))
	return ScoreAverages{
		ESG:           total.ESG / n,
		Environmental: total.Environmental / n,
		Social:        total.Social / n,
		Governance:    total.Governance / n,
	}
}

// TopCompanies returns up to n companies by descending ESG score. The input
// is not reordered.
func TopCompanies(companies []model.Company, n int) []model.Company {
	ranked := make([]model.Company, len(companies))
	copy(ranked, companies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ESGScore > ranked[j].ESGScore
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type DashboardUsecase struct {
	esg service.ESGServiceInterface
	log *logrus.Logger
}

func NewDashboardUsecase(esg service.ESGServiceInterface, log *logrus.Logger) *DashboardUsecase {
	return &DashboardUsecase{esg: esg, log: log}
}

func (uc *DashboardUsecase) Load(ctx context.Context) dto.DashboardView {
	res := Load(ctx, uc.esg.GetCompanies)
	if res.Err != nil {
		uc.log.WithError(res.Err).Warn("dashboard: failed to load companies")
		return dto.DashboardView{Error: &dto.ErrorPanel{
			Title:    "Error Loading Dashboard",
			Message:  res.Error,
			RetryURL: "/dashboard",
		}}
	}
	return BuildDashboardView(res.Data)
}

func BuildDashboardView(companies []model.Company) dto.DashboardView {
	avg := Averages(companies)
	top := TopCompanies(companies, topCompaniesLimit)

	view := dto.DashboardView{
		CompanyCount: util.FormatCount(len(companies)),
		Empty:        len(companies) == 0,
		Cards: []dto.ScoreCard{
			scoreCard("Average ESG Score", avg.ESG),
			scoreCard("Environmental", avg.Environmental),
			scoreCard("Social", avg.Social),
			scoreCard("Governance", avg.Governance),
		},
		Top: make([]dto.CompanyRow, 0, len(top)),
	}
	for i, c := range top {
		view.Top = append(view.Top, companyRow(i+1, c))
	}
	return view
}

func scoreCard(label string, score float64) dto.ScoreCard {
	return dto.ScoreCard{
		Label: label,
		Score: score,
		Grade: util.Grade(score),
		Color: util.ScoreColor(score),
		Width: util.ClampPercent(score),
	}
}

func companyRow(rank int, c model.Company) dto.CompanyRow {
	return dto.CompanyRow{
		Rank:          rank,
		ID:            c.ID,
		Name:          c.Company,
		ESG:           c.ESGScore,
		Environmental: c.EnvironmentalScore,
		Social:        c.SocialScore,
		Governance:    c.GovernanceScore,
		Grade:         util.Grade(c.ESGScore),
		Color:         util.ScoreColor(c.ESGScore),
	}
}
