package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByName          SortKey = "name"
	SortByESG           SortKey = "esg"
	SortByEnvironmental SortKey = "env"
	SortBySocial        SortKey = "social"
	SortByGovernance    SortKey = "gov"
)

var sortOptions = []struct {
	key   SortKey
	label string
}{
	{SortByESG, "ESG Score"},
	{SortByEnvironmental, "Environmental"},
	{SortBySocial, "Social"},
	{SortByGovernance, "Governance"},
	{SortByName, "Name"},
}

// ParseSortKey returns the matching key, falling back to SortByESG.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortByName, SortByESG, SortByEnvironmental, SortBySocial, SortByGovernance:
		return k
	default:
		return SortByESG
	}
}

// FilterAndSort keeps companies whose name contains search (case-insensitive)
// and orders them by key: name ascending, every score descending. It returns
// a new slice and never reorders the input.
func FilterAndSort(companies []model.Company, search string, key SortKey) []model.Company {
	needle := strings.ToLower(search)
	out := make([]model.Company, 0, len(companies))
	for _, c := range companies {
		if strings.Contains(strings.ToLower(c.Company), needle) {
			out = append(out, c)
		}
	}

	var less func(a, b model.Company) bool
	switch key {
	case SortByName:
		// Collators keep internal buffers, so one per call.
		col := collate.New(language.English)
		less = func(a, b model.Company) bool { return col.CompareString(a.Company, b.Company) < 0 }
	case SortByEnvironmental:
		less = func(a, b model.Company) bool { return a.EnvironmentalScore > b.EnvironmentalScore }
	case SortBySocial:
		less = func(a, b model.Company) bool { return a.SocialScore > b.SocialScore }
	case SortByGovernance:
		less = func(a, b model.Company) bool { return a.GovernanceScore > b.GovernanceScore }
	default:
		less = func(a, b model.Company) bool { return a.ESGScore > b.ESGScore }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

type CompaniesUsecase struct {
	esg service.ESGServiceInterface
	log *logrus.Logger
}

func NewCompaniesUsecase(esg service.ESGServiceInterface, log *logrus.Logger) *CompaniesUsecase {
	return &CompaniesUsecase{esg: esg, log: log}
}

func (uc *CompaniesUsecase) Load(ctx context.Context, search, sortRaw string) dto.CompaniesView {
	key := ParseSortKey(sortRaw)
	view := dto.CompaniesView{Search: search, Sort: string(key)}
	for _, opt := range sortOptions {
		view.SortOptions = append(view.SortOptions, dto.SortOption{
			Key:    string(opt.key),
			Label:  opt.label,
			Active: opt.key == key,
		})
	}

	res := Load(ctx, uc.esg.GetCompanies)
	if res.Err != nil {
		uc.log.WithError(res.Err).Warn("companies: failed to load companies")
		view.Error = &dto.ErrorPanel{
			Title:    "Error Loading Companies",
			Message:  res.Error,
			RetryURL: "/companies",
		}
		return view
	}

	filtered := FilterAndSort(res.Data, search, key)
	view.Total = len(res.Data)
	view.Rows = make([]dto.CompanyRow, 0, len(filtered))
	for i, c := range filtered {
		view.Rows = append(view.Rows, companyRow(i+1, c))
	}
	return view
}
