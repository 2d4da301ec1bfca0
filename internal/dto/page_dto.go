package dto

import "github.com/fadilmartias/esg-dashboard/internal/model"

// Page is the envelope every template receives.
type Page struct {
	Title  string
	Active string
	Nav    []NavItem
	Data   any
}

type NavItem struct {
	Name   string
	Path   string
	Active bool
}

// ErrorPanel is rendered in place of page content when a fetch fails.
type ErrorPanel struct {
	Title    string
	Message  string
	RetryURL string
}

type ScoreCard struct {
	Label string
	Score float64
	Grade string
	Color string
	Width float64
}

type CompanyRow struct {
	Rank          int
	ID            int64
	Name          string
	ESG           float64
	Environmental float64
	Social        float64
	Governance    float64
	Grade         string
	Color         string
}

type DashboardView struct {
	Error        *ErrorPanel
	CompanyCount string
	Empty        bool
	Cards        []ScoreCard
	Top          []CompanyRow
}

type SortOption struct {
	Key    string
	Label  string
	Active bool
}

type CompaniesView struct {
	Error       *ErrorPanel
	Search      string
	Sort        string
	SortOptions []SortOption
	Rows        []CompanyRow
	Total       int
}

type CompanyDetailView struct {
	Error          *ErrorPanel
	Company        *model.Company
	Grade          string
	Color          string
	Breakdown      []ScoreCard
	Sentiment      string
	HasSentiment   bool
	SentimentGauge float64
	Report         *ReportView
}

type ReportView struct {
	Available bool
	Message   string
	CreatedAt string
	Pretty    string
}

type NewsFilterOption struct {
	Key    string
	Label  string
	Active bool
}

type NewsRow struct {
	ID          int64
	Title       string
	Summary     string
	Score       float64
	Percent     int
	Bucket      string
	Color       string
	BarWidth    float64
	ServerLabel string
	CreatedAt   string
}

type NewsView struct {
	Error        *ErrorPanel
	Filter       string
	Filters      []NewsFilterOption
	Rows         []NewsRow
	EmptyMessage string
}

type PredictField struct {
	Name  string
	Label string
	Value float64
	Min   float64
	Max   float64
	Step  float64
}

type PredictView struct {
	Fields    []PredictField
	HasResult bool
	Result    float64
	Grade     string
	Color     string
	Error     string
}

type UploadView struct {
	SessionID     string
	State         string
	FileName      string
	FileSizeLabel string
	HasFile       bool
	Uploading     bool
	Progress      int
	Error         string
	Succeeded     bool
	Summary       *UploadSummaryView
	MaxSizeLabel  string
}

type UploadSummaryView struct {
	Status    string
	Companies string
	News      string
	Reports   string
}
