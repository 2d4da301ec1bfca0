package model

// UploadSummary is returned by the backend after a ZIP has been ingested.
// Counts are optional; a missing count stays nil.
type UploadSummary struct {
	Status            string `json:"status"`
	CompaniesInserted *int   `json:"companies_inserted,omitempty"`
	NewsInserted      *int   `json:"news_inserted,omitempty"`
	ReportsInserted   *int   `json:"reports_inserted,omitempty"`
}
