package model

// Company is one company's latest ESG scores as returned by the backend.
// SentimentScore is nil when the backend omits it, which is distinct from a
// neutral 0.
type Company struct {
	ID                 int64     `json:"id"`
	Company            string    `json:"company"`
	ESGScore           float64   `json:"esg_score"`
	EnvironmentalScore float64   `json:"environmental_score"`
	SocialScore        float64   `json:"social_score"`
	GovernanceScore    float64   `json:"governance_score"`
	SentimentScore     *float64  `json:"sentiment_score,omitempty"`
	Industry           string    `json:"industry,omitempty"`
	Description        string    `json:"description,omitempty"`
	CreatedAt          Timestamp `json:"created_at"`
}
