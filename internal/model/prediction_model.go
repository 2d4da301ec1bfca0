package model

type PredictionRequest struct {
	SentimentScore     float64 `json:"sentiment_score"`
	EnvironmentalScore float64 `json:"environmental_score"`
	SocialScore        float64 `json:"social_score"`
	GovernanceScore    float64 `json:"governance_score"`
}

type PredictionResponse struct {
	PredictedESGScore float64 `json:"predicted_esg_score"`
}
