package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency
// and reuse by the transport layer.

type AnalyzeRequest struct {
	Symbol       string  `json:"symbol" validate:"omitempty,max=20"`
	ImageBase64  string  `json:"image_base64" validate:"omitempty,base64"`
	CurrentPrice float64 `json:"current_price" validate:"omitempty,gt=0"`
}

type FeedbackRequest struct {
	ID      string `json:"id" validate:"required"`
	Correct *bool  `json:"correct" validate:"required"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type OutcomesRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
