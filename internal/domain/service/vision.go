package service

import (
	"context"

	"ChartSight/internal/domain/models"
)

// ChartVision classifies a chart image through an external vision model.
type ChartVision interface {
	// AnalyzeChart sends the base64-encoded chart image to the model and
	// returns the extracted analysis. The context deadline bounds the call.
	AnalyzeChart(ctx context.Context, imageBase64, symbol string) (*models.ChartAnalysis, error)

	// Enabled reports whether the client is configured with credentials.
	Enabled() bool
}
