package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ChartSight/internal/domain/models"
	"ChartSight/internal/scoring"
	xhttp "ChartSight/pkg/http"
	"ChartSight/pkg/logger"
)

// Config holds vision client configuration.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat-completions endpoint with the chart
// image attached and parses the structured analysis out of the reply.
type Client struct {
	logger *logger.Logger
	http   *xhttp.Client
	cfg    Config
}

// NewClient creates a vision client. An empty API key leaves it disabled.
func NewClient(lgr *logger.Logger, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		logger: lgr,
		http:   xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		cfg:    cfg,
	}
}

func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// visionResult is the JSON shape the model is asked to reply with.
type visionResult struct {
	Pair       string   `json:"pair"`
	Pattern    string   `json:"pattern"`
	Prediction string   `json:"prediction"`
	Confidence int      `json:"confidence"`
	Entry      float64  `json:"entry"`
	StopLoss   float64  `json:"stop_loss"`
	TakeProfit float64  `json:"take_profit"`
	Timeframe  string   `json:"timeframe"`
	Indicators []string `json:"indicators"`
}

// AnalyzeChart sends the chart image for classification. The returned pattern
// is guaranteed to belong to the taxonomy; anything else is an error so the
// caller can fall back to the simulator.
func (c *Client) AnalyzeChart(ctx context.Context, imageBase64, symbol string) (*models.ChartAnalysis, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("vision client disabled")
	}

	req := chatRequest{
		Model:       c.cfg.Model,
		MaxTokens:   512,
		Temperature: 0.2,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: buildPrompt(symbol)},
					{Type: "image_url", ImageURL: &imageURL{URL: "data:image/png;base64," + imageBase64}},
				},
			},
		},
	}

	var resp chatResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.cfg.APIKey,
			"Content-Type":  "application/json",
		},
		Body: req,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("vision request: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("vision api error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("vision response has no choices")
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	analysis := &models.ChartAnalysis{
		Pair:       result.Pair,
		Pattern:    result.Pattern,
		Prediction: models.Prediction(result.Prediction),
		Confidence: result.Confidence,
		Entry:      result.Entry,
		StopLoss:   result.StopLoss,
		TakeProfit: result.TakeProfit,
		Timeframe:  result.Timeframe,
		Indicators: result.Indicators,
	}
	if analysis.Pair == "" {
		analysis.Pair = symbol
	}
	c.logger.Debug("vision analysis received",
		logger.String("pattern", analysis.Pattern),
		logger.Int("confidence", analysis.Confidence))
	return analysis, nil
}

// parseResult extracts the JSON object from the model reply, tolerating
// markdown code fences around it.
func parseResult(content string) (*visionResult, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if i := strings.LastIndex(content, "```"); i >= 0 {
			content = content[:i]
		}
		content = strings.TrimSpace(content)
	}

	var result visionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parse vision reply: %w", err)
	}

	if !scoring.IsKnownPattern(result.Pattern) {
		return nil, fmt.Errorf("vision returned unknown pattern %q", result.Pattern)
	}
	if result.Prediction != string(models.PredictionBullish) && result.Prediction != string(models.PredictionBearish) {
		return nil, fmt.Errorf("vision returned unknown prediction %q", result.Prediction)
	}
	if result.Confidence < 50 {
		result.Confidence = 50
	}
	if result.Confidence > 95 {
		result.Confidence = 95
	}
	return &result, nil
}
