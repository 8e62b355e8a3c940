package api

import (
	"errors"
	"net/http"
	"time"

	models "ChartSight/internal/domain/models"
	drepo "ChartSight/internal/domain/repository"
	"ChartSight/internal/scoring"
	"ChartSight/internal/service/ratelimit"
	"ChartSight/internal/usecase"
	xhttp "ChartSight/pkg/http"
	xlogger "ChartSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler exposes the analysis API over Echo.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	feedback *usecase.Feedback
	history  *usecase.History
	outcomes *usecase.Outcomes
	store    drepo.RecordStore
	engine   *scoring.Engine
	limiter  *ratelimit.Limiter
	rate     float64
	burst    float64
}

func NewAnalysisEchoHandler(
	logger *xlogger.Logger,
	analyzer *usecase.Analyzer,
	feedback *usecase.Feedback,
	history *usecase.History,
	outcomes *usecase.Outcomes,
	store drepo.RecordStore,
	engine *scoring.Engine,
	rate float64,
	burst int,
) *AnalysisEchoHandler {
	if rate <= 0 {
		rate = 2
	}
	if burst <= 0 {
		burst = 5
	}
	return &AnalysisEchoHandler{
		logger:   logger,
		analyzer: analyzer,
		feedback: feedback,
		history:  history,
		outcomes: outcomes,
		store:    store,
		engine:   engine,
		limiter:  ratelimit.New(),
		rate:     rate,
		burst:    float64(burst),
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.POST("/feedback", h.Feedback)
	g.GET("/history", h.History)
	g.GET("/patterns", h.Patterns)
	g.GET("/outcomes", h.Outcomes)
	e.GET("/healthz", h.Health)
}

func (h *AnalysisEchoHandler) Analyze(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), h.burst, h.rate) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.analyzer.Analyze(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, rec)
}

func (h *AnalysisEchoHandler) Feedback(c echo.Context) error {
	req := &models.FeedbackRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.feedback.Submit(c.Request().Context(), req.ID, *req.Correct)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return xhttp.NotFoundResponse(c, "analysis not found")
		case errors.Is(err, models.ErrFeedbackRecorded):
			return xhttp.DataResponse(c, http.StatusConflict, "feedback already recorded")
		case errors.Is(err, models.ErrInvalidPattern):
			return xhttp.BadRequestResponse(c, "invalid pattern")
		default:
			h.logger.Error("feedback usecase error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *AnalysisEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	records, err := h.history.Recent(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.ListResponse(c, records, int64(len(records)))
}

type patternInfo struct {
	Name                 string  `json:"name"`
	ConfidenceAdjustment int     `json:"confidence_adjustment"`
	FeedbackCount        int     `json:"feedback_count"`
	SuccessRate          float64 `json:"success_rate"`
}

// Patterns returns the fixed taxonomy grouped by category, with the learning
// state accumulated for each pattern.
func (h *AnalysisEchoHandler) Patterns(c echo.Context) error {
	out := make(map[string][]patternInfo, len(scoring.Categories))
	for _, cat := range scoring.Categories {
		names := scoring.PatternsIn(cat)
		infos := make([]patternInfo, 0, len(names))
		for _, name := range names {
			info := patternInfo{Name: name}
			if st, ok := h.engine.Store().LearningState(name); ok {
				info.ConfidenceAdjustment = st.ConfidenceAdjustment
				info.FeedbackCount = st.FeedbackCount
				info.SuccessRate = st.SuccessRate()
			}
			infos = append(infos, info)
		}
		out[cat] = infos
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *AnalysisEchoHandler) Outcomes(c echo.Context) error {
	req := &models.OutcomesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	from := xhttp.ParseTimeDefault(req.From, now.AddDate(0, -1, 0))
	to := xhttp.ParseTimeDefault(req.To, now)

	events, err := h.outcomes.Query(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("outcomes usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, "store unavailable")
	}
	return xhttp.SuccessResponse(c, "ok")
}
