package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"leadscope/internal/classification"
	apierrors "leadscope/internal/errors"
	"leadscope/internal/middleware"
	api "leadscope/pkg/contracts/api/v1"
)

// emptyClassifications is the 400 returned for a 3S request without rows.
var emptyClassifications = apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", "Classifications array cannot be empty")

// ClassificationHandler exposes the AI classification endpoints.
type ClassificationHandler struct {
	leads        LeadProcessor
	recommender  RecommendationProvider
	validator    *middleware.RequestValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewClassificationHandler creates a new classification handler
func NewClassificationHandler(leads LeadProcessor, recommender RecommendationProvider, validator *middleware.RequestValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ClassificationHandler {
	return &ClassificationHandler{
		leads:        leads,
		recommender:  recommender,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "ai_classification")),
	}
}

// Routes returns the classification routes
func (h *ClassificationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/classify", h.Classify)
	r.Post("/three-s", h.ThreeS)

	return r
}

// Classify handles POST /ai-classification/classify
func (h *ClassificationHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req api.ClassifyRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := h.leads.Classify(r.Context(), req.Clients)
	if err != nil {
		h.errorHandler.HandleError(w, r, upstreamError(err))
		return
	}
	render.JSON(w, r, res)
}

// ThreeS handles POST /ai-classification/three-s
func (h *ClassificationHandler) ThreeS(w http.ResponseWriter, r *http.Request) {
	var req api.ThreeSRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if len(req.Classifications) == 0 {
		h.errorHandler.HandleError(w, r, emptyClassifications)
		return
	}

	rec, err := h.recommender.Recommend(r.Context(), req.Classifications)
	if err != nil {
		if errors.Is(err, classification.ErrNoClassifications) {
			err = emptyClassifications
		}
		h.errorHandler.HandleError(w, r, upstreamError(err))
		return
	}
	h.logger.DebugContext(r.Context(), "3S recommendations returned", slog.Bool("cached", rec.Cached))
	render.JSON(w, r, rec)
}

// upstreamError keeps errors the error handler already maps and reports
// anything else as a failed call to the model provider.
func upstreamError(err error) error {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, classification.ErrMissingAPIKey),
		errors.Is(err, classification.ErrEmptyResponse),
		errors.Is(err, classification.ErrInvalidResponse),
		errors.Is(err, classification.ErrRecommendationCount):
		return err
	default:
		return apierrors.UpstreamFailed(err)
	}
}
