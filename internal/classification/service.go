package classification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"leadscope/internal/analytics"
	"leadscope/pkg/contracts/domain"
)

var (
	// ErrNoClients is returned when there is nothing to classify.
	ErrNoClients = errors.New("no clients to classify")

	// ErrNoClassifications is returned when there is nothing to recommend on.
	ErrNoClassifications = errors.New("classifications array cannot be empty")
)

// Config tunes the model calls.
type Config struct {
	ClassifyTemperature  float32
	RecommendTemperature float32
	// MaxRecommendationSample caps how many classifications are embedded in
	// the recommendation prompt.
	MaxRecommendationSample int
	Timeout                 time.Duration
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		ClassifyTemperature:     0.1,
		RecommendTemperature:    0.7,
		MaxRecommendationSample: 50,
		Timeout:                 2 * time.Minute,
	}
}

// Service classifies leads and derives 3S recommendations through a Generator.
type Service struct {
	generator Generator
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a classification service.
func NewService(generator Generator, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: generator,
		cfg:       cfg,
		logger:    logger.With(slog.String("service", "classification")),
		now:       time.Now,
	}
}

// ClassifyClients labels every client on the six dimensions and joins the
// labels back to the source meetings by email.
func (s *Service) ClassifyClients(ctx context.Context, clients []domain.ClientMeeting) (*domain.ClassificationResult, error) {
	if len(clients) == 0 {
		return nil, ErrNoClients
	}
	start := s.now()
	s.logger.InfoContext(ctx, "starting classification", slog.Int("clients", len(clients)))

	prompt, err := buildClassificationPrompt(clients)
	if err != nil {
		return nil, err
	}

	content, err := s.generate(ctx, prompt, GenerateOptions{Temperature: s.cfg.ClassifyTemperature, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}

	raws, err := decodeClassifications(content)
	if err != nil {
		s.logger.ErrorContext(ctx, "unusable classification response",
			slog.String("error", err.Error()),
			slog.String("preview", preview(content)))
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}
	if len(raws) != len(clients) {
		s.logger.WarnContext(ctx, "classification count differs from client count",
			slog.Int("clients", len(clients)),
			slog.Int("classifications", len(raws)))
	}

	idx := newMeetingIndex(clients)
	n := normalizer{logger: s.logger}
	out := make([]domain.ClientClassification, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.toClassification(raw, idx))
	}

	elapsed := s.now().Sub(start)
	s.logger.InfoContext(ctx, "classification completed",
		slog.Int("classifications", len(out)),
		slog.Duration("duration", elapsed))

	return &domain.ClassificationResult{
		TotalClients:    len(clients),
		Classifications: out,
		ProcessingTime:  elapsed.Milliseconds(),
	}, nil
}

// GenerateThreeS asks for exactly three Start, Stop and Spice-Up items.
func (s *Service) GenerateThreeS(ctx context.Context, items []domain.ClientClassification) (*domain.ThreeSRecommendations, error) {
	if len(items) == 0 {
		return nil, ErrNoClassifications
	}
	start := s.now()
	s.logger.InfoContext(ctx, "generating 3S recommendations", slog.Int("classifications", len(items)))

	prompt, err := buildThreeSPrompt(items, analytics.ComputeStats(items), s.cfg.MaxRecommendationSample)
	if err != nil {
		return nil, err
	}

	content, err := s.generate(ctx, prompt, GenerateOptions{Temperature: s.cfg.RecommendTemperature, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get 3S recommendations: %w", err)
	}

	startList, stopList, spiceList, err := decodeRecommendations(content)
	if err != nil {
		s.logger.ErrorContext(ctx, "unusable 3S response",
			slog.String("error", err.Error()),
			slog.String("preview", preview(content)))
		return nil, fmt.Errorf("failed to get 3S recommendations: %w", err)
	}

	elapsed := s.now().Sub(start)
	s.logger.InfoContext(ctx, "3S recommendations generated", slog.Duration("duration", elapsed))
	return &domain.ThreeSRecommendations{
		Start:          startList,
		Stop:           stopList,
		SpiceUp:        spiceList,
		ProcessingTime: elapsed.Milliseconds(),
	}, nil
}

func (s *Service) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if s.generator == nil {
		return "", ErrMissingAPIKey
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	return s.generator.Generate(ctx, prompt, opts)
}

func preview(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
