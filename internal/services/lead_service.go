package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"leadscope/internal/infrastructure"
	"leadscope/pkg/contracts/domain"
	"leadscope/pkg/contracts/events"
)

// Parser turns an uploaded document into validated meetings.
type Parser interface {
	ParseBytes(ctx context.Context, document []byte) (*domain.CsvParseResult, error)
	ParseWorkbook(ctx context.Context, r io.Reader) (*domain.CsvParseResult, error)
}

// Classifier labels meetings on the six classification dimensions.
type Classifier interface {
	ClassifyClients(ctx context.Context, clients []domain.ClientMeeting) (*domain.ClassificationResult, error)
}

// EventPublisher receives upload progress events.
type EventPublisher interface {
	Publish(ctx context.Context, t events.MessageType, data any)
}

// UploadResult is the combined outcome of parsing and classifying one upload.
// Classification is nil when the upload had no valid rows.
type UploadResult struct {
	Parsing        *domain.CsvParseResult
	Classification *domain.ClassificationResult
}

// LeadService runs uploads through parsing and classification.
type LeadService struct {
	parser     Parser
	classifier Classifier
	publisher  EventPublisher
	metrics    *infrastructure.BusinessMetrics
	logger     *slog.Logger
}

// NewLeadService creates a lead service. publisher and metrics may be nil.
func NewLeadService(parser Parser, classifier Classifier, publisher EventPublisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadService{
		parser:     parser,
		classifier: classifier,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger.With(slog.String("service", "lead")),
	}
}

// ParseUpload validates u and parses it. CSV and xlsx documents are accepted.
func (s *LeadService) ParseUpload(ctx context.Context, u *Upload) (*domain.CsvParseResult, error) {
	kind, err := ValidateUpload(u, true)
	if err != nil {
		s.logger.WarnContext(ctx, "upload rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	return s.parse(ctx, u, kind)
}

// UploadAndClassify validates a CSV upload, parses it and classifies the
// valid rows. Classification is skipped when no row is valid.
func (s *LeadService) UploadAndClassify(ctx context.Context, u *Upload) (*UploadResult, error) {
	kind, err := ValidateUpload(u, false)
	if err != nil {
		s.logger.WarnContext(ctx, "upload rejected", slog.String("reason", err.Error()))
		return nil, err
	}
	s.logger.InfoContext(ctx, "processing upload",
		slog.String("file_name", u.FileName),
		slog.Int("size_bytes", len(u.Data)))

	progress := events.UploadProgress{
		RequestID: infrastructure.GetTraceID(ctx),
		FileName:  u.FileName,
	}

	parsed, err := s.parse(ctx, u, kind)
	if err != nil {
		s.fail(ctx, progress, err)
		return nil, err
	}
	progress.TotalRows = parsed.TotalRows
	progress.ValidRows = parsed.ValidRows
	progress.InvalidRows = parsed.InvalidRows()
	s.publish(ctx, events.MessageTypeUploadParsed, progress)

	result := &UploadResult{Parsing: parsed}
	if parsed.ValidRows == 0 {
		s.logger.WarnContext(ctx, "no valid rows to classify")
		return result, nil
	}

	s.publish(ctx, events.MessageTypeUploadClassifying, progress)
	classified, err := s.Classify(ctx, parsed.Data)
	if err != nil {
		s.fail(ctx, progress, err)
		return nil, err
	}
	result.Classification = classified

	progress.Classifications = len(classified.Classifications)
	progress.DurationMs = classified.ProcessingTime
	s.publish(ctx, events.MessageTypeUploadClassified, progress)
	return result, nil
}

// Classify labels clients and records the classification metrics.
func (s *LeadService) Classify(ctx context.Context, clients []domain.ClientMeeting) (*domain.ClassificationResult, error) {
	start := time.Now()
	res, err := s.classifier.ClassifyClients(ctx, clients)
	s.metrics.RecordClassification(ctx, len(clients), time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return res, nil
}

func (s *LeadService) parse(ctx context.Context, u *Upload, kind UploadKind) (*domain.CsvParseResult, error) {
	var (
		res *domain.CsvParseResult
		err error
	)
	switch kind {
	case UploadWorkbook:
		res, err = s.parser.ParseWorkbook(ctx, bytes.NewReader(u.Data))
	default:
		res, err = s.parser.ParseBytes(ctx, u.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", u.FileName, err)
	}
	s.metrics.RecordParse(ctx, res)
	s.logger.InfoContext(ctx, "upload parsed",
		slog.Int("total_rows", res.TotalRows),
		slog.Int("valid_rows", res.ValidRows))
	return res, nil
}

func (s *LeadService) fail(ctx context.Context, progress events.UploadProgress, err error) {
	s.logger.ErrorContext(ctx, "upload processing failed", slog.String("error", err.Error()))
	progress.Error = err.Error()
	s.publish(ctx, events.MessageTypeUploadFailed, progress)
}

func (s *LeadService) publish(ctx context.Context, t events.MessageType, progress events.UploadProgress) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, t, progress)
	}
}
