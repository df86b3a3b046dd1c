package classification

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"leadscope/pkg/contracts/domain"
)

var (
	// ErrInvalidResponse is returned when the model output has the wrong shape.
	ErrInvalidResponse = errors.New("invalid response format")

	// ErrRecommendationCount is returned when a 3S list does not hold
	// exactly RecommendationsPerList items.
	ErrRecommendationCount = errors.New("unexpected number of recommendations")
)

var codeFence = regexp.MustCompile("```(?:json)?\\n?")

// stripCodeFences removes markdown fences some models wrap JSON in.
func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

type rawClassification struct {
	ClientName        string `json:"clientName"`
	Email             string `json:"email"`
	Industry          string `json:"industry"`
	LeadSource        string `json:"leadSource"`
	InteractionVolume string `json:"interactionVolume"`
	MainPainPoint     string `json:"mainPainPoint"`
	TechMaturity      string `json:"techMaturity"`
	Urgency           string `json:"urgency"`
	Confidence        any    `json:"confidence"`
}

// decodeClassifications accepts either a bare array or an object with a
// classifications array.
func decodeClassifications(content string) ([]rawClassification, error) {
	content = stripCodeFences(content)

	if strings.HasPrefix(content, "[") {
		var items []rawClassification
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		return items, nil
	}

	var wrapper struct {
		Classifications *[]rawClassification `json:"classifications"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if wrapper.Classifications == nil {
		return nil, fmt.Errorf("%w: missing classifications array", ErrInvalidResponse)
	}
	return *wrapper.Classifications, nil
}

// meetingIndex looks up source meetings by case-insensitive email. The first
// meeting wins for duplicated emails.
type meetingIndex map[string]domain.ClientMeeting

func newMeetingIndex(meetings []domain.ClientMeeting) meetingIndex {
	idx := make(meetingIndex, len(meetings))
	for _, m := range meetings {
		key := strings.ToLower(m.Correo)
		if _, dup := idx[key]; !dup {
			idx[key] = m
		}
	}
	return idx
}

func (idx meetingIndex) lookup(email string) (domain.ClientMeeting, bool) {
	m, ok := idx[strings.ToLower(email)]
	return m, ok
}

// normalizer coerces model labels onto the allowed sets.
type normalizer struct {
	logger *slog.Logger
}

func (n normalizer) toClassification(raw rawClassification, idx meetingIndex) domain.ClientClassification {
	c := domain.ClientClassification{
		ClientName:        raw.ClientName,
		Email:             raw.Email,
		Industry:          pick(n, "industry", raw.Industry, domain.ParseIndustry, domain.DefaultIndustry),
		LeadSource:        pick(n, "leadSource", raw.LeadSource, domain.ParseLeadSource, domain.DefaultLeadSource),
		InteractionVolume: pick(n, "interactionVolume", raw.InteractionVolume, domain.ParseInteractionVolume, domain.DefaultInteractionVolume),
		MainPainPoint:     pick(n, "mainPainPoint", raw.MainPainPoint, domain.ParseMainPainPoint, domain.DefaultMainPainPoint),
		TechMaturity:      pick(n, "techMaturity", raw.TechMaturity, domain.ParseTechMaturity, domain.DefaultTechMaturity),
		Urgency:           pick(n, "urgency", raw.Urgency, domain.ParseUrgency, domain.DefaultUrgency),
		Confidence:        n.confidence(raw.Confidence),
	}
	if m, ok := idx.lookup(raw.Email); ok {
		closed := m.Cerrado
		c.Phone = m.Telefono
		c.MeetingDate = m.FechaReunion
		c.AssignedSalesperson = m.VendedorAsignado
		c.IsClosed = &closed
	} else {
		n.logger.Warn("classification does not match any uploaded email",
			slog.String("email", raw.Email))
	}
	return c
}

func pick[T ~string](n normalizer, field, value string, parse func(string) (T, bool), fallback T) T {
	if v, ok := parse(value); ok {
		return v
	}
	n.logger.Warn("invalid classification value, using default",
		slog.String("field", field),
		slog.String("value", value),
		slog.String("default", string(fallback)))
	return fallback
}

func (n normalizer) confidence(v any) float64 {
	if f, ok := v.(float64); ok && f >= 0 && f <= 1 {
		return f
	}
	n.logger.Warn("invalid confidence value, using default",
		slog.Any("value", v),
		slog.Float64("default", domain.DefaultConfidence))
	return domain.DefaultConfidence
}

type rawRecommendation struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// decodeRecommendations validates a 3S payload: three lists of exactly
// RecommendationsPerList items with non-empty title and description.
func decodeRecommendations(content string) (start, stop, spiceUp []domain.Recommendation, err error) {
	content = stripCodeFences(content)

	var payload struct {
		Start   *[]json.RawMessage `json:"start"`
		Stop    *[]json.RawMessage `json:"stop"`
		SpiceUp *[]json.RawMessage `json:"spiceUp"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if payload.Start == nil || payload.Stop == nil || payload.SpiceUp == nil {
		return nil, nil, nil, fmt.Errorf("%w: start, stop and spiceUp arrays are required", ErrInvalidResponse)
	}
	if len(*payload.Start) != domain.RecommendationsPerList ||
		len(*payload.Stop) != domain.RecommendationsPerList ||
		len(*payload.SpiceUp) != domain.RecommendationsPerList {
		return nil, nil, nil, fmt.Errorf("%w: expected exactly %d per category, got start: %d, stop: %d, spiceUp: %d",
			ErrRecommendationCount, domain.RecommendationsPerList,
			len(*payload.Start), len(*payload.Stop), len(*payload.SpiceUp))
	}

	if start, err = decodeRecommendationList(*payload.Start); err != nil {
		return nil, nil, nil, err
	}
	if stop, err = decodeRecommendationList(*payload.Stop); err != nil {
		return nil, nil, nil, err
	}
	if spiceUp, err = decodeRecommendationList(*payload.SpiceUp); err != nil {
		return nil, nil, nil, err
	}
	return start, stop, spiceUp, nil
}

func decodeRecommendationList(items []json.RawMessage) ([]domain.Recommendation, error) {
	out := make([]domain.Recommendation, 0, len(items))
	for _, item := range items {
		var r rawRecommendation
		if err := json.Unmarshal(item, &r); err != nil || r.Title == nil || r.Description == nil {
			return nil, fmt.Errorf("%w: invalid recommendation structure", ErrInvalidResponse)
		}
		title := strings.TrimSpace(*r.Title)
		desc := strings.TrimSpace(*r.Description)
		if title == "" || desc == "" {
			return nil, fmt.Errorf("%w: recommendation title and description cannot be empty", ErrInvalidResponse)
		}
		out = append(out, domain.Recommendation{Title: title, Description: desc})
	}
	return out, nil
}
