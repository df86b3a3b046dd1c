package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"leadscope/internal/exporter"
	"leadscope/pkg/contracts/domain"
	"leadscope/pkg/contracts/events"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) ClassifyClients(ctx context.Context, clients []domain.ClientMeeting) (*domain.ClassificationResult, error) {
	args := m.Called(ctx, clients)
	res, _ := args.Get(0).(*domain.ClassificationResult)
	return res, args.Error(1)
}

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) GenerateThreeS(ctx context.Context, items []domain.ClientClassification) (*domain.ThreeSRecommendations, error) {
	args := m.Called(ctx, items)
	res, _ := args.Get(0).(*domain.ThreeSRecommendations)
	return res, args.Error(1)
}

type MockSheetsPublisher struct {
	mock.Mock
}

func (m *MockSheetsPublisher) Publish(ctx context.Context, items []domain.ClientClassification) (*exporter.SheetsResult, error) {
	args := m.Called(ctx, items)
	res, _ := args.Get(0).(*exporter.SheetsResult)
	return res, args.Error(1)
}

type publishedEvent struct {
	Type     events.MessageType
	Progress events.UploadProgress
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, t events.MessageType, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	progress, _ := data.(events.UploadProgress)
	p.events = append(p.events, publishedEvent{Type: t, Progress: progress})
}

func (p *recordingPublisher) types() []events.MessageType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.MessageType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func (p *recordingPublisher) last() publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}
