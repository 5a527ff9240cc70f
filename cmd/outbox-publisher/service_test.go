package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/config"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db/models"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/metrics"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   "11",
				Payload:       mustEnvelopePayload(t, enums.EventOrderCreated),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   "12",
				Payload:       mustEnvelopePayload(t, enums.EventOrderCreated),
			},
		},
	}
	pub := &fakePublisher{errs: []error{errors.New("transient"), nil}}
	service := newTestService(t, repo, pub, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != repo.events[0].ID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != repo.events[1].ID {
		t.Fatalf("published row recorded wrong ID")
	}
}

func TestPublishUsesAggregateChannel(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventReviewSubmitted,
		AggregateType: enums.AggregateReview,
		AggregateID:   "3",
		Payload:       mustEnvelopePayload(t, enums.EventReviewSubmitted),
	}
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(pub.channels) != 1 || pub.channels[0] != "test:events:review" {
		t.Fatalf("unexpected channels %v", pub.channels)
	}
	if string(pub.payloads[0]) != string(event.Payload) {
		t.Fatalf("expected payload to be published verbatim")
	}
}

func TestProcessBatchMarksUndecodablePayloadFailed(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventFavoriteToggled,
		AggregateType: enums.AggregateFavorite,
		AggregateID:   "8",
		Payload:       json.RawMessage(`"not an envelope"`),
	}
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, nil)

	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(pub.channels) != 0 {
		t.Fatalf("expected nothing published, got %v", pub.channels)
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected the event to be marked failed")
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{}, nil)
	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed {
		t.Fatalf("expected empty batch to report nothing processed")
	}
}

func TestProcessBatchSurfacesMarkError(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{{
			ID:            uuid.New(),
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   "5",
			Payload:       mustEnvelopePayload(t, enums.EventOrderCanceled),
		}},
		markErr: errors.New("db gone"),
	}
	service := newTestService(t, repo, &fakePublisher{}, nil)
	if _, err := service.processBatch(context.Background()); err == nil {
		t.Fatalf("expected mark error to abort the batch")
	}
}

func TestProcessBatchRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	repo := &fakeRepo{
		events: []models.OutboxEvent{{
			ID:            uuid.New(),
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   "9",
			Payload:       mustEnvelopePayload(t, enums.EventOrderStatusChanged),
		}},
	}
	service := newTestService(t, repo, &fakePublisher{}, metrics.NewPublisherMetrics(reg))
	if _, err := service.processBatch(context.Background()); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "outbox_published_total" {
			continue
		}
		if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
			t.Fatalf("expected one published event, got %f", got)
		}
		return
	}
	t.Fatalf("outbox_published_total not exported")
}

func TestNewServiceValidatesParams(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected error without config")
	}
	cfg := &config.Config{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if _, err := NewService(ServiceParams{Config: cfg, Logger: logg, DB: fakeDB{}, Repository: &fakeRepo{}}); err == nil {
		t.Fatalf("expected error without publisher")
	}
	svc, err := NewService(ServiceParams{Config: cfg, Logger: logg, DB: fakeDB{}, Publisher: &fakePublisher{}, Repository: &fakeRepo{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.batchSize != defaultBatchSize || svc.maxAttempts != defaultMaxAttempts || svc.channelPrefix != defaultChannelPrefix {
		t.Fatalf("expected defaults, got %+v", svc)
	}
}

func TestNextBackoffCaps(t *testing.T) {
	base := 500 * time.Millisecond
	if got := nextBackoff(0, base, maxBackoff); got != time.Second {
		t.Fatalf("expected 1s, got %s", got)
	}
	if got := nextBackoff(8*time.Second, base, maxBackoff); got != maxBackoff {
		t.Fatalf("expected cap %s, got %s", maxBackoff, got)
	}
	if got := withJitter(time.Second); got < time.Second || got >= time.Second+jitterWindow {
		t.Fatalf("jitter out of range: %s", got)
	}
}

func TestRunStopsWhenDependencyDown(t *testing.T) {
	service := newTestService(t, &fakeRepo{}, &fakePublisher{pingErr: errors.New("refused")}, nil)
	if err := service.Run(context.Background()); err == nil {
		t.Fatalf("expected readiness failure")
	}
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher, m *metrics.PublisherMetrics) *Service {
	t.Helper()
	cfg := &config.Config{Outbox: config.OutboxConfig{BatchSize: 10, PollIntervalMS: 10, MaxAttempts: 3, ChannelPrefix: "test:events"}}
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:         fakeDB{},
		Publisher:  pub,
		Repository: repo,
		Metrics:    m,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustEnvelopePayload(t *testing.T, eventType enums.OutboxEventType) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		EventType:  string(eventType),
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

type fakeDB struct{}

func (fakeDB) Ping(context.Context) error { return nil }

func (fakeDB) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	markErr   error
}

func (r *fakeRepo) FetchUnpublishedForPublish(_ *gorm.DB, limit, _ int) ([]models.OutboxEvent, error) {
	if len(r.events) > limit {
		return r.events[:limit], nil
	}
	return r.events, nil
}

func (r *fakeRepo) MarkPublishedTx(_ *gorm.DB, id uuid.UUID) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.published = append(r.published, id)
	return nil
}

func (r *fakeRepo) MarkFailedTx(_ *gorm.DB, id uuid.UUID, _ error) error {
	if r.markErr != nil {
		return r.markErr
	}
	r.failed = append(r.failed, id)
	return nil
}

type fakePublisher struct {
	errs     []error
	pingErr  error
	channels []string
	payloads [][]byte
	calls    int
}

func (p *fakePublisher) Ping(context.Context) error { return p.pingErr }

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	idx := p.calls
	p.calls++
	if idx < len(p.errs) && p.errs[idx] != nil {
		return 0, p.errs[idx]
	}
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return 1, nil
}
