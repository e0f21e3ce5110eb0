package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"

	"phone_extraction_backend/platform/config"
)

func testConfig(redisURL string) *config.Config {
	return &config.Config{
		RedisURL:         redisURL,
		AsynqQueueName:   "extraction",
		AsynqConcurrency: 2,
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testConfig("")); err == nil {
		t.Fatal("expected an error without a redis url")
	}
}

func TestEnqueueExtractSite(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testConfig("redis://" + mr.Addr()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	payload := ExtractSitePayload{
		SiteDir: "/data/scraping/run1/pages/example.de",
		SiteURL: "https://example.de",
	}
	if err := client.EnqueueExtractSite(context.Background(), payload); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("extraction")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(pending))
	}
	if pending[0].Type != TaskExtractSite {
		t.Fatalf("expected task type %q, got %q", TaskExtractSite, pending[0].Type)
	}

	parsed, err := ParseExtractSitePayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if parsed != payload {
		t.Fatalf("payload mismatch: got %+v want %+v", parsed, payload)
	}
}

func TestScheduleIngestRunIsDeferred(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testConfig("redis://" + mr.Addr()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	runAt := time.Now().Add(time.Hour)
	if err := client.ScheduleIngestRun(context.Background(), IngestRunPayload{Root: "/data/scraping"}, runAt); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	scheduled, err := inspector.ListScheduledTasks("extraction")
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(scheduled) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(scheduled))
	}
	if scheduled[0].Type != TaskIngestRun {
		t.Fatalf("expected task type %q, got %q", TaskIngestRun, scheduled[0].Type)
	}
}
