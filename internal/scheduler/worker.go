package scheduler

import (
	"context"
	"fmt"

	"phone_extraction_backend/internal/ingest"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	ingest *ingest.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, ingestSvc *ingest.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		ingest: ingestSvc,
		log:    log,
	}

	mux.HandleFunc(TaskExtractSite, w.handleExtractSite)
	mux.HandleFunc(TaskIngestRun, w.handleIngestRun)

	return w, nil
}

func (w *Worker) handleExtractSite(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseExtractSitePayload(task)
	if err != nil {
		return err
	}
	if payload.SiteDir == "" {
		return fmt.Errorf("extract site task without a site directory")
	}

	result, err := w.ingest.ProcessSite(ctx, payload.SiteDir)
	if err != nil {
		return err
	}

	w.log.Info("queued site extracted",
		"dir", payload.SiteDir,
		"numbers", len(result.Numbers),
	)
	return nil
}

func (w *Worker) handleIngestRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseIngestRunPayload(task)
	if err != nil {
		return err
	}
	if payload.Root == "" {
		return fmt.Errorf("ingest run task without a root directory")
	}

	summary, err := w.ingest.Run(ctx, payload.Root)
	if err != nil {
		return err
	}
	if summary.SitesFailed > 0 {
		return fmt.Errorf("ingest run finished with %d failed sites", summary.SitesFailed)
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
