package scheduler

import (
	"context"
	"fmt"

	"risclens_backend/internal/intel/domain"
	"risclens_backend/platform/config"
	"risclens_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Extractor runs a full signal extraction for one domain.
type Extractor interface {
	Extract(ctx context.Context, rawDomain string) domain.ExtractionResult
}

// Worker consumes queued tasks and runs them against the extraction service.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	extractor Extractor
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, extractor Extractor, log *logger.Logger) (*Worker, error) {
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
		server:    server,
		mux:       mux,
		extractor: extractor,
		log:       log,
	}

	mux.HandleFunc(TaskIntelExtract, w.handleIntelExtract)

	return w, nil
}

func (w *Worker) handleIntelExtract(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseIntelExtractPayload(task)
	if err != nil {
		return err
	}
	if payload.Domain == "" {
		return fmt.Errorf("intel.extract task missing domain")
	}

	w.log.Info("running queued extraction", "domain", payload.Domain)
	// Extraction never fails; persistence and degradation are handled inside.
	w.extractor.Extract(ctx, payload.Domain)
	return nil
}

// Run serves tasks until the context is cancelled.
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
