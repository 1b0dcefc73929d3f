package tasks

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
)

// TypeOfferExpireSweep flips overdue pending offers to expired. Lazy expiry
// on the read paths is authoritative; the sweep only bounds staleness for
// offers nobody reads.
const TypeOfferExpireSweep = "offer:expire_sweep"

// NewClient returns an asynq client bound to the shared Redis instance.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	})
}

// TaskProcessor handles the processing of background tasks.
type TaskProcessor struct {
	cfg    *config.Config
	offers services.IOfferService
}

// NewTaskProcessor creates a task processor with its workflow dependencies.
func NewTaskProcessor(cfg *config.Config, offers services.IOfferService) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, offers: offers}
}

// HandleOfferExpireSweepTask runs the bulk pending-to-expired transition.
func (p *TaskProcessor) HandleOfferExpireSweepTask(ctx context.Context, t *asynq.Task) error {
	n, err := p.offers.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("offer expiry sweep: %w", err)
	}
	if n > 0 {
		log.Printf("Offer expiry sweep: expired %d overdue pending offer(s)", n)
	}
	return nil
}

// SetupServer configures the asynq server and its handler mux.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Error: %v\n", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOfferExpireSweep, processor.HandleOfferExpireSweepTask)

	return srv, mux
}

// SetupScheduler registers the periodic sweep at the configured interval.
func SetupScheduler(rdb *redis.Client, cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		nil,
	)

	spec := fmt.Sprintf("@every %s", cfg.OfferSweepInterval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeOfferExpireSweep, nil), asynq.Queue("low")); err != nil {
		return nil, fmt.Errorf("failed to register offer expiry sweep: %w", err)
	}

	return scheduler, nil
}
