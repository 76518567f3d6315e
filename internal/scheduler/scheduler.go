package scheduler

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNotInitialized = errors.New("scheduler not initialized")

var (
	mu    sync.Mutex
	sched gocron.Scheduler
)

// Init builds the process-wide scheduler. Jobs that panic are logged and
// the scheduler keeps running.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	if sched != nil {
		return nil
	}

	s, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return err
	}

	sched = s
	log.Info().Msg("Scheduler initialized")
	return nil
}

// Start begins running registered jobs. Returns immediately; jobs run on
// the scheduler's own goroutines.
func Start() error {
	mu.Lock()
	defer mu.Unlock()

	if sched == nil {
		return ErrNotInitialized
	}
	log.Info().Msg("Scheduler starting")
	sched.Start()
	return nil
}

// Stop shuts the scheduler down and waits for running jobs to finish.
func Stop() error {
	mu.Lock()
	defer mu.Unlock()

	if sched == nil {
		return ErrNotInitialized
	}
	log.Info().Msg("Scheduler stopping")
	err := sched.Shutdown()
	sched = nil
	return err
}

// AddJob registers a cron-driven job under the given name.
func AddJob(name, cronExpr string, task func()) (gocron.Job, error) {
	mu.Lock()
	defer mu.Unlock()

	if sched == nil {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("job name is required")
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, errors.New("cron expression is required")
	}

	jobLogger := log.With().Str("job_name", name).Str("cron", cronExpr).Logger()
	job, err := sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			jobLogger.Debug().Msg("Scheduler job started")
			task()
			jobLogger.Debug().Msg("Scheduler job completed")
		}),
		gocron.WithName(name),
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")
		return nil, err
	}
	jobLogger.Info().Msg("Scheduler job registered")
	return job, nil
}
