package worker

import (
	"context"
	"errors"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/tasks"
)

// WorkerServer wraps the asynq server running the background tasks.
type WorkerServer struct {
	server          *asynq.Server
	scheduler       *asynq.Scheduler
	snapshotHandler *SnapshotCheckHandler
	log             *logrus.Entry
}

// NewWorkerServer creates a WorkerServer with its periodic schedule.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, snapshotHandler *SnapshotCheckHandler, logger *logrus.Logger) *WorkerServer {
	if snapshotHandler == nil {
		panic("SnapshotCheckHandler cannot be nil for WorkerServer")
	}
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID := ""
				if rw := task.ResultWriter(); rw != nil {
					taskID = rw.TaskID()
				}
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_id":   taskID,
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	return &WorkerServer{
		server:          server,
		scheduler:       scheduler,
		snapshotHandler: snapshotHandler,
		log:             logEntry,
	}
}

// Start runs the worker and the scheduler. It blocks until shutdown, so call
// it from its own goroutine.
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSnapshotCheck, ws.snapshotHandler.ProcessTask)

	if _, err := ws.scheduler.Register(tasks.SnapshotCheckInterval, tasks.NewSnapshotCheckTask()); err != nil {
		ws.log.Fatalf("Could not register snapshot check schedule: %v", err)
	}
	go func() {
		if err := ws.scheduler.Run(); err != nil {
			ws.log.Errorf("Scheduler stopped: %v", err)
		}
	}()

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		} else {
			ws.log.Info("Worker server stopped.")
		}
	}
}

// Shutdown stops the scheduler and drains the worker.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.scheduler.Shutdown()
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
