package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/replydeck/backend/internal/config"
	"github.com/replydeck/backend/pkg/logger"
)

const (
	TaskTypeAutoReply = "autoreply:run"
)

// AutoReplyTask asks a worker to execute one orchestrator pass. RunID is
// assigned at enqueue time so API callers can poll the run before the
// worker picks it up.
type AutoReplyTask struct {
	RunID       string `json:"run_id,omitempty"`
	Trigger     string `json:"trigger"` // cron, manual
	RequestedBy uint   `json:"requested_by,omitempty"`
}

// TaskQueue abstracts how run requests reach the orchestrator.
type TaskQueue interface {
	// Enqueue submits a run request
	Enqueue(task *AutoReplyTask) error
	// IsAsync returns true when tasks are handed to a separate worker
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue picks the Redis-backed queue when available and falls back
// to in-process execution otherwise.
func InitTaskQueue(cfg *config.Config) TaskQueue {
	taskQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Infof("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalTaskQueue = NewSyncQueue()
			} else {
				logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalTaskQueue = queue
			}
		} else {
			logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
			globalTaskQueue = NewSyncQueue()
		}
	})
	return globalTaskQueue
}

func GetTaskQueue() TaskQueue {
	return globalTaskQueue
}

// AsyncQueue hands run requests to asynq workers via Redis.
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// verify Redis is actually reachable before committing to async mode
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) Enqueue(task *AutoReplyTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeAutoReply, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(2),
	)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Run request enqueued: id=%s, trigger=%s", info.ID, task.Trigger)
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue runs the orchestrator in-process when Redis is not configured.
type SyncQueue struct {
	processor func(context.Context, *AutoReplyTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function invoked for each run request.
func (q *SyncQueue) SetProcessor(processor func(context.Context, *AutoReplyTask) error) {
	q.processor = processor
}

// Enqueue kicks off the run in a goroutine so the HTTP trigger returns
// immediately.
func (q *SyncQueue) Enqueue(task *AutoReplyTask) error {
	if q.processor == nil {
		logger.Infof("[SyncQueue] Warning: no processor set, run request dropped")
		return nil
	}

	go func() {
		ctx := context.Background()
		if err := q.processor(ctx, task); err != nil {
			logger.Infof("[SyncQueue] Run failed: %v", err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
