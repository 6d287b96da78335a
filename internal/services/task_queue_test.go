package services

import (
	"context"
	"testing"
	"time"
)

func TestSyncQueueProcessesEnqueuedTask(t *testing.T) {
	q := NewSyncQueue()

	done := make(chan *AutoReplyTask, 1)
	q.SetProcessor(func(ctx context.Context, task *AutoReplyTask) error {
		done <- task
		return nil
	})

	if err := q.Enqueue(&AutoReplyTask{Trigger: TriggerManual, RequestedBy: 7}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	select {
	case task := <-done:
		if task.Trigger != TriggerManual || task.RequestedBy != 7 {
			t.Errorf("task = %+v", task)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not invoked")
	}
}

func TestSyncQueueWithoutProcessorDropsTask(t *testing.T) {
	q := NewSyncQueue()

	if err := q.Enqueue(&AutoReplyTask{Trigger: TriggerCron}); err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueueIsNotAsync(t *testing.T) {
	q := NewSyncQueue()
	if q.IsAsync() {
		t.Error("sync queue must report IsAsync() = false")
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}
