package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/macromind/macromind/app/database"
	"github.com/macromind/macromind/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler periodically checks whether a record exists for the current
// UTC date and enqueues a refresh when it does not. It replaces the
// external cron trigger for deployments that want the process to keep its
// own feed fresh; the HTTP generate endpoint stays the primary trigger.
type Scheduler struct {
	feedRepo  database.FeedRepository
	generator FeedGenerator
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(generator FeedGenerator, feedRepo database.FeedRepository, interval time.Duration) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		feedRepo:  feedRepo,
		generator: generator,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 16),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueIfStale()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueIfStale()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueIfStale() {
	today := feed.TodayUTC()

	record, err := s.feedRepo.GetRecordByDate(s.ctx, today)
	if err != nil {
		slog.Warn("Failed to check stored feed, skipping refresh", "date", today, "error", err)
		return
	}
	if record != nil {
		slog.Debug("Feed already generated for today", "date", today)
		return
	}

	task := NewRefreshFeedTask(today, s.generator)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue RefreshFeedTask", "date", today, "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "date", task.GetDate(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		time.Sleep(retryDelay)
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		default:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "error", retryErr)
			}
		}
	}()
}
