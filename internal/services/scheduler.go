package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/replydeck/backend/internal/models"
	"github.com/replydeck/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	schedulerLockName = "auto_reply_run"
	schedulerLockTTL  = 10 * time.Minute
)

// SchedulerService fires auto-reply runs on a configurable interval. The
// interval and the enable flag live in system config so they can be changed
// at runtime; Reschedule applies them without a restart.
type SchedulerService struct {
	db             *gorm.DB
	configService  *SystemConfigService
	queue          TaskQueue
	cronScheduler  *cron.Cron
	currentEntryID cron.EntryID
}

func NewSchedulerService(db *gorm.DB, queue TaskQueue) *SchedulerService {
	return &SchedulerService{
		db:            db,
		configService: NewSystemConfigService(db),
		queue:         queue,
	}
}

func (s *SchedulerService) Start() {
	s.cronScheduler = cron.New()
	s.updateSchedule()
	s.cronScheduler.Start()
	logger.Infof("[Scheduler] Started")
}

func (s *SchedulerService) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// Reschedule re-reads the interval config and replaces the cron entry.
func (s *SchedulerService) Reschedule() {
	if s.cronScheduler == nil {
		return
	}
	s.updateSchedule()
}

func (s *SchedulerService) updateSchedule() {
	if s.currentEntryID != 0 {
		s.cronScheduler.Remove(s.currentEntryID)
		s.currentEntryID = 0
	}

	interval := s.getIntervalMinutes()
	cronExpr := fmt.Sprintf("*/%d * * * *", interval)

	entryID, err := s.cronScheduler.AddFunc(cronExpr, s.fire)
	if err != nil {
		logger.Infof("[Scheduler] Failed to add cron job: %v", err)
		return
	}

	s.currentEntryID = entryID
	logger.Infof("[Scheduler] Auto-reply runs every %d minute(s) (cron: %s)", interval, cronExpr)
}

func (s *SchedulerService) getIntervalMinutes() int {
	val, err := strconv.Atoi(s.configService.GetWithDefault("auto_reply_interval_minutes", "5"))
	if err != nil || val < 1 || val > 59 {
		return 5
	}
	return val
}

func (s *SchedulerService) isEnabled() bool {
	return s.configService.GetWithDefault("auto_reply_scheduler_enabled", "true") == "true"
}

// fire enqueues one run, guarded by a database lock so multiple instances
// sharing the database do not double-fire the same tick.
func (s *SchedulerService) fire() {
	if !s.isEnabled() {
		return
	}

	lockKey := time.Now().Format("2006-01-02T15:04")
	if !s.acquireLock(lockKey) {
		logger.Infof("[Scheduler] Another instance holds the run lock, skipping tick")
		return
	}

	if err := s.queue.Enqueue(&AutoReplyTask{Trigger: TriggerCron}); err != nil {
		logger.Infof("[Scheduler] Failed to enqueue run: %v", err)
	}
}

// acquireLock claims the per-tick lock row. The unique index on
// (lock_name, lock_key) makes the insert race-safe across instances.
func (s *SchedulerService) acquireLock(lockKey string) bool {
	now := time.Now()
	s.db.Where("expires_at < ?", now).Delete(&models.SchedulerLock{})

	hostname, _ := os.Hostname()
	lock := models.SchedulerLock{
		LockName:  schedulerLockName,
		LockKey:   lockKey,
		LockedBy:  hostname,
		LockedAt:  now,
		ExpiresAt: now.Add(schedulerLockTTL),
	}
	return s.db.Create(&lock).Error == nil
}
