package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"attendance_bot/internal/app"
	"attendance_bot/internal/domain/notify"
	"attendance_bot/internal/domain/schedule"
	"attendance_bot/internal/infra/clock"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	// staleLockAge bounds how long the running flag may be held before a new
	// tick reclaims it from an abandoned predecessor.
	staleLockAge = 5 * time.Minute
	// tickTimeout bounds a whole tick, jitter included. It must stay below
	// staleLockAge so a hung tick expires its own context before the lock is
	// reclaimed.
	tickTimeout = 4 * time.Minute
)

// Evaluator runs one attendance submission attempt for the given active
// session (nil for the opportunistic out-of-schedule check).
type Evaluator interface {
	Evaluate(ctx context.Context, active *schedule.Session) (app.EvalResult, error)
}

// ScheduleSource refetches the schedule and yields today's snapshot.
type ScheduleSource interface {
	RefreshToday(ctx context.Context) ([]schedule.Session, error)
}

// AttendanceScheduler owns the two polling loops and all orchestration state.
// The coarse loop sweeps business hours on weekdays; while a session is active
// and unconfirmed it enables a fine-grained 5-minute loop that owns the actual
// submission attempts. Ticks from both loops are serialized by one running
// flag: a firing that finds it held is dropped, not queued.
type AttendanceScheduler struct {
	cronEngine *cron.Cron
	evaluator  Evaluator
	schedules  ScheduleSource
	clk        *clock.Clock
	notifier   notify.Notifier
	logger     *logrus.Entry

	cronSpecCoarse string
	cronSpecFine   string
	jitterMin      time.Duration
	jitterMax      time.Duration

	// test seams
	sleep     func(time.Duration)
	randFloat func() float64

	mu           sync.Mutex // guards the running handoff only
	running      bool
	runningSince time.Time

	// Orchestration state below is mutated only while running is held.
	todayID             string
	scheduleToday       []schedule.Session
	done                bool
	lastConfirmedNumber string

	fineEnabled bool
	fineEntry   cron.EntryID
}

func NewAttendanceScheduler(
	evaluator Evaluator,
	schedules ScheduleSource,
	clk *clock.Clock,
	notifier notify.Notifier,
	logger *logrus.Entry,
	cronSpecCoarse string, // e.g., "*/15 7-17 * * 1-5"
	cronSpecFine string, // e.g., "*/5 * * * *"
	jitterMin time.Duration,
	jitterMax time.Duration,
) *AttendanceScheduler {
	return &AttendanceScheduler{
		cronEngine:     cron.New(cron.WithLocation(clk.Location())),
		evaluator:      evaluator,
		schedules:      schedules,
		clk:            clk,
		notifier:       notifier,
		logger:         logger,
		cronSpecCoarse: cronSpecCoarse,
		cronSpecFine:   cronSpecFine,
		jitterMin:      jitterMin,
		jitterMax:      jitterMax,
		sleep:          time.Sleep,
		randFloat:      rand.Float64,
	}
}

// Bootstrap loads the initial schedule snapshot and today marker. A failure is
// not fatal: the first coarse tick that sees a mismatched today marker retries
// the refresh.
func (s *AttendanceScheduler) Bootstrap(ctx context.Context) {
	today, err := s.schedules.RefreshToday(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Initial schedule load failed; first tick will retry")
		return
	}
	s.scheduleToday = today
	s.todayID = s.clk.DateString()
}

// Start registers the coarse job, runs one immediate kick-off tick and starts
// the cron engine.
func (s *AttendanceScheduler) Start() {
	s.logger.Info("Starting attendance scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecCoarse, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()
		s.coarseTick(ctx)
	})
	if err != nil {
		s.logger.Fatalf("FATAL: Could not add coarse tick cron job: %v", err)
	}

	kickoffCtx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	s.coarseTick(kickoffCtx)
	cancel()

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"coarse": s.cronSpecCoarse,
		"fine":   s.cronSpecFine,
	}).Info("Attendance scheduler started")
}

// Stop halts both timer sources. An in-flight tick is waited for, not
// cancelled.
func (s *AttendanceScheduler) Stop() {
	s.logger.Info("Stopping attendance scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Attendance scheduler stopped")
}
