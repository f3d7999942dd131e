package scheduler

import (
	"context"
	"fmt"
	"time"

	"attendance_bot/internal/app"
	"attendance_bot/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// beginTick claims the running flag. A firing that finds it held is dropped,
// unless the holder has exceeded staleLockAge, in which case the flag is
// reclaimed and this tick proceeds in its place.
func (s *AttendanceScheduler) beginTick(log *logrus.Entry) bool {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		age := now.Sub(s.runningSince)
		if age <= staleLockAge {
			log.WithField("held_for", age.Round(time.Millisecond)).Debug("Tick skipped; previous tick still running")
			return false
		}
		log.WithField("held_for", age.Round(time.Second)).Warn("Running flag held beyond stale bound; reclaiming from abandoned tick")
	}

	s.running = true
	s.runningSince = now
	return true
}

func (s *AttendanceScheduler) endTick() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// coarseTick is the business-hours sweep: day-rollover handling, active
// session detection, fine-polling toggling, and the opportunistic check when
// no session is running. It never propagates a failure; every exit path
// releases the running flag.
func (s *AttendanceScheduler) coarseTick(ctx context.Context) {
	log := s.logger.WithFields(logrus.Fields{"tick": "coarse", "tick_id": uuid.NewString()})
	if !s.beginTick(log) {
		return
	}
	started := time.Now()
	defer func() {
		s.endTick()
		log.WithField("elapsed", time.Since(started).Round(time.Millisecond)).Debug("Tick finished")
	}()

	currentDate := s.clk.DateString()
	if s.todayID != currentDate {
		log.WithField("date", currentDate).Info("New day detected; refreshing schedule")
		today, err := s.schedules.RefreshToday(ctx)
		if err != nil {
			// todayID stays stale so the next coarse tick retries the refresh.
			log.WithError(err).Error("Schedule refresh failed")
			return
		}
		s.scheduleToday = today
		s.todayID = currentDate
		s.done = false
		s.lastConfirmedNumber = ""
	}

	now := s.clk.ClockString()
	active := schedule.ActiveAt(s.scheduleToday, now)

	if active != nil {
		if s.lastConfirmedNumber != "" && s.lastConfirmedNumber != active.Number {
			log.WithFields(logrus.Fields{
				"previous": s.lastConfirmedNumber,
				"current":  active.Number,
			}).Info("Active session changed; attendance pending again")
			s.done = false
		}
		if s.done {
			log.Debug("Attendance already confirmed for the active session")
			return
		}
		log.WithFields(logrus.Fields{
			"course": active.CourseName,
			"start":  active.StartTime,
			"end":    active.EndTime,
		}).Info("Session in progress")
		s.enableFinePolling(log)
		return
	}

	s.disableFinePolling(log)

	// Some sessions open their window outside the scheduled slot; check the
	// notification feed anyway.
	log.Debug("No active session; running opportunistic check")
	res, err := s.evaluator.Evaluate(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Opportunistic evaluation failed")
		return
	}
	if res.Confirmed {
		s.done = true
		log.WithFields(logrus.Fields{"reason": res.Reason, "course": res.Course}).Info("Attendance confirmed outside scheduled hours")
		s.notifyConfirmed(res, log)
		return
	}
	log.WithField("reason", res.Reason).Debug("Nothing to submit")
}

// fineTick fires every five minutes while a session is active and
// unconfirmed. It waits a randomized jitter delay before touching the portal
// so a fleet of bots does not hit it in lockstep.
func (s *AttendanceScheduler) fineTick(ctx context.Context) {
	log := s.logger.WithFields(logrus.Fields{"tick": "fine", "tick_id": uuid.NewString()})
	if !s.beginTick(log) {
		return
	}
	started := time.Now()
	defer func() {
		s.endTick()
		log.WithField("elapsed", time.Since(started).Round(time.Millisecond)).Debug("Tick finished")
	}()

	active := schedule.ActiveAt(s.scheduleToday, s.clk.ClockString())
	if active == nil {
		log.Info("Session ended; disabling fine-grained polling")
		s.done = false
		s.disableFinePolling(log)
		return
	}

	delay := s.jitterDelay()
	log.WithField("delay", delay.Round(time.Millisecond)).Debug("Jitter delay before portal call")
	s.sleep(delay)

	res, err := s.evaluator.Evaluate(ctx, active)
	if err != nil {
		log.WithError(err).Error("Evaluation failed; will retry on next firing")
		return
	}
	if res.Confirmed {
		s.done = true
		s.lastConfirmedNumber = active.Number
		s.disableFinePolling(log)
		log.WithFields(logrus.Fields{"reason": res.Reason, "course": res.Course}).Info("Attendance confirmed")
		s.notifyConfirmed(res, log)
		return
	}
	log.WithField("reason", res.Reason).Info("Not confirmed yet; will retry on next firing")
}

// enableFinePolling registers the fine tick job. Idempotent.
func (s *AttendanceScheduler) enableFinePolling(log *logrus.Entry) {
	if s.fineEnabled {
		return
	}
	id, err := s.cronEngine.AddFunc(s.cronSpecFine, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()
		s.fineTick(ctx)
	})
	if err != nil {
		log.WithError(err).Error("Could not schedule fine-grained polling")
		return
	}
	s.fineEntry = id
	s.fineEnabled = true
	log.Info("Fine-grained polling ON")
}

// disableFinePolling removes the fine tick job. Idempotent.
func (s *AttendanceScheduler) disableFinePolling(log *logrus.Entry) {
	if !s.fineEnabled {
		return
	}
	s.cronEngine.Remove(s.fineEntry)
	s.fineEnabled = false
	log.Info("Fine-grained polling OFF")
}

// jitterDelay draws a duration uniformly from [jitterMin, jitterMax).
func (s *AttendanceScheduler) jitterDelay() time.Duration {
	spread := s.jitterMax - s.jitterMin
	return s.jitterMin + time.Duration(s.randFloat()*float64(spread))
}

func (s *AttendanceScheduler) notifyConfirmed(res app.EvalResult, log *logrus.Entry) {
	var text string
	switch res.Reason {
	case app.ReasonAlreadySubmitted:
		text = fmt.Sprintf("Attendance for %s was already on record today.", res.Course)
	default:
		text = fmt.Sprintf("Attendance submitted for %s.", res.Course)
	}
	if err := s.notifier.Notify(text); err != nil {
		log.WithError(err).Warn("Operator notification failed")
	}
}
