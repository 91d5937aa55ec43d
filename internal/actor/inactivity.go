package actor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

// DefaultInactivityPeriod is how long a session may stay idle before the
// alarm deletes it.
const DefaultInactivityPeriod = 30 * 24 * time.Hour

// alarmRetryDelay is used when an alarm handler fails.
const alarmRetryDelay = time.Minute

// touch records activity on the session, persists it, then pushes the
// inactivity alarm a full period into the future. If the reschedule fails
// the previously pending alarm still fires and re-derives the deadline from
// lastActivityAt, so the record is written first.
func (s *Scheduler) touch(ctx context.Context, session *domain.SchedulingSession) error {
	now := s.now().UTC()
	if now.After(session.LastActivityAt) {
		session.LastActivityAt = now
	}
	if err := s.storage.Put(ctx, sessionKey, session); err != nil {
		return err
	}
	return s.scheduleCleanup(ctx, s.inactivity)
}

// scheduleCleanup replaces the pending alarm with one firing after delay.
func (s *Scheduler) scheduleCleanup(ctx context.Context, delay time.Duration) error {
	if err := s.storage.SetAlarm(ctx, s.now().UTC().Add(delay)); err != nil {
		return fmt.Errorf("failed to schedule cleanup alarm: %w", err)
	}
	return nil
}

// Alarm is the inactivity check run when the instance's alarm fires. A
// session idle for at least the inactivity period is deleted; otherwise the
// alarm is rescheduled for the time remaining until the threshold.
func (s *Scheduler) Alarm(ctx context.Context) error {
	session, err := s.load(ctx)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	idle := s.now().Sub(session.LastActivityAt)
	if idle >= s.inactivity {
		if err := s.storage.Delete(ctx, sessionKey); err != nil {
			return err
		}
		if err := s.storage.DeleteAlarm(ctx); err != nil {
			return fmt.Errorf("failed to clear alarm: %w", err)
		}
		log.Printf("Deleted inactive session %s (last activity %.1f days ago)", session.SessionCode, idle.Hours()/24)
		return nil
	}

	remaining := s.inactivity - idle
	if err := s.scheduleCleanup(ctx, remaining); err != nil {
		return err
	}
	log.Printf("Session %s still active, next inactivity check in %s", session.SessionCode, remaining.Round(time.Second))
	return nil
}

// fireAlarm consumes the pending alarm and runs Alarm if it is due. A request
// may have pushed the alarm back between the sweep and this call; then it
// reports false and leaves the alarm alone.
func (s *Scheduler) fireAlarm(ctx context.Context) (bool, error) {
	at, err := s.storage.GetAlarm(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read alarm: %w", err)
	}
	if at == nil || at.After(s.now()) {
		return false, nil
	}
	if err := s.storage.DeleteAlarm(ctx); err != nil {
		return false, fmt.Errorf("failed to consume alarm: %w", err)
	}
	if err := s.Alarm(ctx); err != nil {
		// Re-arm so a transient storage failure does not strand the session.
		if rerr := s.scheduleCleanup(ctx, alarmRetryDelay); rerr != nil {
			log.Printf("ERROR: failed to re-arm alarm for session %s: %v", s.Code(), rerr)
		}
		return true, err
	}
	return true, nil
}
