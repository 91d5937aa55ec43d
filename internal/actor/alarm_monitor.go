package actor

import (
	"context"
	"log"
	"time"
)

// alarmSweepBatch bounds the alarms delivered per sweep.
const alarmSweepBatch = 100

// RunAlarmMonitor delivers due alarms until ctx is cancelled.
func (n *Namespace) RunAlarmMonitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	n.sweepAlarms(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.sweepAlarms(ctx)
		}
	}
}

// sweepAlarms runs the alarm of every instance whose deadline has passed,
// each inside that instance's critical section. It returns how many fired.
func (n *Namespace) sweepAlarms(ctx context.Context) int {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	due, err := n.store.ListDueAlarms(sweepCtx, n.opts.Now(), alarmSweepBatch)
	if err != nil {
		log.Printf("WARN: alarm sweep failed: %v", err)
		return 0
	}

	fired := 0
	for _, name := range due {
		err := n.Do(sweepCtx, name, func(s *Scheduler) error {
			ok, err := s.fireAlarm(sweepCtx)
			if ok {
				fired++
			}
			return err
		})
		if err != nil {
			log.Printf("WARN: alarm for session %s failed: %v", name, err)
		}
	}
	return fired
}
