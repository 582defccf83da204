// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler runs the idle-session sweep on a fixed cadence. The
// reference eviction policy is one hour both for the idle horizon and the
// sweep interval.
func (st *SessionStore) StartSweepScheduler(maxIdle, cadence time.Duration) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("⚠️  Failed to start session sweep scheduler: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(cadence),
		gocron.NewTask(func() {
			st.SweepExpired(maxIdle)
		}),
	)
	if err != nil {
		log.Printf("⚠️  Failed to schedule session sweep: %v", err)
	}
}
