package interfaces

import "time"

type SchedulerInterface interface {
	Start()
	Stop()
	Wait()
	LastCycleAt() time.Time
	InFlight() bool
}
