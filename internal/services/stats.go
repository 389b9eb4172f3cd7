package services

import "sync/atomic"

// Stats counts pipeline outcomes across all jobs
type Stats struct {
	started   int64
	succeeded int64
	rejected  int64
	failed    int64
}

// StatsSnapshot is a point-in-time copy of the counters
type StatsSnapshot struct {
	Started   int64 `json:"started"`
	Succeeded int64 `json:"succeeded"`
	Rejected  int64 `json:"rejected"`
	Failed    int64 `json:"failed"`
	InFlight  int64 `json:"in_flight"`
}

func (s *Stats) jobStarted()   { atomic.AddInt64(&s.started, 1) }
func (s *Stats) jobSucceeded() { atomic.AddInt64(&s.succeeded, 1) }
func (s *Stats) jobRejected()  { atomic.AddInt64(&s.rejected, 1) }
func (s *Stats) jobFailed()    { atomic.AddInt64(&s.failed, 1) }

// Snapshot returns the current counters
func (s *Stats) Snapshot() StatsSnapshot {
	started := atomic.LoadInt64(&s.started)
	succeeded := atomic.LoadInt64(&s.succeeded)
	rejected := atomic.LoadInt64(&s.rejected)
	failed := atomic.LoadInt64(&s.failed)

	return StatsSnapshot{
		Started:   started,
		Succeeded: succeeded,
		Rejected:  rejected,
		Failed:    failed,
		InFlight:  started - succeeded - rejected - failed,
	}
}
