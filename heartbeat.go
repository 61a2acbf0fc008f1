// file: heartbeat.go
package main

import (
	"context"
	"time"

	"zerosync-web/logger"
	"zerosync-web/metrics"
)

type visitorSweeper interface {
	Sweep(idle time.Duration) int
	ActiveVisitors() int
}

type connectionCounter interface {
	Count() int
}

// sweepInterval is how often idle visitors are checked for; never longer
// than the timeout itself.
func sweepInterval(timeout time.Duration) time.Duration {
	interval := time.Minute
	if timeout < interval {
		interval = timeout
	}
	if interval <= 0 {
		interval = time.Second
	}
	return interval
}

// CleanupRoutine forgets visitors idle longer than timeout and publishes the
// live gauges, until ctx is done.
func CleanupRoutine(ctx context.Context, visitors visitorSweeper, conns connectionCounter, publisher metrics.Publisher, timeout time.Duration) {
	ticker := time.NewTicker(sweepInterval(timeout))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info.Println("[CleanupRoutine] stopping")
			return
		case <-ticker.C:
			removed := visitors.Sweep(timeout)
			active := visitors.ActiveVisitors()
			open := conns.Count()
			logger.Debug.Printf("[CleanupRoutine] removed=%d active=%d websockets=%d", removed, active, open)
			metrics.PublishActiveVisitors(publisher, active)
			metrics.PublishWebsocketConnections(publisher, open)
		}
	}
}
