package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// janitor runs a cleanup function on a fixed interval until stopped
type janitor struct {
	stopCh   chan struct{}
	stopOnce sync.Once
}

// startJanitor starts the cleanup loop; a non-positive interval disables it
func startJanitor(interval time.Duration, logger *zap.Logger, cleanup func(context.Context) error) *janitor {
	j := &janitor{stopCh: make(chan struct{})}
	if interval > 0 {
		go j.run(interval, logger, cleanup)
	}
	return j
}

func (j *janitor) run(interval time.Duration, logger *zap.Logger, cleanup func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cleanup(context.Background()); err != nil {
				logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-j.stopCh:
			return
		}
	}
}

func (j *janitor) stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
}
