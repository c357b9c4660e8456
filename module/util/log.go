package util

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// LogProgressFunc adds to the progress of a task. It can be called
// concurrently. Non-positive additions are ignored.
type LogProgressFunc func(add int)

type LogProgressConfig struct {
	// Message prefixes every progress line.
	Message string
	// Total is the amount of progress at which the task is complete.
	Total int
	// Ticks is the number of evenly spaced points between 0 and Total at
	// which progress is logged. Progress 0 is always logged.
	Ticks int
	// NoDataLogDuration forces a progress line when progress is added after
	// this long without any addition, even between two ticks.
	NoDataLogDuration time.Duration
}

// DefaultLogProgressConfig logs every 10% of the progress, plus whenever
// progress resumes after a minute without any.
func DefaultLogProgressConfig(message string, total int) LogProgressConfig {
	return LogProgressConfig{
		Message:           message,
		Total:             total,
		Ticks:             10,
		NoDataLogDuration: time.Minute,
	}
}

// LogProgress logs the initial progress and returns the function used to add
// to it. An ETA is logged assuming the progress is linear in time.
func LogProgress(log zerolog.Logger, config LogProgressConfig) LogProgressFunc {
	start := time.Now()
	current := atomic.NewUint64(0)
	lastAdd := atomic.NewInt64(start.UnixMilli())

	total := uint64(0)
	if config.Total > 0 {
		total = uint64(config.Total)
	}
	ticks := uint64(1)
	if config.Ticks > 1 {
		ticks = uint64(config.Ticks)
	}
	// progress at which tick k is reached, rounded up
	tickAt := func(k uint64) uint64 {
		return (k*total + ticks - 1) / ticks
	}

	// guards nextTick and serializes log lines
	var mu sync.Mutex
	nextTick := uint64(1)

	logLine := func(progress uint64) {
		elapsed := time.Since(start)
		percentage := float64(100)
		if total > 0 {
			percentage = float64(progress) / float64(total) * 100
		}

		if progress >= total {
			log.Info().Msgf("%s progress %d/%d (%.1f%%) total time %s",
				config.Message, progress, total, percentage, elapsed.Round(time.Millisecond))
			return
		}

		eta := "unknown"
		if percentage > 0 {
			eta = time.Duration(float64(elapsed) / percentage * (100 - percentage)).Round(time.Second).String()
		}
		log.Info().Msgf("%s progress %d/%d (%.1f%%) elapsed: %s, eta %s",
			config.Message, progress, total, percentage, elapsed.Round(time.Second), eta)
	}

	logLine(0)

	return func(add int) {
		if add <= 0 {
			return
		}
		progress := current.Add(uint64(add))
		now := time.Now().UnixMilli()
		idle := now - lastAdd.Swap(now)

		mu.Lock()
		defer mu.Unlock()

		reached := false
		for nextTick <= ticks && progress >= tickAt(nextTick) {
			nextTick++
			reached = true
		}
		if reached || idle > config.NoDataLogDuration.Milliseconds() {
			logLine(progress)
		}
	}
}
