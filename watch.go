package meteosat

import (
	"context"
	"time"

	"github.com/jusethCS/meteosat/log"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Fetcher downloads the product slice belonging to one date.
type Fetcher func(ctx context.Context, date time.Time) error

// Watcher keeps a near real time product current by fetching the slice at
// now minus the publication lag on a fixed interval.
type Watcher struct {
	sched    *gocron.Scheduler
	fetch    Fetcher
	interval time.Duration
	lag      time.Duration
	timeout  time.Duration
	logTag   string
}

func NewWatcher(fetch Fetcher, interval, lag time.Duration) *Watcher {
	return &Watcher{
		sched:    gocron.NewScheduler(time.UTC),
		fetch:    fetch,
		interval: interval,
		lag:      lag,
		timeout:  20 * time.Minute,
		logTag:   "Watcher:",
	}
}

// Start schedules the periodic fetch and runs the scheduler in the
// background.
func (w *Watcher) Start() (err error) {
	mins := int(w.interval.Minutes())
	if mins <= 0 {
		mins = 30
	}
	if _, err = w.sched.Every(mins).Minutes().Do(w.run); err != nil {
		return
	}
	w.sched.StartAsync()
	log.Info(w.logTag+"started", zap.Int("intervalMinutes", mins), zap.Duration("lag", w.lag))
	return
}

func (w *Watcher) run() {
	date := time.Now().UTC().Add(-w.lag)
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.fetch(ctx, date); err != nil {
		log.Warn(w.logTag+"fetch failed", zap.Time("date", date), zap.Error(err))
		return
	}
	log.Info(w.logTag+"fetched", zap.Time("date", date))
}

func (w *Watcher) Stop() {
	w.sched.Stop()
}
