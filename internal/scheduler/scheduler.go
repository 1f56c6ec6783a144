package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/station"
)

// Prefetcher is the slice of the history fetcher the warmer needs.
type Prefetcher interface {
	Fetch(ctx context.Context, point station.Coordinate, ref time.Time) (history.Window, error)
}

// Warmer periodically refreshes the historical cache for every
// registered station coordinate, so interactive requests near a station
// hit warm data.
type Warmer struct {
	scheduler *gocron.Scheduler
	fetcher   Prefetcher
	registry  *station.Registry
	interval  time.Duration
}

// New creates a Warmer. An interval <= 0 disables it.
func New(registry *station.Registry, fetcher Prefetcher, interval time.Duration) *Warmer {
	return &Warmer{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		registry:  registry,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job.
func (w *Warmer) Start() error {
	if w.interval <= 0 {
		log.Println("history warmer disabled; skipping")
		return nil
	}

	minutes := int(w.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := w.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("history warmer: refreshing station windows")

		ref := time.Now().UTC().AddDate(0, 0, -1)

		var wg sync.WaitGroup
		for _, st := range w.registry.Stations() {
			st := st
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := w.fetcher.Fetch(ctx, st.Coordinate, ref); err != nil {
					log.Printf("history warmer: refresh failed for %s: %v", st.ID, err)
				}
			}()
		}
		wg.Wait()
		log.Println("history warmer: refresh complete")
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	return nil
}

// Stop cancels any scheduled jobs.
func (w *Warmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
