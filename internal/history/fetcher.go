package history

import (
	"context"
	"log"
	"time"

	"github.com/agroclima/prediction-service/internal/station"
)

// Fetcher retrieves historical windows, serving repeated queries for the
// same rounded coordinate and range from the cache.
type Fetcher struct {
	client *Client
	cache  *Cache
}

// NewFetcher wraps a Client with a cache.
func NewFetcher(client *Client, cache *Cache) *Fetcher {
	return &Fetcher{client: client, cache: cache}
}

// Fetch returns the observation window ending at ref for the coordinate.
func (f *Fetcher) Fetch(ctx context.Context, point station.Coordinate, ref time.Time) (Window, error) {
	start, end := windowRange(ref, f.client.windowDays)
	startStr := start.Format(dateLayout)
	endStr := end.Format(dateLayout)

	if win, ok := f.cache.Get(point, startStr, endStr); ok {
		log.Printf("DEBUG: history cache hit for (%.3f, %.3f) %s..%s", point.Latitude, point.Longitude, startStr, endStr)
		return win, nil
	}

	win, err := f.client.Fetch(ctx, point, ref)
	if err != nil {
		return Window{}, err
	}

	f.cache.Put(win)
	return win, nil
}
