package db

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dasdy/calcskin/model"
	"github.com/schollz/progressbar/v3"
)

// staleAfter is how long a press may go without its release and still count.
const staleAfter = 10 * time.Second

type usageKey struct {
	code   int
	region int
}

type UsageCounter struct {
	counts    map[usageKey]int
	sources   map[model.EventSource]int
	held      map[usageKey]time.Time
	ready     chan struct{}
	stateLock sync.RWMutex
}

func newUsageCounter() *UsageCounter {
	return &UsageCounter{
		counts:  make(map[usageKey]int),
		sources: make(map[model.EventSource]int),
		held:    make(map[usageKey]time.Time),
		ready:   make(chan struct{}),
	}
}

// NewUsageCounterFromDB counts the journal history in the background. Ready is closed once
// the history has been read.
func NewUsageCounterFromDB(storage Storage, showProgress bool) (*UsageCounter, error) {
	items, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	counter := newUsageCounter()

	go func() {
		defer close(counter.ready)

		counter.initCounter(items, showProgress)
	}()

	return counter, nil
}

func (c *UsageCounter) Ready() <-chan struct{} {
	return c.ready
}

func (c *UsageCounter) HandleKeyNow(event *model.KeyEvent, verbose bool) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	c.handleKey(model.KeyEventWithTimestamp{
		Code:      event.Code,
		Region:    event.Region,
		Source:    event.Source,
		Pressed:   event.Pressed,
		Timestamp: time.Now(),
	}, verbose)
}

// Usage returns the counts ordered by count, highest first.
func (c *UsageCounter) Usage() []model.KeyUsage {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	result := make([]model.KeyUsage, 0, len(c.counts))
	for k, v := range c.counts {
		result = append(result, model.KeyUsage{Code: k.code, Region: k.region, Count: v})
	}

	slices.SortFunc(result, func(a, b model.KeyUsage) int {
		return cmp.Or(
			-cmp.Compare(a.Count, b.Count),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Region, b.Region),
		)
	})

	return result
}

// RegionTotal is the number of keystrokes through one skin region over all codes.
func (c *UsageCounter) RegionTotal(region int) int {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	total := 0

	for k, v := range c.counts {
		if k.region == region {
			total += v
		}
	}

	return total
}

func (c *UsageCounter) Sources() map[model.EventSource]int {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	result := make(map[model.EventSource]int, len(c.sources))
	for k, v := range c.sources {
		result[k] = v
	}

	return result
}

func (c *UsageCounter) handleKey(event model.KeyEventWithTimestamp, verbose bool) {
	key := usageKey{code: event.Code, region: event.Region}

	if event.Pressed {
		c.held[key] = event.Timestamp

		return
	}

	pressedAt, ok := c.held[key]
	if !ok {
		return
	}

	delete(c.held, key)

	if event.Timestamp.Sub(pressedAt) > staleAfter {
		if verbose {
			slog.Info("ignoring stale key",
				"code", event.Code,
				"staleness", event.Timestamp.Sub(pressedAt))
		}

		return
	}

	c.counts[key]++
	c.sources[event.Source]++

	if verbose {
		slog.Info("key usage",
			"code", event.Code,
			"region", event.Region,
			"count", c.counts[key])
	}
}

func (c *UsageCounter) initCounter(items iter.Seq[model.KeyEventWithTimestamp], showProgress bool) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(-1, "Scanning history...")
	}

	for item := range items {
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Error("could not update progress bar", "error", err)
			}
		}

		c.handleKey(item, false)
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			slog.Error("could not finish progress bar", "error", err)
		}
	}
}
