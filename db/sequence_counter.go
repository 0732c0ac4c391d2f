package db

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/dasdy/calcskin/model"
)

// SequenceCounter counts key codes pressed directly after each other.
type SequenceCounter struct {
	lastCode  int
	hasLast   bool
	counts    map[int]map[int]int
	stateLock sync.RWMutex
}

func newSequenceCounter() *SequenceCounter {
	return &SequenceCounter{
		counts: make(map[int]map[int]int),
	}
}

func NewSequenceCounterFromDB(storage Storage) (*SequenceCounter, error) {
	items, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	counter := newSequenceCounter()
	counter.initCounter(items)

	return counter, nil
}

func (sc *SequenceCounter) HandleKeyNow(event *model.KeyEvent, verbose bool) {
	sc.stateLock.Lock()
	defer sc.stateLock.Unlock()

	sc.handleKey(event.Code, event.Pressed, verbose)
}

// GatherPairs returns the pairs that code is part of, most frequent first.
func (sc *SequenceCounter) GatherPairs(code int) []model.KeyPair {
	sc.stateLock.RLock()
	defer sc.stateLock.RUnlock()

	result := make([]model.KeyPair, 0)

	for prev, nexts := range sc.counts {
		for next, count := range nexts {
			if prev == code || next == code {
				result = append(result, model.KeyPair{Prev: prev, Next: next, Count: count})
			}
		}
	}

	slices.SortFunc(result, func(a, b model.KeyPair) int {
		return cmp.Or(
			-cmp.Compare(a.Count, b.Count),
			cmp.Compare(a.Prev, b.Prev),
			cmp.Compare(a.Next, b.Next),
		)
	})

	return result
}

func (sc *SequenceCounter) initCounter(items iter.Seq[model.KeyEventWithTimestamp]) {
	sc.stateLock.Lock()
	defer sc.stateLock.Unlock()

	for item := range items {
		sc.handleKey(item.Code, item.Pressed, false)
	}
}

func (sc *SequenceCounter) handleKey(code int, pressed, verbose bool) {
	// releases carry no ordering information
	if !pressed {
		return
	}

	if sc.hasLast {
		if _, exists := sc.counts[sc.lastCode]; !exists {
			sc.counts[sc.lastCode] = make(map[int]int)
		}

		if verbose {
			slog.Info("key press sequence",
				"current", code,
				"previous", sc.lastCode)
		}

		sc.counts[sc.lastCode][code]++
	}

	sc.lastCode = code
	sc.hasLast = true
}
