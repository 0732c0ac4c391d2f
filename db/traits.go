package db

import (
	"iter"

	"github.com/dasdy/calcskin/model"
)

// Tracker keeps running statistics over the keystroke journal.
type Tracker interface {
	HandleKeyNow(event *model.KeyEvent, verbose bool)
}

type Storage interface {
	Store(event *model.KeyEvent) error
	GatherAll() ([]model.KeyUsage, error)
	AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error)
	Close()
}
