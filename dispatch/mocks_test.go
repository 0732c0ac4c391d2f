package dispatch_test

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dasdy/calcskin/dispatch"
	"github.com/dasdy/calcskin/model"
)

type MockEngine struct {
	lock    sync.Mutex
	menu    bool
	alpha   bool
	hex     bool
	special map[int]int
	// result is returned for every key except 0.
	result dispatch.KeyResult
	// repeats are returned by Repeat in order, then 0.
	repeats []int
	// runSteps is how many more times KeyDown(0) reports a running program.
	runSteps int
	calls    []string
}

func (m *MockEngine) log(call string) {
	m.calls = append(m.calls, call)
}

func (m *MockEngine) Calls() []string {
	m.lock.Lock()
	defer m.lock.Unlock()

	return slices.Clone(m.calls)
}

func (m *MockEngine) Count(call string) int {
	count := 0

	for _, c := range m.Calls() {
		if c == call {
			count++
		}
	}

	return count
}

func (m *MockEngine) Menu() bool      { return m.menu }
func (m *MockEngine) AlphaMenu() bool { return m.alpha }
func (m *MockEngine) HexMenu() bool   { return m.hex }

func (m *MockEngine) SpecialMenuKey(which int) int {
	return m.special[which]
}

func (m *MockEngine) KeyDown(code int) dispatch.KeyResult {
	m.lock.Lock()
	defer m.lock.Unlock()

	if code == 0 {
		m.log("run")

		running := m.runSteps > 0
		if running {
			m.runSteps--
		}

		return dispatch.KeyResult{Running: running}
	}

	m.log(fmt.Sprintf("down %d", code))

	return m.result
}

func (m *MockEngine) KeyDownCommand(name string, isText bool) dispatch.KeyResult {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.log(fmt.Sprintf("command %s %v", name, isText))

	return m.result
}

func (m *MockEngine) KeyUp() bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.log("up")

	return false
}

func (m *MockEngine) Repeat() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.log("repeat")

	if len(m.repeats) == 0 {
		return 0
	}

	r := m.repeats[0]
	m.repeats = m.repeats[1:]

	return r
}

func (m *MockEngine) KeyTimeout1() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.log("timeout1")
}

func (m *MockEngine) KeyTimeout2() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.log("timeout2")
}

type MockRepainter struct {
	lock  sync.Mutex
	rects []model.Rect
}

func (m *MockRepainter) Invalidate(r model.Rect) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.rects = append(m.rects, r)
}

func (m *MockRepainter) Rects() []model.Rect {
	m.lock.Lock()
	defer m.lock.Unlock()

	return slices.Clone(m.rects)
}

type MockJournal struct {
	events []model.KeyEvent
	err    error
}

func (m *MockJournal) Store(event *model.KeyEvent) error {
	m.events = append(m.events, *event)

	return m.err
}
