package routes_test

import (
	"iter"

	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
	"github.com/dasdy/calcskin/web/routes"
)

// Skin key codes used by the test layout.
const (
	CodeA = 1
	CodeB = 2
	CodeC = 13
	CodeD = 28
)

// SimpleStorageMock is a simple manual mock implementation of the Storage interface
type SimpleStorageMock struct {
	ReturnStats []model.KeyUsage
	ReturnError error
	CallCount   int
}

func (m *SimpleStorageMock) GatherAll() ([]model.KeyUsage, error) {
	m.CallCount++

	return m.ReturnStats, m.ReturnError
}

func (m *SimpleStorageMock) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	return func(func(model.KeyEventWithTimestamp) bool) {}, nil
}

func (m *SimpleStorageMock) Close() {}

func (m *SimpleStorageMock) Store(*model.KeyEvent) error {
	return nil
}

// TrackerMock is a simple mock implementation of the sequence and source trackers.
type TrackerMock struct {
	ReturnPairs   []model.KeyPair
	ReturnSources map[model.EventSource]int
	CallCount     int
	LastCode      int
}

func (m *TrackerMock) GatherPairs(code int) []model.KeyPair {
	m.CallCount++
	m.LastCode = code

	return m.ReturnPairs
}

func (m *TrackerMock) Sources() map[model.EventSource]int {
	return m.ReturnSources
}

// createTestSkin creates four keys in a row; the third key also sends 41 shifted.
func createTestSkin() *model.Skin {
	keys := make([]model.KeyRegion, 0, 4)

	for i, code := range []int{CodeA, CodeB, CodeC, CodeD} {
		r := model.Rect{X: 10 + 50*i, Y: 60, Width: 40, Height: 40}
		k := model.KeyRegion{Code: code, Sensitive: r, Display: r, Source: model.Point{X: 300, Y: 0}}

		if code == CodeC {
			k.ShiftedCode = 41
		}

		keys = append(keys, k)
	}

	return &model.Skin{
		Base: model.Rect{Width: 240, Height: 120},
		Display: model.DisplayDescriptor{
			Location: model.Point{X: 10, Y: 10},
			Scale:    model.ScaleFactor{X: 1, Y: 1},
		},
		Keys: keys,
		Keymap: model.Keymap{
			{KeyChar: "a", Macro: []byte{CodeA}},
			{KeyChar: "ESCAPE", Macro: []byte{CodeB}},
		},
	}
}

// MockServerHandler helper struct for testing
type MockServerHandler struct {
	routes.ServerHandler
	MockStorage *SimpleStorageMock
	MockTracker *TrackerMock
}

func setupMockServerHandler() MockServerHandler {
	mockStorage := &SimpleStorageMock{}
	mockTracker := &TrackerMock{}
	s := createTestSkin()

	return MockServerHandler{
		ServerHandler: routes.ServerHandler{
			Storage:         mockStorage,
			Layout:          skin.New(s, nil),
			Keymap:          s.Keymap,
			SequenceTracker: mockTracker,
			SourceTracker:   mockTracker,
		},
		MockStorage: mockStorage,
		MockTracker: mockTracker,
	}
}
