package keymap_test

type MockMenuState struct {
	alpha   bool
	hex     bool
	special map[int]int
	asked   []int
}

func (m *MockMenuState) AlphaMenu() bool {
	return m.alpha
}

func (m *MockMenuState) HexMenu() bool {
	return m.hex
}

func (m *MockMenuState) SpecialMenuKey(which int) int {
	m.asked = append(m.asked, which)

	return m.special[which]
}
