package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/dasdy/calcskin/model"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const notAvailable = "n/a"

var (
	colorWash = color.RGBA{127, 127, 127, 127}
	colorText = color.RGBA{0, 0, 0, 255}
)

var keyNames = map[string]string{
	"ESCAPE":      "Esc",
	"\n":          "Enter",
	"DEL":         "⌫",
	"DPAD_UP":     "↑",
	"DPAD_DOWN":   "↓",
	"DPAD_LEFT":   "←",
	"DPAD_RIGHT":  "→",
	"INSERT":      "Ins",
	"FORWARD_DEL": "⌦",
	"PAGE_UP":     "PgUp",
	"PAGE_DOWN":   "PgDn",
}

// The overlay font only has ASCII glyphs.
var asciiNames = strings.NewReplacer(
	"⌫", "Bksp",
	"⌦", "Del",
	"↑", "Up",
	"↓", "Down",
	"←", "Left",
	"→", "Right",
	"⌥", "Alt-",
	"⇧", "Shift-",
)

// Shortcut lists the keyboard keys bound to one skin key.
type Shortcut struct {
	// Rect is the sensitive rect of the skin key.
	Rect      model.Rect
	Unshifted []string
	Shifted   []string
}

// Text is the shifted line above the unshifted line.
func (s Shortcut) Text() string {
	return joinOr(s.Shifted) + "\n" + joinOr(s.Unshifted)
}

func joinOr(labels []string) string {
	if len(labels) == 0 {
		return notAvailable
	}

	return strings.Join(labels, " ")
}

// EntryText is the label of a keymap entry as a user would type it, e.g. "^⇧↑" or "KpEnter".
func EntryText(e model.KeymapEntry) string {
	k := e.KeyChar
	numpad := e.Numpad

	if rest, ok := strings.CutPrefix(k, "NUMPAD_"); ok {
		k = rest
		numpad = true
	}

	c, ok := keyNames[k]
	if !ok {
		c = k
	}

	if numpad {
		c = "Kp" + c
	}

	printable := !e.Ctrl && !e.Alt && len(c) == 1 && c[0] >= 33 && c[0] <= 126

	var mods strings.Builder

	if e.Ctrl {
		mods.WriteString("^")
	}

	if e.Alt {
		mods.WriteString("⌥")
	}

	if e.Shift && !printable {
		mods.WriteString("⇧")
	}

	return mods.String() + c
}

// Shortcuts collects the keyboard shortcuts of every skin key from the skin's own keymap
// and then the global one. Entries that need the calculator's shift held, or that run more
// than one key, are left out. A label already shown is not repeated.
func Shortcuts(s *model.Skin, global model.Keymap) []Shortcut {
	var list []Shortcut

	seen := make(map[string]bool)

	for _, km := range []model.Keymap{s.Keymap, global} {
		for i := len(km) - 1; i >= 0; i-- {
			e := km[i]
			if e.CShift {
				continue
			}

			var (
				code    int
				shifted bool
			)

			switch {
			case len(e.Macro) == 1:
				code = int(e.Macro[0])
			case len(e.Macro) == 2 && e.Macro[0] == model.KeyShift:
				code = int(e.Macro[1])
				shifted = true
			default:
				continue
			}

			key, keyShifted, ok := findKeyByCode(s, code)
			if !ok {
				continue
			}

			shifted = shifted || keyShifted

			text := EntryText(e)
			if seen[text] {
				continue
			}

			seen[text] = true

			list = addShortcut(list, key.Sensitive, text, shifted)
		}
	}

	return list
}

func findKeyByCode(s *model.Skin, code int) (model.KeyRegion, bool, bool) {
	for _, k := range s.Keys {
		if k.Code == code {
			return k, false, true
		}

		if k.ShiftedCode == code {
			return k, true, true
		}
	}

	return model.KeyRegion{}, false, false
}

// addShortcut prepends text, so labels end up in keymap order.
func addShortcut(list []Shortcut, r model.Rect, text string, shifted bool) []Shortcut {
	i := 0
	for ; i < len(list); i++ {
		if list[i].Rect == r {
			break
		}
	}

	if i == len(list) {
		list = append(list, Shortcut{Rect: r})
	}

	if shifted {
		list[i].Shifted = append([]string{text}, list[i].Shifted...)
	} else {
		list[i].Unshifted = append([]string{text}, list[i].Unshifted...)
	}

	return list
}

// DrawShortcuts washes out the skin and writes each shortcut over its key.
func DrawShortcuts(dst draw.Image, shortcuts []Shortcut) {
	wash := image.NewUniform(colorWash)
	draw.Draw(dst, dst.Bounds(), wash, image.Point{}, draw.Over)

	face := basicfont.Face7x13

	for _, s := range shortcuts {
		r := s.Rect.ImageRect()
		draw.Draw(dst, r.Inset(2), wash, image.Point{}, draw.Over)

		drawTextInRect(dst, asciiNames.Replace(s.Text()), r.Inset(4), face)
	}
}

// drawTextInRect writes text line by line, breaking lines at spaces to fit the rect width.
// Text that does not fit is cut off.
func drawTextInRect(dst draw.Image, text string, r image.Rectangle, face font.Face) {
	if r.Empty() {
		return
	}

	clipped, ok := dst.(interface {
		draw.Image
		SubImage(image.Rectangle) image.Image
	})
	if ok {
		if sub, ok := clipped.SubImage(r).(draw.Image); ok {
			dst = sub
		}
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorText),
		Face: face,
	}

	y := r.Min.Y + metrics.Ascent.Ceil()

	for _, line := range wrapLines(text, r.Dx(), face) {
		if y-metrics.Ascent.Ceil() >= r.Max.Y {
			break
		}

		d.Dot = fixed.Point26_6{X: fixed.I(r.Min.X), Y: fixed.I(y)}
		d.DrawString(line)
		y += lineHeight
	}
}

func wrapLines(text string, width int, face font.Face) []string {
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		current := ""

		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}

			if current != "" && font.MeasureString(face, candidate).Ceil() > width {
				lines = append(lines, current)
				current = word

				continue
			}

			current = candidate
		}

		lines = append(lines, current)
	}

	return lines
}
