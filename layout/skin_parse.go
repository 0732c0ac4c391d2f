package layout

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dasdy/calcskin/model"
)

var ErrMalformedSkin = errors.New("malformed skin")

const maxLineLength = 64 * 1024

// Prefixes of embedded keymap lines. "droidkey:" is what existing skins use.
var embeddedKeymapPrefixes = []string{"droidkey:", "keymap:"}

type skinParser struct {
	skin       model.Skin
	hasBase    bool
	hasDisplay bool
	lineno     int
}

// ParseSkin reads a skin description. Malformed directives are skipped; only an
// unreadable source or a missing skin:/display: directive fails the parse.
func ParseSkin(r io.Reader) (*model.Skin, error) {
	p := &skinParser{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	for scanner.Scan() {
		p.lineno++
		p.parseLine(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: could not read skin description: %w", ErrMalformedSkin, err)
	}

	if !p.hasBase {
		return nil, fmt.Errorf("%w: missing skin directive", ErrMalformedSkin)
	}

	if !p.hasDisplay {
		return nil, fmt.Errorf("%w: missing display directive", ErrMalformedSkin)
	}

	for i := range p.skin.Annunciators {
		p.skin.Annunciators[i].Index = i
	}

	return &p.skin, nil
}

func (p *skinParser) parseLine(line string) {
	line = strings.ReplaceAll(line, "\t", " ")
	if pound := strings.IndexByte(line, '#'); pound != -1 {
		line = line[:pound]
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	lc := strings.ToLower(line)

	var ok bool

	directive := ""

	switch {
	case strings.HasPrefix(lc, "skin:"):
		directive = "skin"
		ok = p.parseBase(line[len("skin:"):])
	case strings.HasPrefix(lc, "display:"):
		directive = "display"
		ok = p.parseDisplay(line[len("display:"):])
	case strings.HasPrefix(lc, "key:"):
		directive = "key"
		ok = p.parseKey(line[len("key:"):])
	case strings.HasPrefix(lc, "macro:"):
		directive = "macro"
		ok = p.parseMacro(line[len("macro:"):])
	case strings.HasPrefix(lc, "annunciator:"):
		directive = "annunciator"
		ok = p.parseAnnunciator(line[len("annunciator:"):])
	default:
		for _, prefix := range embeddedKeymapPrefixes {
			if strings.HasPrefix(lc, prefix) {
				directive = "keymap"
				ok = p.parseEmbeddedKeymap(line[len(prefix):])

				break
			}
		}

		if directive == "" {
			return
		}
	}

	if !ok {
		slog.Debug("Skipping malformed skin directive", "line", p.lineno, "directive", directive)
	}
}

// splitTokens splits on commas and spaces, dropping empty tokens.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func parseInts(tokens []string) ([]int, bool) {
	result := make([]int, len(tokens))

	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, false
		}

		result[i] = v
	}

	return result, true
}

func parseColor(tok string) (color.RGBA, bool) {
	v, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func (p *skinParser) parseBase(rest string) bool {
	tokens := splitTokens(rest)
	if len(tokens) < 4 {
		return false
	}

	v, ok := parseInts(tokens[:4])
	if !ok {
		return false
	}

	p.skin.Base = model.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	p.hasBase = true

	return true
}

func (p *skinParser) parseDisplay(rest string) bool {
	tokens := splitTokens(rest)
	if len(tokens) < 6 {
		return false
	}

	loc, ok := parseInts(tokens[:2])
	if !ok {
		return false
	}

	xscale, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return false
	}

	yscale, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return false
	}

	bg, ok := parseColor(tokens[4])
	if !ok {
		return false
	}

	fg, ok := parseColor(tokens[5])
	if !ok {
		return false
	}

	p.skin.Display = model.DisplayDescriptor{
		Location:   model.Point{X: loc[0], Y: loc[1]},
		Scale:      model.ScaleFactor{X: xscale, Y: yscale},
		Background: bg,
		Foreground: fg,
	}
	p.hasDisplay = true

	return true
}

func (p *skinParser) parseKey(rest string) bool {
	rest = strings.TrimSpace(rest)

	sp := strings.IndexByte(rest, ' ')
	if sp == -1 {
		return false
	}

	codeStr := rest[:sp]

	var code, shifted int

	var err error

	if comma := strings.IndexByte(codeStr, ','); comma == -1 {
		code, err = strconv.Atoi(codeStr)
		shifted = code
	} else {
		code, err = strconv.Atoi(codeStr[:comma])
		if err == nil {
			shifted, err = strconv.Atoi(codeStr[comma+1:])
		}
	}

	if err != nil {
		return false
	}

	tokens := splitTokens(rest[sp+1:])
	if len(tokens) < 10 {
		return false
	}

	v, ok := parseInts(tokens[:10])
	if !ok {
		return false
	}

	p.skin.Keys = append(p.skin.Keys, model.KeyRegion{
		Code:        code,
		ShiftedCode: shifted,
		Sensitive:   model.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]},
		Display:     model.Rect{X: v[4], Y: v[5], Width: v[6], Height: v[7]},
		Source:      model.Point{X: v[8], Y: v[9]},
	})

	return true
}

func (p *skinParser) parseMacro(rest string) bool {
	if quot1 := strings.IndexByte(rest, '"'); quot1 != -1 {
		return p.parseCommandMacro(rest, quot1)
	}

	tokens := strings.Fields(rest)
	keys := make([]byte, 0, len(tokens))

	code := -1

	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return false
		}

		if code == -1 {
			if n <= model.MaxPhysicalKey || n > model.MaxMacroCode {
				return false
			}

			code = n

			continue
		}

		if n < 1 || n > model.MaxPhysicalKey {
			return false
		}

		keys = append(keys, byte(n))
	}

	if code == -1 {
		return false
	}

	p.skin.Macros = append(p.skin.Macros, model.MacroBinding{Code: code, Keys: keys})

	return true
}

func (p *skinParser) parseCommandMacro(rest string, quot1 int) bool {
	quot2 := strings.IndexByte(rest[quot1+1:], '"')
	if quot2 == -1 {
		return false
	}

	quot2 += quot1 + 1

	code, err := strconv.Atoi(strings.TrimSpace(rest[:quot1]))
	if err != nil || code <= model.MaxPhysicalKey || code > model.MaxMacroCode {
		return false
	}

	macro := model.MacroBinding{Code: code, Command: rest[quot1+1 : quot2]}

	tail := rest[quot2+1:]

	start := strings.IndexByte(tail, '"')
	if start == -1 {
		start = strings.IndexByte(tail, '\'')
	}

	if start != -1 {
		q := tail[start]
		if end := strings.IndexByte(tail[start+1:], q); end != -1 {
			macro.AltCommand = tail[start+1 : start+1+end]
			macro.HasAlt = true
			macro.AltIsText = q == '\''
		}
	}

	p.skin.Macros = append(p.skin.Macros, macro)

	return true
}

func (p *skinParser) parseAnnunciator(rest string) bool {
	tokens := splitTokens(rest)
	if len(tokens) < 7 {
		return false
	}

	v, ok := parseInts(tokens[:7])
	if !ok {
		return false
	}

	n := v[0]
	if n < 1 || n > model.AnnunciatorCount {
		return false
	}

	p.skin.Annunciators[n-1] = model.AnnunciatorRegion{
		Index:   n - 1,
		Display: model.Rect{X: v[1], Y: v[2], Width: v[3], Height: v[4]},
		Source:  model.Point{X: v[5], Y: v[6]},
		Defined: true,
	}

	return true
}

func (p *skinParser) parseEmbeddedKeymap(rest string) bool {
	entry, err := ParseKeymapLine(rest, p.lineno)
	if err != nil || entry == nil {
		return false
	}

	p.skin.Keymap = append(p.skin.Keymap, *entry)

	return true
}
