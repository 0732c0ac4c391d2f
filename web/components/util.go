package components

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

// getLinkForRegion returns the detail page of a skin key.
func getLinkForRegion(region int) string {
	return fmt.Sprintf("/key?index=%d", region)
}

// getSwitchModeLink returns the page to go to from the current one.
func getSwitchModeLink(region int, currentPageType PageType) string {
	switch currentPageType {
	case PageTypeStats:
		return getLinkForRegion(region)
	default:
		return "/"
	}
}

func getSwitchModeButtonText(currentPageType PageType) string {
	switch currentPageType {
	case PageTypeSequence:
		return "Back to usage"
	default:
		return ""
	}
}

// HeatColor maps count/maxVal onto blue, green and red, washed halfway to white. Keys
// that were never pressed stay grey.
func HeatColor(count, maxVal int) color.RGBA {
	if count <= 0 || maxVal <= 0 {
		return color.RGBA{70, 70, 78, 255}
	}

	value := math.Min(float64(count)/float64(maxVal), 1)

	var r, g, b float64

	if value <= 0.5 {
		ratio := value / 0.5
		g = 255 * ratio
		b = 255 * (1 - ratio)
	} else {
		ratio := (value - 0.5) / 0.5
		r = 255 * ratio
		g = 255 * (1 - ratio)
	}

	const blendFactor = 0.5

	blend := func(c float64) uint8 {
		return uint8(math.Round(c + (255-c)*blendFactor))
	}

	return color.RGBA{blend(r), blend(g), blend(b), 255}
}
