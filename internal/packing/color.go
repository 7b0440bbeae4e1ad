package packing

import (
	"fmt"
	"unicode/utf16"
)

// Hue derives a stable hue in [0, 360) from an item ID so every unit of the
// same item renders in the same colour.
func Hue(id string) int {
	hue := 0
	for i, code := range utf16.Encode([]rune(id)) {
		hue = (hue + int(code)*(i*19+1)) % 360
	}
	return (hue%360 + 360) % 360
}

// Color returns the CSS colour for an item ID.
func Color(id string) string {
	return fmt.Sprintf("hsl(%d, 70%%, 60%%)", Hue(id))
}
