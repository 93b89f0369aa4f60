package utils

import (
	"strings"
)

// DefaultColor is used when a set carries no valid color.
const DefaultColor = "#007AFF"

// namedColors maps the palette names offered by the clients to hex values.
var namedColors = map[string]string{
	"blue":   "#007AFF",
	"green":  "#34C759",
	"orange": "#FF9500",
	"red":    "#FF3B30",
	"purple": "#AF52DE",
	"pink":   "#FF2D55",
	"yellow": "#FFCC00",
	"gray":   "#8E8E93",
	"teal":   "#30B0C7",
}

// NormalizeHexColor converts a color to "#RRGGBB" upper-case form.
// It accepts "#RGB", "#RRGGBB", the same without '#', and palette names.
// Anything else yields DefaultColor.
func NormalizeHexColor(val string) string {
	v := strings.TrimSpace(strings.ToLower(val))
	if hex, ok := namedColors[v]; ok {
		return hex
	}

	v = strings.TrimPrefix(v, "#")
	if !isHex(v) {
		return DefaultColor
	}

	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	case 6:
	default:
		return DefaultColor
	}

	return "#" + strings.ToUpper(v)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeShareCode trims and upper-cases a user-entered share code.
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
