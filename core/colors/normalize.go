// Package colors canonicalizes CSS color values.
// Every color that enters a formatting snapshot is reduced to a lowercase
// six-digit hex string, the only notation all email clients agree on.
package colors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Hex is a canonical #rrggbb color. The zero value means "no color".
type Hex string

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
	rgbColor = regexp.MustCompile(`(?i)^rgba?\(([^)]+)\)$`)
)

// Normalize converts a CSS color value into its canonical hex form.
// It accepts #rgb, #rrggbb, rgb() and rgba(); ok is false for blank,
// transparent, fully transparent rgba() and anything it cannot parse.
func Normalize(value string) (Hex, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}

	if strings.EqualFold(trimmed, "transparent") {
		return "", false
	}

	if hexColor.MatchString(trimmed) {
		return expandHex(trimmed), true
	}

	return rgbaToHex(trimmed)
}

// String returns the color as a CSS value.
func (h Hex) String() string {
	return string(h)
}

// RGB returns the red, green and blue channels. A zero Hex yields black.
func (h Hex) RGB() (r, g, b uint8) {
	if len(h) != 7 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(string(h[1:]), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

func expandHex(value string) Hex {
	value = strings.ToLower(value)
	if len(value) == 4 {
		return Hex([]byte{'#', value[1], value[1], value[2], value[2], value[3], value[3]})
	}
	return Hex(value)
}

func rgbaToHex(value string) (Hex, bool) {
	m := rgbColor.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}

	parts := strings.Split(m[1], ",")
	if len(parts) < 3 || len(parts) > 4 {
		return "", false
	}

	var channels [3]uint8
	for i := range channels {
		c, ok := channelToInt(parts[i])
		if !ok {
			return "", false
		}
		channels[i] = c
	}

	// Alpha is validated but not encoded: a fully transparent color has no
	// hex form, anything above zero is rendered opaque.
	if len(parts) == 4 {
		alpha, ok := parseNumber(strings.TrimSuffix(strings.TrimSpace(parts[3]), "%"))
		if !ok || alpha <= 0 {
			return "", false
		}
	}

	const digits = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, c := range channels {
		out[1+i*2] = digits[c>>4]
		out[2+i*2] = digits[c&0x0f]
	}
	return Hex(out), true
}

func channelToInt(token string) (uint8, bool) {
	token = strings.TrimSpace(token)
	if pct, found := strings.CutSuffix(token, "%"); found {
		n, ok := parseNumber(pct)
		if !ok {
			return 0, false
		}
		return clamp(n / 100 * 255), true
	}

	n, ok := parseNumber(token)
	if !ok {
		return 0, false
	}
	return clamp(n), true
}

// parseNumber accepts plain finite decimal numbers only.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func clamp(v float64) uint8 {
	v = math.Floor(v + 0.5)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
