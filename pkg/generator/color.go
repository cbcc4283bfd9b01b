// color.go - Hue parsing for generator inputs.
package generator

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/xob0t/hueslice/pkg/codec"
	"github.com/xob0t/hueslice/pkg/colorspace"
)

// ParseHue parses a hue argument. Accepts a number in [0,360], any colour code
// codec.Detect understands (its hue is used), "random", or "".
// Empty string is treated as "random".
func ParseHue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "random" {
		buf := make([]byte, 2)
		if _, err := rand.Read(buf); err != nil {
			return 0, fmt.Errorf("random hue: %w", err)
		}
		return float64(binary.BigEndian.Uint16(buf) % 360), nil
	}

	if h, err := strconv.ParseFloat(s, 64); err == nil {
		if err := colorspace.CheckRange("hue", h, colorspace.MaxHue); err != nil {
			return 0, err
		}
		return h, nil
	}

	c, _, err := codec.Detect(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hue %q: %w", s, err)
	}
	return c.ToHSV().H, nil
}
