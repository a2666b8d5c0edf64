package metadata

import "fmt"

// BytesToCodepoint decodes the UTF-8 sequence starting at offset and returns
// the codepoint and the number of bytes it used.
func BytesToCodepoint(bytes string, offset uint32) (int32, uint8, error) {
	b := func(i uint32) int32 {
		return int32(bytes[offset+i])
	}
	remaining := uint32(len(bytes)) - offset

	codepoint := b(0)
	if codepoint >= 0 && codepoint <= 0x7F {
		// Normal single-byte ascii character.
		return codepoint, 1, nil
	} else if (codepoint&0xE0) == 0xC0 && remaining >= 2 {
		// Double-byte character
		codepoint = ((b(0) & 0b00011111) << 6) +
			(b(1) & 0b00111111)
		return codepoint, 2, nil
	} else if (codepoint&0xF0) == 0xE0 && remaining >= 3 {
		// Triple-byte character
		codepoint = ((b(0) & 0b00001111) << 12) +
			((b(1) & 0b00111111) << 6) +
			(b(2) & 0b00111111)
		return codepoint, 3, nil
	} else if (codepoint&0xF8) == 0xF0 && remaining >= 4 {
		// 4-byte character
		codepoint = ((b(0) & 0b00000111) << 18) +
			((b(1) & 0b00111111) << 12) +
			((b(2) & 0b00111111) << 6) +
			(b(3) & 0b00111111)
		return codepoint, 4, nil
	}
	// NOTE: Not supporting 5 and 6-byte characters; return as invalid UTF-8.
	return 0, 0, fmt.Errorf("bytes to codepoint: invalid UTF-8 sequence at offset %d", offset)
}
