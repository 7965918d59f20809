// SPDX-License-Identifier: MPL-2.0

package sourcemap

import (
	"errors"
	"fmt"
	"strings"
)

const (
	vlqBaseShift       = 5
	vlqBase            = 1 << vlqBaseShift
	vlqBaseMask        = vlqBase - 1
	vlqContinuationBit = vlqBase

	base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

var (
	// ErrMalformedMappings is wrapped by every mappings decode failure.
	ErrMalformedMappings = errors.New("malformed source map mappings")

	base64Values = func() [256]int8 {
		var t [256]int8
		for i := range t {
			t[i] = -1
		}
		for i := 0; i < len(base64Alphabet); i++ {
			t[base64Alphabet[i]] = int8(i)
		}
		return t
	}()
)

// appendVLQ writes v as a base64 VLQ.
func appendVLQ(sb *strings.Builder, v int) {
	var u int
	if v < 0 {
		u = (-v << 1) | 1
	} else {
		u = v << 1
	}
	for {
		digit := u & vlqBaseMask
		u >>= vlqBaseShift
		if u > 0 {
			digit |= vlqContinuationBit
		}
		sb.WriteByte(base64Alphabet[digit])
		if u == 0 {
			return
		}
	}
}

// readVLQ decodes one VLQ starting at s[pos] and returns the value and the
// position after it.
func readVLQ(s string, pos int) (value, next int, err error) {
	var result, shift int
	for {
		if pos >= len(s) {
			return 0, pos, fmt.Errorf("%w: truncated VLQ at offset %d", ErrMalformedMappings, pos)
		}
		digit := base64Values[s[pos]]
		if digit < 0 {
			return 0, pos, fmt.Errorf("%w: invalid base64 digit %q at offset %d", ErrMalformedMappings, s[pos], pos)
		}
		pos++
		if shift+vlqBaseShift > 63 {
			return 0, pos, fmt.Errorf("%w: VLQ overflow at offset %d", ErrMalformedMappings, pos)
		}
		result += int(digit&vlqBaseMask) << shift
		shift += vlqBaseShift
		if digit&vlqContinuationBit == 0 {
			break
		}
	}

	if result&1 == 1 {
		return -(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}
