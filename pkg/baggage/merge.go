// SPDX-License-Identifier: MPL-2.0

package baggage

import (
	"errors"
	"fmt"
	"strings"

	"baggage-cli/pkg/companion"
	"baggage-cli/pkg/sourcemap"
)

// ErrInvalidMap is wrapped by every error caused by the incoming source map.
var ErrInvalidMap = errors.New("invalid incoming source map")

// MergeResult is the merged code and, when an incoming map was given and
// something was injected, the regenerated map JSON.
type MergeResult struct {
	Code string
	Map  []byte
}

// Merge prepends lines to text. With no lines the result is text and inMap
// untouched. Otherwise the lines are joined with "\n" and placed before text;
// if inMap is set it is shifted to account for them and its file becomes
// request.
func Merge(text string, lines []companion.Line, inMap []byte, request string) (MergeResult, error) {
	if len(lines) == 0 {
		return MergeResult{Code: text, Map: inMap}, nil
	}

	prefix := strings.Join(companion.Texts(lines), "\n")
	result := MergeResult{Code: prefix + text}
	if len(inMap) == 0 {
		return result, nil
	}

	m, err := sourcemap.Parse(inMap)
	if err != nil {
		return MergeResult{}, fmt.Errorf("%w: %w", ErrInvalidMap, err)
	}
	shifted, err := sourcemap.Prepend(m, prefix, request)
	if err != nil {
		return MergeResult{}, fmt.Errorf("%w: shift: %w", ErrInvalidMap, err)
	}
	data, err := shifted.Marshal()
	if err != nil {
		return MergeResult{}, fmt.Errorf("encode source map: %w", err)
	}
	result.Map = data

	return result, nil
}
