// SPDX-License-Identifier: MPL-2.0

package sourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVLQ_KnownEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value int
		want  string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{-16, "hB"},
		{123456, "gkxH"},
	}

	for _, tt := range tests {
		var sb strings.Builder
		appendVLQ(&sb, tt.value)
		assert.Equal(t, tt.want, sb.String(), "encode %d", tt.value)

		got, next, err := readVLQ(tt.want, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.value, got, "decode %q", tt.want)
		assert.Equal(t, len(tt.want), next)
	}
}

func TestReadVLQ_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := readVLQ("g", 0)
	require.ErrorIs(t, err, ErrMalformedMappings, "continuation bit without a following digit")

	_, _, err = readVLQ("#", 0)
	require.ErrorIs(t, err, ErrMalformedMappings)

	_, _, err = readVLQ("gggggggggggggggB", 0)
	require.ErrorIs(t, err, ErrMalformedMappings, "overlong VLQ")

	// A 13th digit would shift past bit 63.
	_, _, err = readVLQ("ggggggggggggf", 0)
	require.ErrorIs(t, err, ErrMalformedMappings, "digit at shift 60")

	v, next, err := readVLQ("gggggggggggB", 0)
	require.NoError(t, err, "12 digits still fit")
	assert.Equal(t, 12, next)
	assert.Equal(t, 1<<54, v)
}
