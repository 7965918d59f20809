// SPDX-License-Identifier: MPL-2.0

package baggage

import (
	"testing"

	"baggage-cli/pkg/companion"
	"baggage-cli/pkg/sourcemap"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_NoLines(t *testing.T) {
	t.Parallel()

	inMap := []byte(`{"version":3}`)
	res, err := Merge("text", nil, inMap, "req")
	require.NoError(t, err)
	assert.Equal(t, "text", res.Code)
	assert.Equal(t, inMap, res.Map, "a no-op merge does not even parse the map")
}

func TestMerge_WithoutMap(t *testing.T) {
	t.Parallel()

	lines := []companion.Line{{Text: "import './a.css';\n"}}
	res, err := Merge("x;\n", lines, nil, "req")
	require.NoError(t, err)
	assert.Equal(t, "import './a.css';\nx;\n", res.Code)
	assert.Nil(t, res.Map)
}

func TestMerge_TwoPrependedLines(t *testing.T) {
	t.Parallel()

	// Three original lines; original line 2 column 0 sits at generated line 2.
	inMap := []byte(`{"version":3,"sources":["file.js"],"names":[],"mappings":"AAAA;AACA;AACA"}`)
	lines := []companion.Line{
		{Text: "import './a.css';"},
		{Text: "import './b.css';\n"},
	}

	res, err := Merge("one;\ntwo;\nthree;\n", lines, inMap, "file.js")
	require.NoError(t, err)

	m, err := sourcemap.Parse(res.Map)
	require.NoError(t, err)
	table, err := m.Decode()
	require.NoError(t, err)

	assert.Empty(t, table.OnLine(0), spew.Sdump(table))
	assert.Empty(t, table.OnLine(1), spew.Sdump(table))

	// Generated line 4 (zero-based 3) resolves to original line 2 (zero-based 1).
	seg, ok := table.Lookup(3, 0)
	require.True(t, ok, spew.Sdump(table))
	assert.Equal(t, 1, seg.SrcLine)
	assert.Equal(t, 0, seg.SrcColumn)
}
