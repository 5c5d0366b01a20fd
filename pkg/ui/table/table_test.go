package table_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fleetup/fleetup/pkg/ui/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAlignsColumnsToWidestCell(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Node ID", "# Successful", "# Failed"},
		{"node-0", "3", "0"},
		{"node-1", "1", "2"},
	}

	var out bytes.Buffer

	err := table.New(rows, 1).Write(&out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// Column width is the widest cell plus one space of padding, so the
	// second column of every row starts at the same offset.
	assert.Equal(t, "Node ID # Successful # Failed \n", lines[0]+"\n")
	assert.True(t, strings.HasPrefix(lines[1], "node-0  3"))
	assert.True(t, strings.HasPrefix(lines[2], "node-1  1"))
}

func TestWriteRespectsPadding(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"a", "b"},
		{"c", "d"},
	}

	var out bytes.Buffer

	err := table.New(rows, 3).Write(&out)
	require.NoError(t, err)

	assert.Equal(t, "a   b   \nc   d   \n", out.String())
}

func TestWriteRaggedRowsFailsWithoutOutput(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"a", "b"},
		{"c"},
	}

	var out bytes.Buffer

	err := table.New(rows, 1).Write(&out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, table.ErrRaggedTable))
	assert.Contains(t, err.Error(), "row 1")
	assert.Empty(t, out.String(), "no partial table may be written")
}

func TestWriteEmptyTableWritesNothing(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := table.New(nil, 1).Write(&out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestWriteDefaultsNonPositivePadding(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := table.New([][]string{{"x"}}, 0).Write(&out)
	require.NoError(t, err)
	assert.Equal(t, "x \n", out.String())
}

func TestFormatRowCoercesHeterogeneousValues(t *testing.T) {
	t.Parallel()

	cells := table.FormatRow([]any{"node-0", 3, []string{"a", "b"}})

	assert.Equal(t, []string{"node-0", "3", "[a b]"}, cells)
}
