package salt_test

import (
	"errors"
	"testing"

	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedResponse has three succeeded and two failed states on node-0 (one
// failure via explicit false, one via null) and a clean node-1.
const mixedResponse = `{
	"node-0": {
		"s1": {"name": "a", "result": true},
		"s2": {"name": "b", "result": false, "comment": "broke"},
		"s3": {"name": "c", "result": true},
		"s4": {"name": "d", "result": null, "comment": "not applicable"},
		"s5": {"name": "e", "result": true}
	},
	"node-1": {
		"s1": {"name": "a", "result": true}
	}
}`

func parseMixed(t *testing.T) *salt.Response {
	t.Helper()

	response, err := salt.ParseResponse([]byte(mixedResponse))
	require.NoError(t, err)

	return response
}

func TestAggregateByPartitionsCompletely(t *testing.T) {
	t.Parallel()

	response := parseMixed(t)

	aggregation, err := response.AggregateResults()
	require.NoError(t, err)

	items := aggregation.Items()
	require.Len(t, items, response.Len())

	for index, item := range items {
		total := len(item.Succeeded) + len(item.Failed)
		assert.Equal(t, len(response.Nodes()[index].States), total,
			"succeeded+failed must cover all states for %s", item.NodeID)
	}
}

func TestAggregateByBucketsPreserveInputOrder(t *testing.T) {
	t.Parallel()

	aggregation, err := parseMixed(t).AggregateResults()
	require.NoError(t, err)

	node := aggregation.Items()[0]

	succeededIDs := make([]string, 0, len(node.Succeeded))
	for _, state := range node.Succeeded {
		succeededIDs = append(succeededIDs, state.ID)
	}

	failedIDs := make([]string, 0, len(node.Failed))
	for _, state := range node.Failed {
		failedIDs = append(failedIDs, state.ID)
	}

	assert.Equal(t, []string{"s1", "s3", "s5"}, succeededIDs)
	assert.Equal(t, []string{"s2", "s4"}, failedIDs)
}

func TestAggregateByNullResultClassifiesAsFailed(t *testing.T) {
	t.Parallel()

	aggregation, err := parseMixed(t).AggregateResults()
	require.NoError(t, err)

	node := aggregation.Items()[0]
	require.Len(t, node.Failed, 2)
	assert.Equal(t, "s4", node.Failed[1].ID)
}

func TestAggregateByMissingFieldClassifiesAsFailed(t *testing.T) {
	t.Parallel()

	raw := `{"node-0": {"s1": {"name": "a", "result": true}}}`

	response, err := salt.ParseResponse([]byte(raw))
	require.NoError(t, err)

	aggregation, err := response.AggregateBy("changes")
	require.NoError(t, err)

	node := aggregation.Items()[0]
	assert.Empty(t, node.Succeeded)
	assert.Len(t, node.Failed, 1)
}

func TestAggregateByArbitraryField(t *testing.T) {
	t.Parallel()

	raw := `{"node-0": {
		"s1": {"name": "a", "result": false, "changes": {"pkg": "installed"}},
		"s2": {"name": "b", "result": true, "changes": {}}
	}}`

	response, err := salt.ParseResponse([]byte(raw))
	require.NoError(t, err)

	aggregation, err := response.AggregateBy("changes")
	require.NoError(t, err)

	node := aggregation.Items()[0]
	require.Len(t, node.Succeeded, 1)
	assert.Equal(t, "s1", node.Succeeded[0].ID, "non-empty changes map is truthy")
	require.Len(t, node.Failed, 1)
	assert.Equal(t, "s2", node.Failed[0].ID, "empty changes map is falsy")
}

func TestAggregateByEmptyFieldFailsFast(t *testing.T) {
	t.Parallel()

	_, err := parseMixed(t).AggregateBy("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, salt.ErrInvalidField))
}

func TestAggregateByIsIdempotent(t *testing.T) {
	t.Parallel()

	response := parseMixed(t)

	first, err := response.AggregateResults()
	require.NoError(t, err)

	second, err := response.AggregateResults()
	require.NoError(t, err)

	assert.Equal(t, first.Items(), second.Items())
}

func TestTableWithCountSummarizer(t *testing.T) {
	t.Parallel()

	aggregation, err := parseMixed(t).AggregateResults()
	require.NoError(t, err)

	rows := aggregation.Table(salt.Count)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"node-0", 3, 2}, rows[0])
	assert.Equal(t, []any{"node-1", 1, 0}, rows[1])
}

func TestTableWithNamesSummarizer(t *testing.T) {
	t.Parallel()

	aggregation, err := parseMixed(t).AggregateResults()
	require.NoError(t, err)

	rows := aggregation.Table(salt.Names)
	assert.Equal(t, []any{"node-0", []string{"a", "c", "e"}, []string{"b", "d"}}, rows[0])
}

func TestTableNilSummarizerDefaultsToCount(t *testing.T) {
	t.Parallel()

	aggregation, err := parseMixed(t).AggregateResults()
	require.NoError(t, err)

	rows := aggregation.Table(nil)
	assert.Equal(t, []any{"node-1", 1, 0}, rows[1])
}
