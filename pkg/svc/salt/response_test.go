package salt_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"node-0": {
		"pkg_|-dask_|-dask_|-installed": {
			"name": "dask",
			"result": true,
			"comment": "Package dask is already installed"
		},
		"service_|-scheduler_|-dask-scheduler_|-running": {
			"name": "dask-scheduler",
			"result": false,
			"comment": "Service dask-scheduler failed to start"
		}
	},
	"node-1": {
		"pkg_|-dask_|-dask_|-installed": {
			"name": "dask",
			"result": true,
			"comment": ""
		}
	}
}`

func TestParseResponsePreservesNodeAndStateOrder(t *testing.T) {
	t.Parallel()

	response, err := salt.ParseResponse([]byte(sampleResponse))
	require.NoError(t, err)

	nodes := response.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "node-0", nodes[0].NodeID)
	assert.Equal(t, "node-1", nodes[1].NodeID)

	require.Len(t, nodes[0].States, 2)
	assert.Equal(t, "pkg_|-dask_|-dask_|-installed", nodes[0].States[0].ID)
	assert.Equal(t, "service_|-scheduler_|-dask-scheduler_|-running", nodes[0].States[1].ID)
}

func TestParseResponseLiftsFields(t *testing.T) {
	t.Parallel()

	response, err := salt.ParseResponse([]byte(sampleResponse))
	require.NoError(t, err)

	failing := response.Nodes()[0].States[1]
	require.NotNil(t, failing.Result)
	assert.False(t, *failing.Result)
	assert.Equal(t, "dask-scheduler", failing.Name)
	assert.Equal(t, "Service dask-scheduler failed to start", failing.Comment)
	assert.Contains(t, failing.Fields, "result")
}

func TestParseResponseNullResultIsNotAnError(t *testing.T) {
	t.Parallel()

	raw := `{"node-0": {"op": {"name": "a", "result": null, "comment": "skipped"}}}`

	response, err := salt.ParseResponse([]byte(raw))
	require.NoError(t, err)
	assert.Nil(t, response.Nodes()[0].States[0].Result)
}

func TestParseResponseMissingResultIsNotAnError(t *testing.T) {
	t.Parallel()

	raw := `{"node-0": {"op": {"name": "a", "comment": "no result key"}}}`

	response, err := salt.ParseResponse([]byte(raw))
	require.NoError(t, err)
	assert.Nil(t, response.Nodes()[0].States[0].Result)
}

func TestParseResponseMalformedInputs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{name: "top-level array", raw: `[]`},
		{name: "node value is a string", raw: `{"node-0": "minion did not respond"}`},
		{name: "state missing name", raw: `{"node-0": {"op": {"result": true}}}`},
		{name: "non-boolean result", raw: `{"node-0": {"op": {"name": "a", "result": "yes"}}}`},
		{name: "state value is a number", raw: `{"node-0": {"op": 3}}`},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := salt.ParseResponse([]byte(testCase.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, salt.ErrMalformedResponse),
				"expected ErrMalformedResponse, got %v", err)
		})
	}
}

func TestParseResponseErrorNamesOffendingNode(t *testing.T) {
	t.Parallel()

	_, err := salt.ParseResponse([]byte(`{"node-7": "boom"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node-7")
}

func TestHumanNameReplacesSeparators(t *testing.T) {
	t.Parallel()

	state := salt.StateResult{Name: "pkg_|-install_|-cloudera-manager"}
	assert.Equal(t, "pkg | install | cloudera-manager", state.HumanName())
}

func ExampleStateResult_HumanName() {
	state := salt.StateResult{Name: "c_|-d"}
	fmt.Println(state.HumanName())
	// Output: c | d
}
