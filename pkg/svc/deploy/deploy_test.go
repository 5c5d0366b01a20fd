package deploy_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fleetup/fleetup/pkg/svc/deploy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// call records one dispatcher invocation.
type call struct {
	target string
	fun    string
	args   []string
}

// fakeDispatcher replays canned replies keyed by function name.
type fakeDispatcher struct {
	calls   []call
	replies map[string]string
	fail    string
}

func (d *fakeDispatcher) Local(
	_ context.Context,
	target, fun string,
	args ...string,
) ([]byte, error) {
	d.calls = append(d.calls, call{target: target, fun: fun, args: args})

	if d.fail != "" && fun == d.fail {
		return nil, errors.New("dispatch exploded")
	}

	reply, ok := d.replies[fun]
	if !ok {
		reply = `{}`
	}

	return []byte(reply), nil
}

func TestDaskAssignsRolesAndAppliesStates(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{
		replies: map[string]string{
			"state.sls": `{"node-0": {"s1": {"name": "dask", "result": true, "comment": ""}}}`,
		},
	}

	var out bytes.Buffer

	err := deploy.Dask(context.Background(), dispatcher, &out)
	require.NoError(t, err)

	require.Len(t, dispatcher.calls, 4)

	assert.Equal(t, call{
		target: "node-0",
		fun:    "grains.append",
		args:   []string{"roles", "dask.distributed.scheduler"},
	}, dispatcher.calls[0])

	assert.Equal(t, call{
		target: "node-0",
		fun:    "state.sls",
		args:   []string{"dask.distributed.scheduler"},
	}, dispatcher.calls[1])

	assert.Equal(t, call{
		target: "node-[1-9]*",
		fun:    "grains.append",
		args:   []string{"roles", "dask.distributed.worker"},
	}, dispatcher.calls[2])

	assert.Equal(t, call{
		target: "node-[1-9]*",
		fun:    "state.sls",
		args:   []string{"dask.distributed.worker"},
	}, dispatcher.calls[3])

	assert.Contains(t, out.String(), "Installing scheduler")
	assert.Contains(t, out.String(), "Installing workers")
	assert.Contains(t, out.String(), "Node ID")
}

func TestClouderaManagerTargetsAllNodes(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{
		replies: map[string]string{
			"state.sls": `{"node-0": {"s1": {"name": "cm", "result": true, "comment": ""}}}`,
		},
	}

	var out bytes.Buffer

	err := deploy.ClouderaManager(context.Background(), dispatcher, &out)
	require.NoError(t, err)

	require.Len(t, dispatcher.calls, 3)
	assert.Equal(t, "node-0", dispatcher.calls[0].target)
	assert.Equal(t, "node-*", dispatcher.calls[1].target)
	assert.Equal(t, call{
		target: "node-*",
		fun:    "state.sls",
		args:   []string{"cloudera.manager.cluster"},
	}, dispatcher.calls[2])
}

func TestDaskReportsFailures(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{
		replies: map[string]string{
			"state.sls": `{"node-0": {
				"s1": {"name": "a_|-b", "result": true, "comment": ""},
				"s2": {"name": "c_|-d", "result": false, "comment": "boom"}
			}}`,
		},
	}

	var out bytes.Buffer

	err := deploy.Dask(context.Background(), dispatcher, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Failed states for 'node-0'")
	assert.Contains(t, out.String(), "c | d: boom")
}

func TestDaskSurfacesDispatchErrors(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{fail: "grains.append"}

	var out bytes.Buffer

	err := deploy.Dask(context.Background(), dispatcher, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to assign role")
}

func TestDaskAbortsOnMalformedResponse(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{
		replies: map[string]string{"state.sls": `{"node-0": "minion did not return"}`},
	}

	var out bytes.Buffer

	err := deploy.Dask(context.Background(), dispatcher, &out)
	require.Error(t, err)

	// The failed run's table must not have been printed.
	lines := strings.Split(out.String(), "\n")
	for _, line := range lines {
		if strings.Contains(line, "Node ID") {
			t.Fatalf("partial table printed despite malformed response: %q", out.String())
		}
	}
}
