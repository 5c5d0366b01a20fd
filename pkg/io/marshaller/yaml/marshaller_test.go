package yamlmarshaller_test

import (
	"testing"

	yamlmarshaller "github.com/fleetup/fleetup/pkg/io/marshaller/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample model used for tests.
type sample struct {
	Name   string   `json:"name"           yaml:"name"`
	Count  int      `json:"count"          yaml:"count"`
	Active bool     `json:"active"         yaml:"active"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	mar := yamlmarshaller.NewMarshaller[sample]()
	want := sample{
		Name:   "cluster",
		Count:  4,
		Active: true,
		Tags:   []string{"dask", "salt"},
	}

	out, err := mar.Marshal(want)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	var got sample

	err = mar.UnmarshalString(out, &got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshalInvalidYAMLFails(t *testing.T) {
	t.Parallel()

	mar := yamlmarshaller.NewMarshaller[sample]()

	var got sample

	err := mar.Unmarshal([]byte("name: [unclosed"), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal YAML")
}

func TestUnmarshalEmptyInputLeavesZeroValue(t *testing.T) {
	t.Parallel()

	mar := yamlmarshaller.NewMarshaller[sample]()

	var got sample

	err := mar.Unmarshal(nil, &got)
	require.NoError(t, err)
	assert.Equal(t, sample{}, got)
}
