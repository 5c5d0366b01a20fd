package errorhandler_test

import (
	"errors"
	"testing"

	"github.com/fleetup/fleetup/pkg/cli/ui/errorhandler"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteNilCommandIsNoop(t *testing.T) {
	t.Parallel()

	err := errorhandler.NewExecutor().Execute(nil)
	assert.NoError(t, err)
}

func TestExecuteSuccessfulCommand(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:  "ok",
		RunE: func(*cobra.Command, []string) error { return nil },
	}

	err := errorhandler.NewExecutor().Execute(cmd)
	assert.NoError(t, err)
}

func TestExecuteWrapsFailureWithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("launch failed")
	cmd := &cobra.Command{
		Use:           "fail",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(*cobra.Command, []string) error { return cause },
	}

	err := errorhandler.NewExecutor().Execute(cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))

	var commandErr *errorhandler.CommandError

	require.True(t, errors.As(err, &commandErr))
	assert.Contains(t, commandErr.Error(), "launch failed")
}

func TestNormalizeStripsErrorPrefix(t *testing.T) {
	t.Parallel()

	normalized := errorhandler.DefaultNormalizer{}.Normalize("Error: something broke\nusage hint")
	assert.Equal(t, "something broke\nusage hint", normalized)
}

func TestNormalizeEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, errorhandler.DefaultNormalizer{}.Normalize("  \n "))
}
