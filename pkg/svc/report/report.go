// Package report turns an aggregated dispatcher response into the console
// report: a per-node success/failure count table followed by failure detail
// blocks.
package report

import (
	"fmt"
	"io"

	"github.com/fleetup/fleetup/pkg/svc/salt"
	"github.com/fleetup/fleetup/pkg/ui/table"
)

// tablePadding is the inter-column spacing of the counts table.
const tablePadding = 1

// PrintState writes the state-run report for a dispatcher response: a counts
// table with one row per node, then, for every node with failures, a header
// line and one line per failed state showing its human-readable name and
// comment. Nodes and failures keep the dispatcher's order.
//
// Nothing is written until the table has been validated, so an error leaves
// the writer untouched rather than holding a partial report.
func PrintState(writer io.Writer, response *salt.Response) error {
	aggregation, err := response.AggregateResults()
	if err != nil {
		return fmt.Errorf("aggregating state results: %w", err)
	}

	rows := [][]string{{"Node ID", "# Successful", "# Failed"}}
	for _, row := range aggregation.Table(salt.Count) {
		rows = append(rows, table.FormatRow(row))
	}

	err = table.New(rows, tablePadding).Write(writer)
	if err != nil {
		return fmt.Errorf("rendering state table: %w", err)
	}

	for _, node := range aggregation.Items() {
		if len(node.Failed) == 0 {
			continue
		}

		_, err = fmt.Fprintf(writer, "Failed states for '%s'\n", node.NodeID)
		if err != nil {
			return fmt.Errorf("writing failure header: %w", err)
		}

		for _, state := range node.Failed {
			_, err = fmt.Fprintf(writer, "  %s: %s\n", state.HumanName(), state.Comment)
			if err != nil {
				return fmt.Errorf("writing failure detail: %w", err)
			}
		}
	}

	return nil
}
