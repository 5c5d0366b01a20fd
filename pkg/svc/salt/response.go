// Package salt drives the SaltStack control plane: bootstrapping master and
// minions over SSH, dispatching runs through salt-api, and turning the raw
// per-node state results into aggregated, reportable form.
package salt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// nameSeparator is Salt's internal low-state key separator. It shows up in
// state ids and names and is replaced with " | " for display.
const nameSeparator = "_|-"

// StateResult is the outcome of a single state applied to one node.
//
// Result is a tri-state: true (succeeded), false (failed), nil (Salt reports
// "null" for states that did not apply). Both false and nil aggregate into
// the failed bucket. Fields preserves every raw attribute of the entry so
// aggregation can bucket by attributes other than "result".
type StateResult struct {
	ID      string
	Name    string
	Result  *bool
	Comment string
	Fields  map[string]any
}

// HumanName returns Name with Salt's "_|-" separators replaced by " | ".
func (r StateResult) HumanName() string {
	return strings.ReplaceAll(r.Name, nameSeparator, " | ")
}

// NodeResults holds one node's state results in the order the dispatcher
// enumerated them.
type NodeResults struct {
	NodeID string
	States []StateResult
}

// Response is the normalized form of a dispatcher reply: node ids mapped to
// their state results, preserving the dispatcher's enumeration order for
// both nodes and states. It is an immutable snapshot; aggregation never
// mutates it.
type Response struct {
	nodes []NodeResults
}

// Nodes returns the per-node results in dispatcher order.
func (r *Response) Nodes() []NodeResults {
	return r.nodes
}

// Len returns the number of nodes in the response.
func (r *Response) Len() int {
	return len(r.nodes)
}

// ParseResponse normalizes a raw dispatcher reply. The input is a JSON
// object mapping node id to an object mapping state id to the state's
// attributes. A token-stream decoder is used so that node order and per-node
// state order match the dispatcher's enumeration order.
//
// Every entry must carry a "name"; "result" may be absent or null (both
// classify as failed, never as an error) and "comment" may be absent.
// Anything else malformed returns an error wrapping ErrMalformedResponse.
func ParseResponse(raw []byte) (*Response, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	err := expectDelim(decoder, '{')
	if err != nil {
		return nil, fmt.Errorf("%w: top-level value is not an object: %w", ErrMalformedResponse, err)
	}

	response := &Response{}

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}

		nodeID, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string node id %v", ErrMalformedResponse, token)
		}

		states, err := parseNodeStates(decoder, nodeID)
		if err != nil {
			return nil, err
		}

		response.nodes = append(response.nodes, NodeResults{NodeID: nodeID, States: states})
	}

	return response, nil
}

// parseNodeStates decodes one node's value, which must be an object mapping
// state id to attributes, preserving entry order.
func parseNodeStates(decoder *json.Decoder, nodeID string) ([]StateResult, error) {
	err := expectDelim(decoder, '{')
	if err != nil {
		return nil, fmt.Errorf("%w: node %q value is not an object: %w", ErrMalformedResponse, nodeID, err)
	}

	var states []StateResult

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %w", ErrMalformedResponse, nodeID, err)
		}

		stateID, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: node %q: non-string state id %v", ErrMalformedResponse, nodeID, token)
		}

		var fields map[string]any

		err = decoder.Decode(&fields)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: node %q state %q is not an object: %w",
				ErrMalformedResponse, nodeID, stateID, err,
			)
		}

		state, err := newStateResult(nodeID, stateID, fields)
		if err != nil {
			return nil, err
		}

		states = append(states, state)
	}

	// Consume the closing '}' of the node object.
	_, err = decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: node %q: %w", ErrMalformedResponse, nodeID, err)
	}

	return states, nil
}

// newStateResult validates one raw entry and lifts it into a StateResult.
func newStateResult(nodeID, stateID string, fields map[string]any) (StateResult, error) {
	name, ok := fields["name"].(string)
	if !ok {
		return StateResult{}, fmt.Errorf(
			"%w: node %q state %q lacks a name",
			ErrMalformedResponse, nodeID, stateID,
		)
	}

	state := StateResult{
		ID:     stateID,
		Name:   name,
		Fields: fields,
	}

	switch result := fields["result"].(type) {
	case nil:
		// Absent or null: not applicable, aggregates as failed.
	case bool:
		state.Result = &result
	default:
		return StateResult{}, fmt.Errorf(
			"%w: node %q state %q has non-boolean result %v",
			ErrMalformedResponse, nodeID, stateID, result,
		)
	}

	if comment, ok := fields["comment"].(string); ok {
		state.Comment = comment
	}

	return state, nil
}

// expectDelim reads the next token and fails unless it is the given delimiter.
func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}

	delim, ok := token.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("got %v, want %v", token, want)
	}

	return nil
}
