package salt

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// ResultField is the default aggregation field.
const ResultField = "result"

// NodeAggregate holds one node's state results partitioned into succeeded
// and failed buckets, each preserving the original relative order.
type NodeAggregate struct {
	NodeID    string
	Succeeded []StateResult
	Failed    []StateResult
}

// Aggregation is the result of partitioning a Response by a field. Nodes
// keep the order they had in the Response.
type Aggregation struct {
	nodes []NodeAggregate
}

// Summarizer reduces a bucket of state results to a displayable value.
type Summarizer func(states []StateResult) any

// Count is the default summarizer: the size of the bucket.
func Count(states []StateResult) any {
	return len(states)
}

// Names summarizes a bucket as its human-readable state names.
func Names(states []StateResult) any {
	names := make([]string, 0, len(states))
	for _, state := range states {
		names = append(names, state.HumanName())
	}

	return names
}

// AggregateBy partitions every node's states by the truthiness of the given
// field: entries whose field value is truthy go to Succeeded, entries whose
// field value is falsy or absent go to Failed. A missing field is a valid
// failed classification, never an error; only an empty field name is
// rejected, with ErrInvalidField, before any partitioning happens.
//
// The receiver is not mutated, so aggregating the same Response twice with
// the same field yields structurally identical results.
func (r *Response) AggregateBy(field string) (*Aggregation, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: field name is empty", ErrInvalidField)
	}

	aggregation := &Aggregation{nodes: make([]NodeAggregate, 0, len(r.nodes))}

	for _, node := range r.nodes {
		aggregate := NodeAggregate{NodeID: node.NodeID}

		for _, state := range node.States {
			if truthy(state.Fields[field]) {
				aggregate.Succeeded = append(aggregate.Succeeded, state)
			} else {
				aggregate.Failed = append(aggregate.Failed, state)
			}
		}

		aggregation.nodes = append(aggregation.nodes, aggregate)
	}

	return aggregation, nil
}

// AggregateResults partitions by the default "result" field.
func (r *Response) AggregateResults() (*Aggregation, error) {
	return r.AggregateBy(ResultField)
}

// Items returns the per-node partitions in insertion order, for consumers
// that need the raw buckets rather than a summarized table.
func (a *Aggregation) Items() []NodeAggregate {
	return a.nodes
}

// Table produces one row per node, in aggregation order, of the form
// [nodeID, agg(succeeded), agg(failed)]. The summarizer's return value is
// opaque; a count, a list of names, or anything else displayable works.
// A nil summarizer defaults to Count.
func (a *Aggregation) Table(agg Summarizer) [][]any {
	if agg == nil {
		agg = Count
	}

	rows := make([][]any, 0, len(a.nodes))
	for _, node := range a.nodes {
		rows = append(rows, []any{node.NodeID, agg(node.Succeeded), agg(node.Failed)})
	}

	return rows
}

// truthy reports whether a raw field value counts as a success marker.
// Semantics follow the dispatcher's loose typing: nil, false, zero numbers,
// empty strings and empty collections are falsy; everything else is truthy.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case json.Number:
		parsed, err := typed.Float64()

		return err != nil || parsed != 0
	case float64:
		return typed != 0
	case int:
		return typed != 0
	default:
		reflected := reflect.ValueOf(value)
		switch reflected.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return reflected.Len() > 0
		default:
			return true
		}
	}
}
