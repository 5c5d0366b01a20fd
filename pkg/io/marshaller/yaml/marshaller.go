// Package yamlmarshaller provides a YAML implementation of the marshaller
// contract.
package yamlmarshaller

import (
	"fmt"

	"github.com/fleetup/fleetup/pkg/io/marshaller"
	"sigs.k8s.io/yaml"
)

// Marshaller marshals models of type T as YAML.
type Marshaller[T any] struct{}

// Compile-time interface compliance verification.
var _ marshaller.Marshaller[struct{}] = (*Marshaller[struct{}])(nil)

// NewMarshaller creates a new YAML marshaller for T.
func NewMarshaller[T any]() *Marshaller[T] {
	return &Marshaller[T]{}
}

// Marshal serializes the model into a YAML string.
func (m *Marshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return string(data), nil
}

// Unmarshal deserializes the model from YAML bytes.
func (m *Marshaller[T]) Unmarshal(data []byte, model *T) error {
	err := yaml.Unmarshal(data, model)
	if err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

// UnmarshalString deserializes the model from a YAML string.
func (m *Marshaller[T]) UnmarshalString(data string, model *T) error {
	return m.Unmarshal([]byte(data), model)
}
