// Package marshaller defines the serialization contract used for persisted
// models such as the cluster metadata file.
package marshaller

// Marshaller converts models of type T to and from their textual encoding.
type Marshaller[T any] interface {
	// Marshal serializes the model into its string representation.
	Marshal(model T) (string, error)
	// Unmarshal deserializes the model from a byte representation.
	Unmarshal(data []byte, model *T) error
	// UnmarshalString deserializes the model from a string representation.
	UnmarshalString(data string, model *T) error
}
