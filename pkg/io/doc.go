// Package io provides utilities for input and output operations related to
// configuration management.
//
// Subpackages:
//   - configmanager: Configuration loading and management
//   - marshaller: Serialization and deserialization of persisted models
package io
