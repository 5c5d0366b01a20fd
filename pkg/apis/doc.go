// Package apis provides API type definitions for fleetup resources.
//
// This package contains versioned API types:
//
//   - cluster: Cluster metadata written at launch time and consumed by the
//     provisioning and deployment flows
//
// The API types are designed to be serializable to YAML.
package apis
