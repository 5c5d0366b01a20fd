// Package cluster provides cluster metadata API types.
//
// This package contains versioned API types for the cluster file fleetup
// writes at launch time:
//
//   - v1alpha1: Current API version for cluster metadata
package cluster
