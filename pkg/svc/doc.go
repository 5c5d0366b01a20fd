// Package svc provides service layer components for fleetup.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the underlying clients/infrastructure.
//
// Subpackages:
//   - provider: Infrastructure providers (Hetzner Cloud)
//   - salt: SaltStack bootstrap, salt-api dispatch, and state result parsing
//   - report: Per-node aggregation and rendering of state run results
//   - deploy: Framework deployment workflows (dask.distributed, Cloudera Manager)
package svc
