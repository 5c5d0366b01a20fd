package hetzner

import "errors"

// ErrActionFailed indicates that a Hetzner action failed.
var ErrActionFailed = errors.New("hetzner action failed")

// ErrSSHKeyNotFound indicates the configured SSH key name is not registered
// with the Hetzner project.
var ErrSSHKeyNotFound = errors.New("ssh key not found in hetzner project")
