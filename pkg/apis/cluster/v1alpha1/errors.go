package v1alpha1

import "errors"

// ErrNodeIndexOutOfRange is returned when a node index does not exist in the
// cluster metadata.
var ErrNodeIndexOutOfRange = errors.New("node index out of range")

// ErrClusterFileNotFound is returned when the cluster metadata file does not
// exist at the given path.
var ErrClusterFileNotFound = errors.New("cluster file not found")
