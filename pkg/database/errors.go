package database

import "errors"

// ErrNotReady wraps ping failures.
var ErrNotReady = errors.New("database not ready")
