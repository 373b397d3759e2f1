package ecs

import "github.com/cockroachdb/errors"

// ErrNotFound is returned when a requested (EntityID, ComponentType) slot
// does not exist. Recoverable: handlers on the critical path treat it as a
// protocol error for that connection; sweepers and broadcasts treat it as a
// transient warning.
var ErrNotFound = errors.New("ecs: component not found")

// ErrAlreadyPresent is returned by AddComponent when the slot is occupied.
var ErrAlreadyPresent = errors.New("ecs: component already present")

// ErrLocked is returned by TryGetExclusive/TryGetShared when the slot's
// guard cannot be acquired immediately. Transient; a retry hint only.
var ErrLocked = errors.New("ecs: component locked")
