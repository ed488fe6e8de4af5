package datastructure

import (
	"errors"
)

// request scoped failures. recorded on the RouteResult, never abort the batch.
var (
	ErrSnapFailed     = errors.New("endpoint is too far from any graph vertex")
	ErrUnreachable    = errors.New("no path between snapped endpoints")
	ErrClassification = errors.New("route geometry can't be overlaid with the infrastructure layer")
	ErrInternal       = errors.New("internal error while processing request")
)

// batch preconditions. signalled before any request is processed.
var (
	ErrMissingGraph          = errors.New("routable graph is required")
	ErrMissingInfrastructure = errors.New("infrastructure layer is required")
)

type Status uint8

const (
	StatusSolved Status = iota
	StatusUnreachable
	StatusSnapFailed
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusUnreachable:
		return "unreachable"
	case StatusSnapFailed:
		return "snap_failed"
	default:
		return "error"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var Statuses = []Status{StatusSolved, StatusUnreachable, StatusSnapFailed, StatusError}

// StatusFromError. maps a request scoped error to its terminal status
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusSolved
	case errors.Is(err, ErrSnapFailed):
		return StatusSnapFailed
	case errors.Is(err, ErrUnreachable):
		return StatusUnreachable
	default:
		return StatusError
	}
}
