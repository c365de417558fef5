package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into domain
// errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: conditional create lost to an existing record
// - ErrUnavailable: store or broker temporarily unreachable
//
// For validation errors (bad geometry, malformed readings), use
// pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
