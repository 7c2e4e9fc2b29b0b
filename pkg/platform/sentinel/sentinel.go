package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so the policy layer can decide how to degrade.
//
// These describe the state of a backing resource, never a password verdict:
// - ErrUnavailable: the resource could not be reached or timed out
// - ErrNotFound: a requested item (catalog, record) does not exist
//
// Password rule failures are violations, not errors; see internal/policy/models.
var (
	ErrUnavailable = errors.New("unavailable")
	ErrNotFound    = errors.New("not found")
)
