package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across the core. They form the error taxonomy:
// configuration and schema errors propagate verbatim to the operator,
// per-record write errors are absorbed into the note state machine, and
// governance violations leave local state unchanged.
var (
	// ErrDuplicateNote is a normal outcome of capture, not a failure:
	// the fingerprint already exists and no side effects occurred.
	ErrDuplicateNote = goerr.New("duplicate note detected")

	// ErrInvalidInput means the caller-supplied payload is malformed or
	// empty. Nothing was persisted.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrConfiguration means local settings are missing or invalid.
	// No network call is attempted.
	ErrConfiguration = goerr.New("invalid local configuration")

	// ErrRemoteSchema means the remote database shape does not match the
	// configured property mapping. It aborts a whole sync pass.
	ErrRemoteSchema = goerr.New("remote schema mismatch")

	// ErrRemoteWrite is a per-record failure during remote create/update.
	ErrRemoteWrite = goerr.New("remote write failed")

	// ErrMasterLocked guards system-locked master values.
	ErrMasterLocked = goerr.New("master value is locked by the system")

	// ErrMasterInUse means open remote records still reference the value.
	ErrMasterInUse = goerr.New("master value is referenced by open remote records")

	// ErrSyncAlreadyRunning means a sync pass was triggered while another
	// one is in flight. The trigger is ignored, never run in parallel.
	ErrSyncAlreadyRunning = goerr.New("sync pass already in progress")

	// ErrNotFound is returned by repositories for missing entities.
	ErrNotFound = goerr.New("not found")
)
