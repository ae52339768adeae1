package chessmcp

import "errors"

// Sentinel errors for bridge operations.
var (
	// ErrSpawn indicates the engine executable could not be started
	// (path missing, not executable, or rejected by the OS). Fatal;
	// there is nothing to retry.
	ErrSpawn = errors.New("chessmcp: engine spawn failed")

	// ErrProcessClosed indicates a read or write was attempted against
	// a stopped engine process. Fatal for the bridge — the caller must
	// discard it and create a new one.
	ErrProcessClosed = errors.New("chessmcp: engine process closed")

	// ErrStreamClosed indicates the engine's output stream reached
	// end-of-file, usually because the process exited unexpectedly.
	// Distinguishable from ErrReadTimeout: the stream is gone for good.
	ErrStreamClosed = errors.New("chessmcp: engine output stream closed")

	// ErrReadTimeout indicates a read deadline elapsed before a full
	// line arrived. Recoverable — the line channel remains valid for
	// the next command.
	ErrReadTimeout = errors.New("chessmcp: read deadline elapsed")

	// ErrNotReady indicates a protocol operation was attempted before
	// the UCI handshake completed (or after the bridge stopped).
	// A programming error on the caller's side, surfaced immediately.
	ErrNotReady = errors.New("chessmcp: engine not ready")

	// ErrUnsupportedOption indicates an option name the engine never
	// advertised. Per-key and non-fatal — reported in the errors map of
	// [Engine.SetOptions], never raised for sibling keys.
	ErrUnsupportedOption = errors.New("chessmcp: unsupported option")

	// ErrInvalidOptionValue indicates an option value that failed
	// type-specific validation. Per-key and non-fatal, like
	// ErrUnsupportedOption.
	ErrInvalidOptionValue = errors.New("chessmcp: invalid option value")
)
