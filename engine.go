package chessmcp

import "context"

// Engine is the caller-facing bridge contract for one UCI engine process.
//
// All protocol operations against one Engine are serialized — UCI has no
// multiplexing (an engine cannot run two concurrent searches), so
// implementations guard against interleaved commands and a caller must not
// expect concurrent Analyze calls to overlap.
//
// Engine is an interface so request handlers can be tested against a fake
// without spawning a subprocess.
type Engine interface {
	// Start spawns the engine process, performs the UCI handshake
	// (uci → uciok, isready → readyok), and applies any configured
	// options before returning. A failed handshake aborts startup
	// entirely; the caller must discard the bridge and build a new one.
	Start(ctx context.Context) error

	// Stop sends "quit", waits a grace period for natural exit, and
	// forcefully terminates the process if it lingers. Idempotent:
	// stopping an already-stopped bridge is a no-op.
	Stop(ctx context.Context) error

	// Analyze sets the position to fen, searches for timeMS
	// milliseconds, and folds the engine's info stream into an
	// AnalysisResult. If the engine never emits "bestmove" within the
	// deadline, the last-known partial result is returned with
	// BestMove empty rather than an error.
	Analyze(ctx context.Context, fen string, timeMS int) (*AnalysisResult, error)

	// SetPosition sets the engine's internal board. An empty fen means
	// the starting position; moves are UCI coordinate moves applied
	// after the position.
	SetPosition(ctx context.Context, fen string, moves []string) error

	// BestMove searches the current position for timeMS milliseconds
	// and returns the engine's best move, discarding intermediate info
	// output. Unlike Analyze, a deadline without "bestmove" is a hard
	// error (ErrReadTimeout).
	BestMove(ctx context.Context, timeMS int) (string, error)

	// ID returns the engine's self-reported identity. Valid after Start.
	ID() EngineID

	// AvailableOptions returns the engine-advertised option metadata,
	// keyed by case-sensitive option name. Valid after Start.
	AvailableOptions() map[string]OptionMetadata

	// SetOptions validates and applies values per key. Unknown names
	// and invalid values land in errs; valid siblings are still applied.
	// The two maps partition the input keys. The error return is
	// reserved for bridge-level failures (not ready, process closed).
	SetOptions(ctx context.Context, values map[string]any) (applied map[string]any, errs map[string]string, err error)

	// CurrentOptionValues returns the last value applied for each
	// option. Advisory: UCI has no option read-back, so this reflects
	// what the bridge sent, not a confirmed engine state.
	CurrentOptionValues() map[string]any
}
