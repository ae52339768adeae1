// Package uci implements the engine bridge: it supervises a UCI chess
// engine subprocess, drives the handshake and option negotiation, and
// folds search output into analysis results.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

const (
	// handshakeTimeout bounds the uci→uciok and isready→readyok
	// exchanges. A healthy engine answers in milliseconds.
	handshakeTimeout = 5 * time.Second

	// stopGrace is how long Stop waits for a natural exit after "quit"
	// before forcing termination.
	stopGrace = 2 * time.Second
)

// ConfiguredOption is a UCI option applied during startup.
// Options are applied in slice order — some engines care (e.g. Threads
// before Hash resizes the table once instead of twice).
type ConfiguredOption struct {
	Name  string
	Value any
}

// Bridge is a UCI engine bridge: one engine process, one handshake state
// machine, one option cache. Implements [chessmcp.Engine].
//
// All protocol operations are serialized by an internal mutex — UCI has no
// multiplexing, so one operation is in flight at a time and concurrent
// callers queue.
type Bridge struct {
	path       string
	configured []ConfiguredOption
	log        zerolog.Logger

	// mu guards the one-protocol-operation-in-flight invariant.
	mu    sync.Mutex
	state State
	proc  *process
	ch    *lineChannel
	id    chessmcp.EngineID
	reg   *registry
}

var _ chessmcp.Engine = (*Bridge)(nil)

// Option configures a Bridge at construction time.
type Option func(*Bridge)

// WithLogger sets the bridge's logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Bridge) {
		b.log = log
	}
}

// WithOptions sets the UCI options applied during startup, after "uciok"
// and before readiness is reported.
func WithOptions(opts []ConfiguredOption) Option {
	return func(b *Bridge) {
		b.configured = opts
	}
}

// New creates a bridge for the engine at path. The process is not spawned
// until Start.
func New(path string, opts ...Option) *Bridge {
	b := &Bridge{
		path:  path,
		log:   zerolog.Nop(),
		state: StateUninitialized,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start spawns the engine and runs the handshake:
//
//	send "uci" → fold id/option lines until "uciok"
//	→ apply configured options → send "isready" → await "readyok"
//
// Any failure aborts startup entirely: the process is torn down and the
// bridge lands in the stopped state. A bridge cannot be restarted.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateUninitialized {
		return fmt.Errorf("%w: bridge is %s, not uninitialized", chessmcp.ErrNotReady, b.state)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.log.Info().Str("path", b.path).Msg("starting engine")
	proc, err := startProcess(b.path)
	if err != nil {
		b.state = StateStopped
		return err
	}
	b.proc = proc
	b.ch = newLineChannel(proc.stdin, proc.stdout)
	go b.pumpStderr(proc.stderr)

	b.state = StateAwaitingUciOk
	if err := b.ch.WriteLine("uci"); err != nil {
		return b.abortStart(err)
	}
	hs, err := collectHandshake(b.ch, time.Now().Add(handshakeTimeout))
	if err != nil {
		return b.abortStart(fmt.Errorf("handshake: %w", err))
	}
	b.id = hs.id
	b.reg = newRegistry(hs.options)
	b.state = StateAwaitingReadyOk

	for _, opt := range b.configured {
		if err := b.ch.WriteLine(formatSetOption(opt.Name, opt.Value)); err != nil {
			return b.abortStart(err)
		}
		if _, known := hs.options[opt.Name]; !known {
			b.log.Warn().Str("option", opt.Name).Msg("engine does not advertise configured option")
		}
		b.reg.record(opt.Name, opt.Value)
		b.log.Debug().Str("option", opt.Name).Interface("value", opt.Value).Msg("option applied")
	}

	if err := b.ch.WriteLine("isready"); err != nil {
		return b.abortStart(err)
	}
	if err := awaitReadyOk(b.ch, time.Now().Add(handshakeTimeout)); err != nil {
		return b.abortStart(fmt.Errorf("handshake: %w", err))
	}

	b.state = StateReady
	b.log.Info().
		Str("name", b.id.Name).
		Str("author", b.id.Author).
		Int("options", len(hs.options)).
		Msg("engine ready")
	return nil
}

// abortStart tears down a half-started engine. The stream may already be
// gone, so every step is best-effort.
func (b *Bridge) abortStart(err error) error {
	b.log.Error().Err(err).Msg("engine startup failed")
	b.proc.kill()
	b.ch.Close()
	<-b.ch.Done()
	_ = b.proc.wait()
	b.state = StateStopped
	return fmt.Errorf("uci: start %s: %w", b.path, err)
}

// Stop shuts the engine down: "quit", a grace period for natural exit,
// then forced termination. Idempotent — a stopped bridge is a no-op, and
// the kill signal is sent at most once. Shutdown failures are logged, not
// returned; Stop never leaves an orphaned process behind.
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateStopped || b.proc == nil {
		b.state = StateStopped
		return nil
	}

	b.log.Info().Str("name", b.id.Name).Msg("stopping engine")
	_ = b.ch.WriteLine("quit") // best-effort: the process may already be gone

	select {
	case <-b.ch.Done():
	case <-time.After(stopGrace):
		b.log.Warn().Msg("engine did not exit after quit, killing")
		b.proc.kill()
	case <-ctx.Done():
		b.proc.kill()
	}

	b.ch.Close()
	<-b.ch.Done()
	if err := b.proc.wait(); err != nil {
		b.log.Debug().Err(err).Msg("engine exit status")
	}
	b.state = StateStopped
	return nil
}

// Analyze sets the position, searches for timeMS milliseconds, and folds
// the info stream into a result. The read deadline is timeMS plus a fixed
// slack; if the engine never produces "bestmove" the partial result is
// returned with BestMove empty.
func (b *Bridge) Analyze(ctx context.Context, fen string, timeMS int) (*chessmcp.AnalysisResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.readyLocked(); err != nil {
		return nil, err
	}
	if timeMS <= 0 {
		return nil, fmt.Errorf("uci: think time must be positive, got %d", timeMS)
	}

	b.ch.Drain() // discard a stray bestmove from a previously timed-out search
	if err := b.ch.WriteLine("position fen " + fen); err != nil {
		return nil, b.failClosed(err)
	}
	if err := b.ch.WriteLine(fmt.Sprintf("go movetime %d", timeMS)); err != nil {
		return nil, b.failClosed(err)
	}

	deadline := searchDeadline(ctx, timeMS)
	result, err := collectAnalysis(b.ch, deadline)
	if err != nil {
		return result, b.failClosed(err)
	}
	b.log.Debug().
		Int("depth", result.Depth).
		Str("best_move", result.BestMove).
		Msg("analysis complete")
	return result, nil
}

// SetPosition sets the engine's internal board. Empty fen means the
// starting position; moves are appended in UCI coordinate form.
func (b *Bridge) SetPosition(ctx context.Context, fen string, moves []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.readyLocked(); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("position ")
	if fen != "" {
		sb.WriteString("fen ")
		sb.WriteString(fen)
	} else {
		sb.WriteString("startpos")
	}
	if len(moves) > 0 {
		sb.WriteString(" moves ")
		sb.WriteString(strings.Join(moves, " "))
	}

	b.ch.Drain()
	if err := b.ch.WriteLine(sb.String()); err != nil {
		return b.failClosed(err)
	}
	return nil
}

// BestMove searches the current position and returns the engine's best
// move. A deadline without "bestmove" is a hard error, unlike Analyze.
func (b *Bridge) BestMove(ctx context.Context, timeMS int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.readyLocked(); err != nil {
		return "", err
	}
	if timeMS <= 0 {
		return "", fmt.Errorf("uci: think time must be positive, got %d", timeMS)
	}

	b.ch.Drain()
	if err := b.ch.WriteLine(fmt.Sprintf("go movetime %d", timeMS)); err != nil {
		return "", b.failClosed(err)
	}

	move, err := awaitBestMove(b.ch, searchDeadline(ctx, timeMS))
	if err != nil {
		return "", b.failClosed(err)
	}
	return move, nil
}

// ID returns the engine's self-reported identity.
func (b *Bridge) ID() chessmcp.EngineID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// AvailableOptions returns a copy of the engine-advertised option set.
func (b *Bridge) AvailableOptions() map[string]chessmcp.OptionMetadata {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reg == nil {
		return map[string]chessmcp.OptionMetadata{}
	}
	return b.reg.metadata()
}

// CurrentOptionValues returns a copy of the applied-value cache.
func (b *Bridge) CurrentOptionValues() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reg == nil {
		return map[string]any{}
	}
	return b.reg.values()
}

// SetOptions validates and applies values per key. One bad entry never
// blocks its siblings: the returned maps partition the input keys into
// applied values and error messages. Keys are processed in sorted order so
// results are deterministic.
func (b *Bridge) SetOptions(ctx context.Context, values map[string]any) (map[string]any, map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.readyLocked(); err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	applied := make(map[string]any)
	errs := make(map[string]string)
	for _, name := range names {
		normalized, err := b.reg.validate(name, values[name])
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		if err := b.ch.WriteLine(formatSetOption(name, normalized)); err != nil {
			return applied, errs, b.failClosed(err)
		}
		if !b.reg.isButton(name) {
			b.reg.record(name, normalized)
		}
		applied[name] = normalized
		b.log.Debug().Str("option", name).Interface("value", normalized).Msg("option applied")
	}
	return applied, errs, nil
}

// State returns the bridge's handshake state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) readyLocked() error {
	if b.state != StateReady {
		return fmt.Errorf("%w: bridge is %s", chessmcp.ErrNotReady, b.state)
	}
	return nil
}

// failClosed marks the bridge stopped when an operation hit a closed
// stream. Timeouts pass through untouched — a timed-out search is not a
// channel-level failure.
func (b *Bridge) failClosed(err error) error {
	if errors.Is(err, chessmcp.ErrStreamClosed) || errors.Is(err, chessmcp.ErrProcessClosed) {
		b.log.Error().Err(err).Msg("engine process lost")
		b.state = StateStopped
	}
	return err
}

// searchDeadline computes the collector deadline: think budget plus
// slack, clipped to the caller's context deadline when that is sooner.
func searchDeadline(ctx context.Context, timeMS int) time.Time {
	deadline := time.Now().Add(time.Duration(timeMS)*time.Millisecond + bestmoveSlack)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

// pumpStderr forwards the engine's stderr to the log at debug level.
// Engines write banners and warnings there; leaving the pipe unread risks
// stalling a chatty engine on a full buffer.
func (b *Bridge) pumpStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		b.log.Debug().Str("stream", "stderr").Msg(scanner.Text())
	}
}
