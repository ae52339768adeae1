package uci

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

// Line channel buffer sizes. Engines can burst dozens of info lines per
// depth iteration; the channel buffer absorbs them so the pump rarely
// blocks between collector reads.
const (
	lineBuffer   = 256
	maxLineBytes = 1 << 20
)

// lineChannel frames an engine's stdout as discrete text lines and
// serializes newline-terminated command writes to its stdin.
//
// A single pump goroutine owns the output stream for the channel's whole
// lifetime. Readers take framed lines from a Go channel, so a read
// abandoned at its deadline never leaves the underlying stream mid-line —
// the next ReadLine picks up exactly where the previous one left off.
type lineChannel struct {
	wmu   sync.Mutex
	stdin io.Writer

	lines chan string
	stop  chan struct{} // closed by Close to unblock a stuck pump

	closed   chan struct{} // closed by the pump on EOF or stream error
	readErr  error         // pump's scanner error; read after closed closes
	stopOnce sync.Once
}

// newLineChannel starts the pump goroutine over stdout.
func newLineChannel(stdin io.Writer, stdout io.Reader) *lineChannel {
	lc := &lineChannel{
		stdin:  stdin,
		lines:  make(chan string, lineBuffer),
		stop:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go lc.pump(stdout)
	return lc
}

// pump reads stdout line by line and hands framed lines to readers.
// Trailing CR/LF is stripped by the scanner; embedded control characters
// pass through untouched (engines may emit them in option strings).
func (lc *lineChannel) pump(stdout io.Reader) {
	defer close(lc.closed)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		select {
		case lc.lines <- scanner.Text():
		case <-lc.stop:
			return
		}
	}
	lc.readErr = scanner.Err()
}

// ReadLine blocks until a full line is available, the stream ends, or the
// deadline passes. A zero deadline means no deadline. Partial lines are
// never returned — the pump buffers until a newline or EOF.
func (lc *lineChannel) ReadLine(deadline time.Time) (string, error) {
	var expired <-chan time.Time
	if !deadline.IsZero() {
		d := time.Until(deadline)
		if d <= 0 {
			return "", chessmcp.ErrReadTimeout
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case line := <-lc.lines:
		return line, nil
	case <-expired:
		return "", chessmcp.ErrReadTimeout
	case <-lc.closed:
		// Lines buffered before EOF are still deliverable.
		select {
		case line := <-lc.lines:
			return line, nil
		default:
		}
		if lc.readErr != nil {
			return "", fmt.Errorf("%w: %v", chessmcp.ErrStreamClosed, lc.readErr)
		}
		return "", chessmcp.ErrStreamClosed
	}
}

// WriteLine appends a newline and writes the command atomically with
// respect to other writers.
func (lc *lineChannel) WriteLine(command string) error {
	lc.wmu.Lock()
	defer lc.wmu.Unlock()

	select {
	case <-lc.closed:
		return fmt.Errorf("%w: write %q", chessmcp.ErrProcessClosed, command)
	default:
	}
	if _, err := io.WriteString(lc.stdin, command+"\n"); err != nil {
		return fmt.Errorf("%w: write %q: %v", chessmcp.ErrProcessClosed, command, err)
	}
	return nil
}

// Drain discards every line currently buffered without blocking. Used
// before issuing a command to consume a stray "bestmove" left over from a
// search that timed out just before the engine finished — leaving it
// queued would corrupt the next operation's line framing.
func (lc *lineChannel) Drain() {
	for {
		select {
		case <-lc.lines:
		default:
			return
		}
	}
}

// Done is closed when the output stream reaches EOF, which closely tracks
// engine process exit.
func (lc *lineChannel) Done() <-chan struct{} {
	return lc.closed
}

// Close unblocks a pump stuck handing off a line. Safe to call more than
// once; reads after Close fail with ErrStreamClosed once the pump exits.
func (lc *lineChannel) Close() {
	lc.stopOnce.Do(func() { close(lc.stop) })
}
