package uci

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

func TestReadLine_FramesLines(t *testing.T) {
	lc := scriptedChannel(t, "uciok", "readyok")

	for _, want := range []string{"uciok", "readyok"} {
		line, err := lc.ReadLine(time.Time{})
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if line != want {
			t.Errorf("ReadLine = %q, want %q", line, want)
		}
	}
}

func TestReadLine_StripsCarriageReturn(t *testing.T) {
	lc := newLineChannel(io.Discard, strings.NewReader("bestmove e2e4\r\n"))
	t.Cleanup(lc.Close)

	line, err := lc.ReadLine(time.Time{})
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "bestmove e2e4" {
		t.Errorf("ReadLine = %q, want %q", line, "bestmove e2e4")
	}
}

func TestReadLine_TimeoutDistinctFromEOF(t *testing.T) {
	// A pipe with no writer: the stream is open but silent.
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	lc := newLineChannel(io.Discard, pr)
	t.Cleanup(lc.Close)

	start := time.Now()
	_, err := lc.ReadLine(time.Now().Add(50 * time.Millisecond))
	if !errors.Is(err, chessmcp.ErrReadTimeout) {
		t.Fatalf("ReadLine error = %v, want ErrReadTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ReadLine blocked %v past a 50ms deadline", elapsed)
	}
}

func TestReadLine_EOFReturnsStreamClosed(t *testing.T) {
	lc := newLineChannel(io.Discard, strings.NewReader(""))
	t.Cleanup(lc.Close)

	_, err := lc.ReadLine(time.Now().Add(time.Second))
	if !errors.Is(err, chessmcp.ErrStreamClosed) {
		t.Fatalf("ReadLine error = %v, want ErrStreamClosed", err)
	}
}

func TestReadLine_DeliversBufferedLinesAfterEOF(t *testing.T) {
	lc := scriptedChannel(t, "line one", "line two")

	// Give the pump time to finish and close the stream.
	<-lc.Done()

	for _, want := range []string{"line one", "line two"} {
		line, err := lc.ReadLine(time.Time{})
		if err != nil {
			t.Fatalf("ReadLine after EOF: %v", err)
		}
		if line != want {
			t.Errorf("ReadLine = %q, want %q", line, want)
		}
	}
	if _, err := lc.ReadLine(time.Time{}); !errors.Is(err, chessmcp.ErrStreamClosed) {
		t.Errorf("final ReadLine error = %v, want ErrStreamClosed", err)
	}
}

func TestWriteLine_AppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	lc := newLineChannel(&buf, strings.NewReader("pending\n"))
	t.Cleanup(lc.Close)

	if err := lc.WriteLine("go movetime 100"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if got := buf.String(); got != "go movetime 100\n" {
		t.Errorf("wrote %q, want %q", got, "go movetime 100\n")
	}
}

func TestWriteLine_FailsAfterStreamClose(t *testing.T) {
	var buf bytes.Buffer
	lc := newLineChannel(&buf, strings.NewReader(""))
	<-lc.Done()

	err := lc.WriteLine("isready")
	if !errors.Is(err, chessmcp.ErrProcessClosed) {
		t.Fatalf("WriteLine error = %v, want ErrProcessClosed", err)
	}
}

func TestDrain_DiscardsBufferedLines(t *testing.T) {
	lc := scriptedChannel(t, "bestmove d2d4", "readyok")
	<-lc.Done()

	lc.Drain()
	if _, err := lc.ReadLine(time.Time{}); !errors.Is(err, chessmcp.ErrStreamClosed) {
		t.Errorf("ReadLine after Drain = %v, want ErrStreamClosed", err)
	}
}
