package uci

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeEngineScript is a shell UCI engine good enough for handshake and
// search tests: answers uci/isready, emits a short info stream on go,
// and exits on quit.
const fakeEngineScript = `#!/bin/sh
while read line; do
  case "$line" in
    uci)
      echo "id name FakeFish"
      echo "id author Test Suite"
      echo "option name Hash type spin default 16 min 1 max 1024"
      echo "option name Ponder type check default false"
      echo "option name Style type combo default Normal var Solid var Normal var Risky"
      echo "uciok"
      ;;
    isready) echo "readyok" ;;
    go*)
      echo "info depth 1 score cp 20 pv e2e4"
      echo "info depth 5 score cp 34 pv e2e4 e7e5"
      echo "bestmove e2e4 ponder e7e5"
      ;;
    quit) exit 0 ;;
  esac
done
`

// silentEngineScript completes the handshake but never answers a search.
// Used to prove the collector deadline fires instead of hanging.
const silentEngineScript = `#!/bin/sh
while read line; do
  case "$line" in
    uci) echo "uciok" ;;
    isready) echo "readyok" ;;
    quit) exit 0 ;;
  esac
done
`

// writeFakeEngine writes script as an executable file in a temp dir.
func writeFakeEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-engine")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake engine: %v", err)
	}
	return path
}

// scriptedChannel builds a lineChannel whose output is the given lines
// and whose input is discarded.
func scriptedChannel(t *testing.T, lines ...string) *lineChannel {
	t.Helper()
	lc := newLineChannel(io.Discard, strings.NewReader(strings.Join(lines, "\n")+"\n"))
	t.Cleanup(lc.Close)
	return lc
}

// intPtr is a shorthand for option bound literals in test tables.
func intPtr(n int) *int { return &n }
