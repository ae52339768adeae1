package uci

import (
	"errors"
	"strconv"
	"strings"
	"time"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

// bestmoveSlack pads the collector deadline past the engine's own think
// budget. Engines have non-zero flush latency after their internal clock
// expires; without the slack the final info/bestmove lines get truncated.
const bestmoveSlack = 500 * time.Millisecond

// collectAnalysis folds the engine's search output into an AnalysisResult
// until a "bestmove" line or the deadline, whichever comes first.
//
// A deadline expiry is not an error here: the caller receives whatever the
// engine reached, with BestMove empty. A closed stream is an error — the
// bridge is gone and the partial result is returned alongside it.
func collectAnalysis(ch *lineChannel, deadline time.Time) (*chessmcp.AnalysisResult, error) {
	result := &chessmcp.AnalysisResult{}
	for {
		line, err := ch.ReadLine(deadline)
		if err != nil {
			if errors.Is(err, chessmcp.ErrReadTimeout) {
				return result, nil
			}
			return result, err
		}
		if move, ok := parseBestMove(line); ok {
			result.BestMove = move
			return result, nil
		}
		if strings.HasPrefix(line, "info ") {
			applyInfoLine(line, result)
		}
	}
}

// awaitBestMove discards search output until the "bestmove" line. Unlike
// collectAnalysis, both a deadline expiry and a closed stream are hard
// errors — a best-move-only request has no useful partial result.
func awaitBestMove(ch *lineChannel, deadline time.Time) (string, error) {
	for {
		line, err := ch.ReadLine(deadline)
		if err != nil {
			return "", err
		}
		if move, ok := parseBestMove(line); ok {
			return move, nil
		}
	}
}

// parseBestMove extracts the move token from a "bestmove <move> [ponder
// <move>]" line. The move is kept verbatim — engines emit "(none)" for
// positions with no legal move.
func parseBestMove(line string) (string, bool) {
	if !strings.HasPrefix(line, "bestmove") {
		return "", false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// applyInfoLine folds one "info ..." line into the running result.
// Tokens are consumed positionally:
//
//   - depth only ratchets upward — engines emit out-of-order or retried
//     depths that must not regress the reported value
//   - score is overwritten by the most recent cp or mate token
//   - pv is replaced wholesale by the most recent token list, terminated
//     by the next recognized keyword (depth, score, time) or end of line
func applyInfoLine(line string, result *chessmcp.AnalysisResult) {
	tokens := strings.Fields(line)
	i := 1 // skip "info"
	for i < len(tokens) {
		switch {
		case tokens[i] == "depth" && i+1 < len(tokens):
			if d, err := strconv.Atoi(tokens[i+1]); err == nil && d > result.Depth {
				result.Depth = d
			}
			i += 2

		case tokens[i] == "score" && i+2 < len(tokens):
			switch tokens[i+1] {
			case "cp":
				if n, err := strconv.Atoi(tokens[i+2]); err == nil {
					result.Score = chessmcp.Centipawns(n)
				}
			case "mate":
				if n, err := strconv.Atoi(tokens[i+2]); err == nil {
					result.Score = chessmcp.MateScore(n)
				}
			}
			i += 3

		case tokens[i] == "pv" && i+1 < len(tokens):
			i++
			var pv []string
			for i < len(tokens) && !pvTerminator(tokens[i]) {
				pv = append(pv, tokens[i])
				i++
			}
			if len(pv) > 0 {
				result.PV = pv
			}

		default:
			i++
		}
	}
}

func pvTerminator(token string) bool {
	return token == "depth" || token == "score" || token == "time"
}
