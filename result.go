package chessmcp

import (
	"encoding/json"
	"strconv"
)

// EngineID is the engine's self-reported identity, accumulated from
// "id name" and "id author" lines during the UCI handshake. Engines are
// not required to send either field.
type EngineID struct {
	Name   string `json:"name,omitempty"`
	Author string `json:"author,omitempty"`
}

// Score is an engine evaluation: either a centipawn value (expressed in
// pawns, i.e. centipawns divided by 100) or a forced mate in N moves.
type Score struct {
	// Pawns is the evaluation from the side to move's perspective.
	// Meaningful only when Mate is false.
	Pawns float64

	// MateIn is the signed number of moves to forced mate.
	// Meaningful only when Mate is true.
	MateIn int

	// Mate reports whether this score is a mate marker.
	Mate bool
}

// Centipawns builds a centipawn Score from a raw UCI "score cp" value.
func Centipawns(cp int) *Score {
	return &Score{Pawns: float64(cp) / 100}
}

// MateScore builds a forced-mate Score from a raw UCI "score mate" value.
func MateScore(n int) *Score {
	return &Score{MateIn: n, Mate: true}
}

// MarshalJSON renders centipawn scores as a number and mate scores as a
// "mateN" string, matching what UCI-facing clients expect.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.Mate {
		return json.Marshal("mate" + strconv.Itoa(s.MateIn))
	}
	return json.Marshal(s.Pawns)
}

func (s Score) String() string {
	if s.Mate {
		return "mate" + strconv.Itoa(s.MateIn)
	}
	return strconv.FormatFloat(s.Pawns, 'g', -1, 64)
}

// AnalysisResult is the folded outcome of one search. Fields accumulate
// from the engine's "info" stream: Depth only ratchets upward, Score and
// PV always hold the most recent value, and BestMove is set by the
// terminating "bestmove" line (absent if the search timed out first).
type AnalysisResult struct {
	Depth    int      `json:"depth"`
	Score    *Score   `json:"score"`
	PV       []string `json:"pv"`
	BestMove string   `json:"best_move,omitempty"`
}
