// Package chessmcp bridges MCP callers to UCI chess engines.
//
// chessmcp wraps a UCI (Universal Chess Interface) engine subprocess —
// Stockfish, Lc0, or any engine speaking the UCI text protocol over standard
// input/output — and exposes it as a set of MCP tools.
//
// # Core Types
//
//   - [Engine] — the caller-facing bridge contract (start, stop, analyze)
//   - [AnalysisResult] — depth, score, principal variation, best move
//   - [Score] — centipawn evaluation or forced-mate marker
//   - [OptionMetadata] — engine-advertised option type, bounds, defaults
//   - [EngineID] — the engine's self-reported name and author
//
// The root package defines the shared vocabulary; implementations live in
// subpackages:
//
//   - engine/uci — the subprocess bridge (process lifecycle, UCI handshake,
//     analysis collection, option validation)
//   - server — the MCP stdio server exposing the bridge as tools
//   - config — YAML configuration
//
// # Quick Start
//
//	bridge := uci.New("/usr/local/bin/stockfish")
//	if err := bridge.Start(ctx); err != nil { log.Fatal(err) }
//	defer bridge.Stop(ctx)
//	res, err := bridge.Analyze(ctx, fen, 1000)
package chessmcp
