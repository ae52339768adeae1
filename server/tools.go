package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/notnil/chess"
)

// registerTools declares the six engine tools on the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("analyze",
		mcp.WithDescription("Analyze a chess position: returns search depth, evaluation, principal variation, and best move."),
		mcp.WithString("fen",
			mcp.Required(),
			mcp.Description("Position to analyze, in FEN notation."),
		),
		mcp.WithNumber("time_ms",
			mcp.Description("Think time in milliseconds. Defaults to the configured think time."),
		),
	), s.handleAnalyze)

	s.mcp.AddTool(mcp.NewTool("get_best_move",
		mcp.WithDescription("Calculate the best move. If a FEN is supplied the position is set first; otherwise the engine's current position is searched."),
		mcp.WithString("fen",
			mcp.Description("Optional position to search, in FEN notation."),
		),
		mcp.WithNumber("time_ms",
			mcp.Description("Think time in milliseconds. Defaults to the configured think time."),
		),
	), s.handleGetBestMove)

	s.mcp.AddTool(mcp.NewTool("set_position",
		mcp.WithDescription("Set the engine's internal board from a FEN and/or a sequence of UCI moves. With no FEN, the standard starting position is used."),
		mcp.WithString("fen",
			mcp.Description("Optional base position, in FEN notation."),
		),
		mcp.WithArray("moves",
			mcp.Description("Optional UCI coordinate moves (e.g. e2e4, e7e8q) applied after the base position."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleSetPosition)

	s.mcp.AddTool(mcp.NewTool("engine_info",
		mcp.WithDescription("Return the configured engine's name, path, UCI identity, and configured options."),
	), s.handleEngineInfo)

	s.mcp.AddTool(mcp.NewTool("get_engine_options",
		mcp.WithDescription("Return the engine's advertised UCI options with their metadata and current values."),
	), s.handleGetEngineOptions)

	s.mcp.AddTool(mcp.NewTool("set_engine_options",
		mcp.WithDescription("Validate and apply UCI options. Invalid entries are reported per key without blocking valid ones."),
		mcp.WithObject("options",
			mcp.Required(),
			mcp.Description("Mapping of option name to value."),
		),
	), s.handleSetEngineOptions)
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fen, err := req.RequireString("fen")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validateFEN(fen); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMS := req.GetInt("time_ms", s.thinkTime)

	result, err := s.engine.Analyze(ctx, fen, timeMS)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analyze: %v", err)), nil
	}
	return jsonResult(map[string]any{"result": result})
}

func (s *Server) handleGetBestMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if fen := req.GetString("fen", ""); fen != "" {
		if err := validateFEN(fen); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.engine.SetPosition(ctx, fen, nil); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("set position: %v", err)), nil
		}
	}
	timeMS := req.GetInt("time_ms", s.thinkTime)

	move, err := s.engine.BestMove(ctx, timeMS)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get best move: %v", err)), nil
	}
	return jsonResult(map[string]any{"move": move})
}

func (s *Server) handleSetPosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fen := req.GetString("fen", "")
	if fen != "" {
		if err := validateFEN(fen); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	moves := req.GetStringSlice("moves", nil)
	for _, move := range moves {
		if err := validateMove(move); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if err := s.engine.SetPosition(ctx, fen, moves); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set position: %v", err)), nil
	}
	return jsonResult(map[string]any{"success": true})
}

func (s *Server) handleEngineInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"name":               s.name,
		"path":               s.path,
		"id":                 s.engine.ID(),
		"configured_options": s.engine.CurrentOptionValues(),
	})
}

func (s *Server) handleGetEngineOptions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metadata := s.engine.AvailableOptions()
	current := s.engine.CurrentOptionValues()

	options := make(map[string]any, len(metadata))
	for name, md := range metadata {
		value, applied := current[name]
		if !applied {
			value = md.Default
		}
		options[name] = map[string]any{
			"metadata":      md,
			"current_value": value,
		}
	}
	return jsonResult(map[string]any{"options": options})
}

func (s *Server) handleSetEngineOptions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["options"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("options must be an object mapping option names to values"), nil
	}

	applied, errs, err := s.engine.SetOptions(ctx, raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set options: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"success":         len(errs) == 0,
		"applied_options": applied,
		"errors":          errs,
	})
}

// validateFEN rejects malformed FEN strings before they reach the engine.
// Engines tend to misbehave quietly on bad positions rather than erroring.
func validateFEN(fen string) error {
	if _, err := chess.FEN(fen); err != nil {
		return fmt.Errorf("invalid FEN %q: %v", fen, err)
	}
	return nil
}

// validateMove checks the shape of a UCI coordinate move (e2e4, e7e8q).
// Moves are otherwise opaque: legality is the engine's problem.
func validateMove(move string) error {
	if len(move) < 4 || len(move) > 5 {
		return fmt.Errorf("invalid UCI move %q", move)
	}
	return nil
}
