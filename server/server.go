// Package server exposes a UCI engine bridge as MCP tools over stdio.
//
// The server speaks the Model Context Protocol on stdin/stdout, which is
// why every log line in this program goes to stderr. Tool-level failures
// (bad FEN, unknown option) are returned as tool result errors so the MCP
// client can surface them; only transport failures abort the serve loop.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
	"github.com/AnglerfishChess/chess-uci-mcp/config"
)

// Version is the server version reported during MCP initialization.
// Overridden at build time via -ldflags.
var Version = "dev"

const stopTimeout = 5 * time.Second

// Server wires a [chessmcp.Engine] to an MCP stdio server.
type Server struct {
	engine    chessmcp.Engine
	name      string
	path      string
	thinkTime int
	log       zerolog.Logger

	mcp *server.MCPServer
}

// New builds a server around engine using cfg for the default think time
// and the engine's display identity.
func New(engine chessmcp.Engine, cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		engine:    engine,
		name:      cfg.Engine.Name,
		path:      cfg.Engine.Path,
		thinkTime: cfg.DefaultThinkTime,
		log:       log,
	}
	s.mcp = server.NewMCPServer(
		"chess-uci-mcp",
		Version,
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// Serve starts the engine, then serves MCP over stdin/stdout until ctx is
// canceled or the client disconnects. The engine is stopped on the way
// out regardless of how the serve loop ended.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.engine.Start(ctx); err != nil {
		return fmt.Errorf("server: engine start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := s.engine.Stop(stopCtx); err != nil {
			s.log.Warn().Err(err).Msg("engine stop")
		}
	}()

	s.log.Info().Str("engine", s.name).Msg("serving MCP on stdio")
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// jsonResult marshals v into a text tool result. Tool payloads are JSON
// objects rendered as text content, matching what MCP clients expect.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("server: marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
