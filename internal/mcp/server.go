// Package mcp exposes distillation over the Model Context Protocol so
// agent clients can request a project's API surface on demand.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/apisurface/distill/internal/distiller"
	"github.com/apisurface/distill/internal/distiller/languages"
	"github.com/apisurface/distill/internal/search"
)

// Server manages the MCP server lifecycle.
type Server struct {
	orchestrator *distiller.Orchestrator
	logger       *slog.Logger
	mcp          *server.MCPServer

	mu        sync.Mutex
	lastIndex *search.Index
	lastRun   string
}

// NewServer creates an MCP server with the distill tools registered.
func NewServer(version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		orchestrator: distiller.NewOrchestrator(languages.NewRegistry(), logger),
		logger:       logger,
	}

	mcpServer := server.NewMCPServer(
		"distill-mcp",
		version,
		server.WithToolCapabilities(true),
	)
	s.addDistillTool(mcpServer)
	s.addSearchTool(mcpServer)
	s.mcp = mcpServer

	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the cached search index.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastIndex != nil {
		err := s.lastIndex.Close()
		s.lastIndex = nil
		return err
	}
	return nil
}

// rememberResult replaces the cached search index with one built from the
// latest run.
func (s *Server) rememberResult(result *distiller.Result) {
	idx, err := search.NewIndex(result)
	if err != nil {
		s.logger.Warn("failed to index result for search", "error", err)
		return
	}
	s.mu.Lock()
	if s.lastIndex != nil {
		s.lastIndex.Close()
	}
	s.lastIndex = idx
	s.lastRun = result.RunID
	s.mu.Unlock()
}
