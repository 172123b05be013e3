// Command youtube-transcript-server is a stdio MCP server exposing one
// tool, get_transcript, which fetches a YouTube video's caption transcript.
// It reads newline-delimited JSON-RPC requests on stdin, answers on stdout,
// and logs to stderr. It is meant to be spawned as a subprocess by an MCP
// host.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/transcripttools/youtube-transcript-mcp/internal/config"
	"github.com/transcripttools/youtube-transcript-mcp/internal/logctx"
	"github.com/transcripttools/youtube-transcript-mcp/internal/server"
	"github.com/transcripttools/youtube-transcript-mcp/internal/transcript"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "youtube-transcript-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	if cfg.LogFormat == "json" {
		inner = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	log := slog.New(logctx.Handler{Handler: inner})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := transcript.NewYouTube(
		transcript.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		transcript.WithDefaultLanguages(cfg.DefaultLanguages),
		transcript.WithLogger(log),
	)

	srv := server.New(provider,
		server.WithLogger(log),
		server.WithDefaultLanguages(cfg.DefaultLanguages),
	)
	return srv.Serve(ctx)
}
