package server

import (
	"io"
	"log/slog"

	"github.com/transcripttools/youtube-transcript-mcp/mcp"
)

// Option customizes a Server.
type Option func(*Server)

// WithIO sets the reader and writer for the server.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		if r != nil {
			s.r = r
		}
		if w != nil {
			s.w = w
		}
	}
}

// WithReader overrides the input stream.
func WithReader(r io.Reader) Option {
	return func(s *Server) {
		if r != nil {
			s.r = r
		}
	}
}

// WithWriter overrides the output stream.
func WithWriter(w io.Writer) Option {
	return func(s *Server) {
		if w != nil {
			s.w = w
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithServerInfo overrides the identity reported from initialize.
func WithServerInfo(info mcp.ImplementationInfo) Option {
	return func(s *Server) {
		if info.Name != "" {
			s.info = info
		}
	}
}

// WithDefaultLanguages sets the language preference forwarded to the
// provider when a tool call sends none. Most providers have their own
// default; this takes precedence when set.
func WithDefaultLanguages(langs []string) Option {
	return func(s *Server) {
		if len(langs) > 0 {
			s.defaultLangs = langs
		}
	}
}
