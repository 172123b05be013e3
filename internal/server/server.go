// Package server implements the stdio JSON-RPC dispatcher. It reads one
// request per line from its input stream, routes it through an immutable
// method table, and writes at most one response line per request, flushed
// before the next read. All diagnostics go to the logger; protocol bytes
// never do.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/transcripttools/youtube-transcript-mcp/internal/jsonrpc"
	"github.com/transcripttools/youtube-transcript-mcp/internal/logctx"
	"github.com/transcripttools/youtube-transcript-mcp/internal/transcript"
	"github.com/transcripttools/youtube-transcript-mcp/mcp"
)

// DefaultProtocolVersion is echoed to clients that do not declare one.
const DefaultProtocolVersion = "0.1.0"

// maxLineBytes bounds a single request line.
const maxLineBytes = 1 << 20

// handlerFunc processes one request's params. A nil result with a nil
// rpcErr marks a notification: no response line is written at all, which is
// distinct from responding with an empty object.
type handlerFunc func(ctx context.Context, params json.RawMessage) (result any, rpcErr *jsonrpc.Error)

// Server is the stdio dispatcher. The handler table is built once in New
// and never mutated; per-request state lives only on the stack of
// handleLine.
type Server struct {
	provider     transcript.Provider
	handlers     map[mcp.Method]handlerFunc
	toolDesc     mcp.Tool
	info         mcp.ImplementationInfo
	defaultLangs []string

	r   io.Reader
	w   io.Writer
	log *slog.Logger
}

// New constructs a Server for the given transcript provider and applies
// options. By default it speaks on os.Stdin/os.Stdout and discards logs.
func New(provider transcript.Provider, opts ...Option) *Server {
	s := &Server{
		provider: provider,
		info:     mcp.ImplementationInfo{Name: "youtube-transcript-server", Version: "0.1.0"},
		r:        os.Stdin,
		w:        os.Stdout,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.toolDesc = transcriptToolDescriptor()
	s.handlers = map[mcp.Method]handlerFunc{
		mcp.InitializeMethod:              s.handleInitialize,
		mcp.ToolsListMethod:               s.handleListTools,
		mcp.ToolsCallMethod:               s.handleCallTool,
		mcp.ResourcesListMethod:           s.handleListResources,
		mcp.ResourcesTemplatesListMethod:  s.handleListResourceTemplates,
		mcp.InitializedNotificationMethod: s.handleNotification,
		mcp.CancelledNotificationMethod:   s.handleCancelled,
	}
	return s
}

// Serve runs the dispatch loop until EOF on the input stream or context
// cancellation. Requests are handled strictly sequentially: each line is
// parsed, dispatched and answered before the next read. Oversized lines are
// drained and answered with an internal error; only end-of-input ends the
// loop.
func (s *Server) Serve(ctx context.Context) error {
	s.log.InfoContext(ctx, "starting youtube transcript server",
		slog.String("name", s.info.Name),
		slog.String("version", s.info.Version))

	reader := bufio.NewReaderSize(s.r, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := readLine(reader)
		switch {
		case errors.Is(err, errLineTooLong):
			s.log.ErrorContext(ctx, "request line too long", slog.Int("limit", maxLineBytes))
			s.writeResponse(ctx, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInternalError,
				fmt.Sprintf("request line exceeds %d bytes", maxLineBytes)))
			continue
		case errors.Is(err, io.EOF):
			s.log.InfoContext(ctx, "input stream closed, shutting down")
			return nil
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}
		if isBlank(line) {
			continue
		}
		s.handleLine(ctx, line)
	}
}

var errLineTooLong = errors.New("request line too long")

// readLine reads one newline-terminated line (without the terminator). A
// final line without a newline is returned before io.EOF. Lines beyond
// maxLineBytes are consumed to their end and reported as errLineTooLong so
// the stream stays aligned for the next request.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		switch {
		case err == nil:
			line = line[:len(line)-1]
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			if len(line) > maxLineBytes {
				if derr := drainLine(r); derr != nil {
					return nil, derr
				}
				return nil, errLineTooLong
			}
		case errors.Is(err, io.EOF):
			if len(line) > 0 {
				return line, nil
			}
			return nil, io.EOF
		default:
			return nil, err
		}
	}
}

// drainLine discards input up to and including the next newline. EOF while
// draining is not an error here; the next readLine call reports it.
func drainLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
		default:
			return err
		}
	}
}

func isBlank(line []byte) bool {
	for _, b := range line {
		switch b {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

// handleLine processes exactly one request line. It never lets a failure
// escape: malformed input and handler panics both turn into internal-error
// responses so the loop keeps serving.
func (s *Server) handleLine(ctx context.Context, line []byte) {
	ctx = logctx.WithRequestData(ctx, &logctx.RequestData{RequestID: uuid.NewString()})
	s.log.DebugContext(ctx, "received message", slog.Int("bytes", len(line)))

	req, err := jsonrpc.ParseRequest(line)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to parse request", slog.String("error", err.Error()))
		s.writeResponse(ctx, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInternalError, err.Error()))
		return
	}

	msgType := "request"
	if req.IsNotification() {
		msgType = "notification"
	}
	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: req.Method,
		ID:     req.ID.String(),
		Type:   msgType,
	})

	handler, ok := s.handlers[mcp.Method(req.Method)]
	if !ok {
		s.log.ErrorContext(ctx, "unknown method")
		s.writeResponse(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound,
			fmt.Sprintf("Unknown method: %s", req.Method)))
		return
	}

	result, rpcErr := s.dispatch(ctx, handler, req.Params)
	if rpcErr != nil {
		s.writeResponse(ctx, jsonrpc.NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message))
		return
	}
	if result == nil {
		// Notification outcome: suppress output entirely.
		return
	}

	resp, err := jsonrpc.NewResultResponse(req.ID, result)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to marshal result", slog.String("error", err.Error()))
		s.writeResponse(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, err.Error()))
		return
	}
	s.writeResponse(ctx, resp)
}

// dispatch invokes a handler, converting a panic into an internal error so
// one bad request cannot take the process down.
func (s *Server) dispatch(ctx context.Context, handler handlerFunc, params json.RawMessage) (result any, rpcErr *jsonrpc.Error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "handler panic", slog.Any("panic", r))
			result = nil
			rpcErr = jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, fmt.Sprintf("%v", r))
		}
	}()
	return handler(ctx, params)
}

// writeResponse emits one JSON line and flushes it so the host can consume
// responses incrementally. A write failure is terminal for the peer, not
// for us; it is logged and the loop continues to EOF.
func (s *Server) writeResponse(ctx context.Context, resp *jsonrpc.Response) {
	b, err := json.Marshal(resp)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to marshal response", slog.String("error", err.Error()))
		return
	}
	b = append(b, '\n')
	if _, err := s.w.Write(b); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		s.log.ErrorContext(ctx, "failed to write response", slog.String("error", err.Error()))
		return
	}
	if f, ok := s.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	s.log.DebugContext(ctx, "sent response", slog.Int("bytes", len(b)))
}
