package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/transcripttools/youtube-transcript-mcp/internal/jsonrpc"
	"github.com/transcripttools/youtube-transcript-mcp/internal/logctx"
	"github.com/transcripttools/youtube-transcript-mcp/internal/transcript"
	"github.com/transcripttools/youtube-transcript-mcp/mcp"
)

// transcriptToolName is the single tool this server exposes.
const transcriptToolName = "get_transcript"

func (s *Server) handleInitialize(ctx context.Context, params json.RawMessage) (any, *jsonrpc.Error) {
	var req mcp.InitializeRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			s.log.ErrorContext(ctx, "invalid initialize params", slog.String("error", err.Error()))
			return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, err.Error())
		}
	}

	protocolVersion := req.ProtocolVersion
	if protocolVersion == "" {
		protocolVersion = DefaultProtocolVersion
	}
	s.log.InfoContext(ctx, "initialize",
		slog.String("protocol_version", protocolVersion),
		slog.String("client", req.ClientInfo.Name))

	return &mcp.InitializeResult{
		// Echo the client's declared protocol version.
		ProtocolVersion: protocolVersion,
		ServerInfo:      s.info,
		Capabilities: mcp.ServerCapabilities{
			Tools:             mcp.CapabilityStatus{Available: true},
			Resources:         mcp.CapabilityStatus{Available: false},
			ResourceTemplates: mcp.CapabilityStatus{Available: false},
		},
	}, nil
}

func (s *Server) handleListTools(ctx context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
	return &mcp.ListToolsResult{Tools: []mcp.Tool{s.toolDesc}}, nil
}

func (s *Server) handleListResources(ctx context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
	return &mcp.ListResourcesResult{Resources: []mcp.Resource{}}, nil
}

func (s *Server) handleListResourceTemplates(ctx context.Context, _ json.RawMessage) (any, *jsonrpc.Error) {
	return &mcp.ListResourceTemplatesResult{ResourceTemplates: []mcp.ResourceTemplate{}}, nil
}

// handleNotification accepts notifications/initialized. Returning a nil
// result tells the loop to write nothing.
func (s *Server) handleNotification(ctx context.Context, params json.RawMessage) (any, *jsonrpc.Error) {
	s.log.DebugContext(ctx, "received notification", slog.String("params", string(params)))
	return nil, nil
}

// handleCancelled logs a cancellation notification. There is no in-flight
// work to cancel: requests are handled one at a time to completion.
func (s *Server) handleCancelled(ctx context.Context, params json.RawMessage) (any, *jsonrpc.Error) {
	s.log.DebugContext(ctx, "received cancellation", slog.String("params", string(params)))
	return nil, nil
}

// transcriptArgs are the typed arguments of get_transcript. The tool input
// schema is reflected from this struct, so wire names and requiredness live
// in the tags.
type transcriptArgs struct {
	VideoID   string   `json:"video_id" jsonschema:"description=YouTube video ID (e.g. dQw4w9WgXcQ from youtube.com/watch?v=dQw4w9WgXcQ)"`
	Languages []string `json:"languages,omitempty" jsonschema:"description=Language codes to try in preference order (e.g. en). Optional."`
}

// toolErrorResult shapes a tool failure the way hosts of this server
// expect: inside the result, not as an RPC-level error.
func toolErrorResult(code jsonrpc.ErrorCode, message string) *mcp.CallToolErrorResult {
	return &mcp.CallToolErrorResult{Error: mcp.ToolError{Code: int(code), Message: message}}
}

func transcriptFailure(cause string) *mcp.CallToolErrorResult {
	return toolErrorResult(jsonrpc.ErrorCodeServerError, "Error getting transcript: "+cause)
}

func (s *Server) handleCallTool(ctx context.Context, params json.RawMessage) (any, *jsonrpc.Error) {
	var req mcp.CallToolRequestReceived
	if err := json.Unmarshal(params, &req); err != nil {
		s.log.ErrorContext(ctx, "invalid tools/call params", slog.String("error", err.Error()))
		return nil, jsonrpc.NewError(jsonrpc.ErrorCodeInternalError, err.Error())
	}

	ctx = logctx.WithToolCallData(ctx, &logctx.ToolCallData{ToolName: req.Name})

	if req.Name != transcriptToolName {
		s.log.ErrorContext(ctx, "unknown tool")
		return toolErrorResult(jsonrpc.ErrorCodeMethodNotFound,
			fmt.Sprintf("Unknown tool: %s", req.Name)), nil
	}

	var args transcriptArgs
	if len(req.Arguments) > 0 {
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			s.log.ErrorContext(ctx, "invalid tool arguments", slog.String("error", err.Error()))
			return transcriptFailure("invalid arguments: " + err.Error()), nil
		}
	}
	if args.VideoID == "" {
		s.log.ErrorContext(ctx, "missing required argument video_id")
		return transcriptFailure("video_id is required"), nil
	}

	languages := args.Languages
	if len(languages) == 0 {
		languages = s.defaultLangs
	}

	s.log.InfoContext(ctx, "fetching transcript",
		slog.String("video_id", args.VideoID),
		slog.Any("languages", languages))

	entries, err := s.provider.Fetch(ctx, args.VideoID, languages)
	if err != nil {
		s.log.ErrorContext(ctx, "transcript fetch failed",
			slog.String("video_id", args.VideoID),
			slog.String("error", err.Error()))
		return transcriptFailure(err.Error()), nil
	}

	text := transcript.JoinText(entries)
	s.log.InfoContext(ctx, "transcript fetched",
		slog.String("video_id", args.VideoID),
		slog.Int("entries", len(entries)),
		slog.Int("length", len(text)))

	return mcp.TextResult(text), nil
}
