package mcp

import "encoding/json"

// InitializeRequest starts the MCP initialization handshake. Only the
// protocol version is consulted; client info and capabilities are accepted
// but not acted upon.
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ClientInfo      ImplementationInfo `json:"clientInfo"`
}

// InitializeResult returns the echoed protocol version, server identity and
// capability declaration.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      ImplementationInfo `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
}

// ListToolsResult returns the available tools.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// ListResourcesResult returns the available resources (always empty here).
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ListResourceTemplatesResult returns resource templates (always empty here).
type ListResourceTemplatesResult struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
}

// CallToolRequestReceived is the server-received representation for a tool
// call. Arguments stay raw until the named tool's typed decoder runs.
type CallToolRequestReceived struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is a successful tool invocation result.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
}

// ToolError mirrors the JSON-RPC error shape but travels inside a result.
type ToolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CallToolErrorResult reports a tool failure as a result value. The hosting
// JSON-RPC envelope is still a success; the error lives under result.error.
type CallToolErrorResult struct {
	Error ToolError `json:"error"`
}

// TextResult builds a single-text-block CallToolResult.
func TextResult(s string) *CallToolResult {
	return &CallToolResult{Content: []ContentBlock{{Type: ContentTypeText, Text: s}}}
}
