package mcp

// Method is an MCP method identifier used in JSON-RPC messages.
type Method string

// MCP method names and notifications understood by this server.
const (
	// Initialization
	InitializeMethod              Method = "initialize"
	InitializedNotificationMethod Method = "notifications/initialized"

	// Tools
	ToolsListMethod Method = "tools/list"
	ToolsCallMethod Method = "tools/call"

	// Resources
	ResourcesListMethod          Method = "resources/list"
	ResourcesTemplatesListMethod Method = "resources/templates/list"

	// General
	CancelledNotificationMethod Method = "cancelled"
)

// ContentTypeText is the content block type for plain text.
const ContentTypeText = "text"

// ImplementationInfo describes the implementation name and version.
type ImplementationInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CapabilityStatus flags whether a capability class is available.
type CapabilityStatus struct {
	Available bool `json:"available"`
}

// ServerCapabilities advertises server features during initialization.
type ServerCapabilities struct {
	Tools             CapabilityStatus `json:"tools"`
	Resources         CapabilityStatus `json:"resources"`
	ResourceTemplates CapabilityStatus `json:"resourceTemplates"`
}

// ContentBlock is a typed content part of a tool result. Only text blocks
// are produced today; Data/MimeType exist for binary content parity with
// the protocol.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Tool describes a callable tool and its input schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ToolInputSchema is a JSON-schema-like description of tool input.
type ToolInputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty is a simplified schema node used in tool input schemas.
type SchemaProperty struct {
	Type        string                    `json:"type,omitempty"`
	Description string                    `json:"description,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty"`
	Enum        []any                     `json:"enum,omitempty"`
}

// Resource describes a readable resource. This server advertises none, but
// the type anchors the empty resources/list result shape.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceTemplate describes a parameterized resource URI. Unused, as above.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}
