package server

import (
	"github.com/invopop/jsonschema"

	"github.com/transcripttools/youtube-transcript-mcp/mcp"
)

// transcriptToolDescriptor builds the get_transcript descriptor, reflecting
// the input schema from transcriptArgs so the advertised schema can never
// drift from what the handler decodes.
func transcriptToolDescriptor() mcp.Tool {
	return mcp.Tool{
		Name:        transcriptToolName,
		Description: "Get transcript for a YouTube video",
		InputSchema: reflectInputSchema[transcriptArgs](),
	}
}

// reflectInputSchema reflects a Go struct into the simplified ToolInputSchema
// shape used on the wire. Only object schemas map cleanly; anything else
// degrades to an empty object schema.
func reflectInputSchema[A any]() mcp.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference: true, // inline defs
		ExpandedStruct: true, // put struct at root
	}
	s := r.Reflect(new(A))

	if s == nil || s.Type != "object" {
		return mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]mcp.SchemaProperty{},
		}
	}

	props := make(map[string]mcp.SchemaProperty)
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = toSchemaProperty(el.Value)
		}
	}
	var required []string
	if len(s.Required) > 0 {
		required = append(required, s.Required...)
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// toSchemaProperty recursively maps a jsonschema.Schema node to the
// simplified wire shape.
func toSchemaProperty(s *jsonschema.Schema) mcp.SchemaProperty {
	if s == nil {
		return mcp.SchemaProperty{}
	}
	p := mcp.SchemaProperty{
		Type:        s.Type,
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		p.Enum = s.Enum
	}
	if s.Type == "array" && s.Items != nil {
		item := toSchemaProperty(s.Items)
		p.Items = &item
	}
	if s.Type == "object" && s.Properties != nil {
		m := make(map[string]mcp.SchemaProperty, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			m[el.Key] = toSchemaProperty(el.Value)
		}
		p.Properties = m
	}
	return p
}
