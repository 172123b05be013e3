// Package mcp contains the wire-level data types and method constants for
// the slice of the Model Context Protocol this server speaks: the
// initialize handshake, tool listing and invocation, and the (empty)
// resource listings.
//
// The package is intentionally free of transport logic: the stdio dispatcher
// imports these types and handles its own framing and JSON-RPC enveloping.
//
// # Method Names
//
// JSON-RPC method and notification names are enumerated as Method constants
// (e.g. ToolsListMethod). Using the constants avoids typographical mistakes
// and gives the dispatcher a single point of truth for its handler table.
//
// # Tool Results
//
// A tools/call invocation produces one of two result shapes: CallToolResult
// carrying content blocks on success, or CallToolErrorResult carrying a
// code/message pair under an "error" key. The latter travels inside a
// successful JSON-RPC envelope; that is deliberate and mirrors how hosts of
// this server expect tool failures to be reported.
package mcp
