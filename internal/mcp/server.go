// Package mcp exposes the embedding service as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

// Server wraps the MCP server around an EmbedService.
type Server struct {
	mcp *gomcp.Server
	svc service.EmbedService
}

// NewServer creates an MCP server with the embed and model_info tools.
func NewServer(svc service.EmbedService, version string) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("embed service is required")
	}

	s := &Server{
		mcp: gomcp.NewServer(&gomcp.Implementation{Name: "embed-api", Version: version}, nil),
		svc: svc,
	}
	s.registerTools()
	return s, nil
}

// Serve runs the server in stdio mode until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "embed",
		Description: "Embed a batch of texts with the loaded model. Returns one vector per text, in input order, as a JSON array of arrays.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"texts": {"type": "array", "items": {"type": "string"}, "description": "Texts to embed, at least one"}
			},
			"required": ["texts"]
		}`),
	}, s.handleEmbed)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "model_info",
		Description: "Report which embedding model is loaded.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleModelInfo)
}

func (s *Server) handleEmbed(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Texts []string `json:"texts"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	vecs, err := s.svc.Embed(ctx, args.Texts)
	if errors.Is(err, service.ErrInvalidInput) {
		return toolError("No texts provided"), nil
	}
	if err != nil {
		return toolError("Embedding generation failed: %v", err), nil
	}

	data, err := json.Marshal(vecs)
	if err != nil {
		return toolError("failed to encode embeddings: %v", err), nil
	}
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: string(data)}},
	}, nil
}

func (s *Server) handleModelInfo(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	data, err := json.Marshal(s.svc.Info())
	if err != nil {
		return toolError("failed to encode info: %v", err), nil
	}
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
