package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

type brokenEmbedder struct{}

func (brokenEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("session destroyed")
}
func (brokenEmbedder) Close() error { return nil }

func makeServer(t *testing.T, embedder service.Embedder) *Server {
	t.Helper()
	s, err := NewServer(service.NewEmbedService("test-model", embedder), "test")
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return s
}

func hashServer(t *testing.T) *Server {
	t.Helper()
	e, err := service.NewHashEmbedder(8)
	if err != nil {
		t.Fatalf("NewHashEmbedder error: %v", err)
	}
	return makeServer(t, e)
}

func request(t *testing.T, name string, args interface{}) *gomcp.CallToolRequest {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	return &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{Name: name, Arguments: argsJSON},
	}
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestNewServerRequiresService(t *testing.T) {
	if _, err := NewServer(nil, "test"); err == nil {
		t.Error("expected error when embed service is nil")
	}
}

func TestEmbedTool(t *testing.T) {
	s := hashServer(t)

	result, err := s.handleEmbed(context.Background(), request(t, "embed", map[string]any{"texts": []string{"a", "b"}}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", getTextContent(result))
	}

	var vecs [][]float32
	if err := json.Unmarshal([]byte(getTextContent(result)), &vecs); err != nil {
		t.Fatalf("decode vectors: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 8 || len(vecs[1]) != 8 {
		t.Errorf("got shape %d x %d, want 2 x 8", len(vecs), len(vecs[0]))
	}
}

func TestEmbedToolErrors(t *testing.T) {
	result, _ := hashServer(t).handleEmbed(context.Background(), request(t, "embed", map[string]any{"texts": []string{}}))
	if !result.IsError || getTextContent(result) != "No texts provided" {
		t.Errorf("empty batch result = %+v", getTextContent(result))
	}

	result, _ = makeServer(t, brokenEmbedder{}).handleEmbed(context.Background(), request(t, "embed", map[string]any{"texts": []string{"x"}}))
	if !result.IsError || !strings.Contains(getTextContent(result), "session destroyed") {
		t.Errorf("model failure result = %q", getTextContent(result))
	}
}

func TestModelInfoTool(t *testing.T) {
	result, err := hashServer(t).handleModelInfo(context.Background(), request(t, "model_info", map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(getTextContent(result), `"model":"test-model"`) {
		t.Errorf("model_info = %s", getTextContent(result))
	}
}
