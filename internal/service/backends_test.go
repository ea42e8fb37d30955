package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestHashEmbedder(t *testing.T) {
	e, err := NewHashEmbedder(64)
	if err != nil {
		t.Fatalf("NewHashEmbedder error: %v", err)
	}

	vecs, err := e.Embed(context.Background(), []string{"alpha", "beta", "alpha"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 64 {
			t.Errorf("vector %d has %d dims, want 64", i, len(v))
		}
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if math.Abs(norm-1) > 1e-4 {
			t.Errorf("vector %d norm² = %f, want 1", i, norm)
		}
	}
	if !reflect.DeepEqual(vecs[0], vecs[2]) {
		t.Error("equal texts should map to equal vectors")
	}
	if reflect.DeepEqual(vecs[0], vecs[1]) {
		t.Error("different texts should map to different vectors")
	}
}

func TestHashEmbedderRejectsBadDimensions(t *testing.T) {
	if _, err := NewHashEmbedder(0); err == nil {
		t.Error("expected error for zero dimensions")
	}
}

func TestOllamaEmbedderBatch(t *testing.T) {
	var got ollamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %s, want /api/embed", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1, 2}, {3, 4}}})
	}))
	defer server.Close()

	e := NewOllamaEmbedder(server.URL+"/", "all-minilm")
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if got.Model != "all-minilm" || !reflect.DeepEqual(got.Input, []string{"a", "b"}) {
		t.Errorf("request = %+v", got)
	}
	if !reflect.DeepEqual(vecs, [][]float32{{1, 2}, {3, 4}}) {
		t.Errorf("vectors = %v", vecs)
	}
}

func TestOllamaEmbedderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewOllamaEmbedder(server.URL, "missing").Embed(context.Background(), []string{"a"})
	if err == nil || !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error = %v, want status and body", err)
	}
}

func TestOpenAIEmbedderReordersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req openAIEmbeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Dimensions != 3 || len(req.Input) != 2 {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"data": [
			{"index": 1, "embedding": [4, 5, 6]},
			{"index": 0, "embedding": [1, 2, 3]}
		]}`))
	}))
	defer server.Close()

	e := NewOpenAIEmbedder(server.URL, "text-embedding-3-small", "sk-test", 3)
	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if !reflect.DeepEqual(vecs, [][]float32{{1, 2, 3}, {4, 5, 6}}) {
		t.Errorf("vectors = %v, want input order", vecs)
	}
}

func TestOpenAIEmbedderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"status", http.StatusUnauthorized, `{"error": "bad key"}`, "(401)"},
		{"short", http.StatusOK, `{"data": [{"index": 0, "embedding": [1]}]}`, "1 items for 2 inputs"},
		{"gap", http.StatusOK, `{"data": [{"index": 0, "embedding": [1]}, {"index": 5, "embedding": [2]}]}`, "missing index 1"},
		{"garbage", http.StatusOK, `not json`, "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewOpenAIEmbedder(server.URL, "m", "k", 0).Embed(context.Background(), []string{"a", "b"})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

// fakePredictor answers Predict from a canned response.
type fakePredictor struct {
	req  *aiplatformpb.PredictRequest
	resp *aiplatformpb.PredictResponse
	err  error
}

func (f *fakePredictor) Predict(_ context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakePredictor) Close() error { return nil }

func vertexPrediction(t *testing.T, values ...float64) *structpb.Value {
	t.Helper()
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	s, err := structpb.NewStruct(map[string]interface{}{
		"embeddings": map[string]interface{}{"values": vals},
	})
	if err != nil {
		t.Fatalf("build prediction: %v", err)
	}
	return structpb.NewStructValue(s)
}

func TestVertexEmbedderBatch(t *testing.T) {
	fake := &fakePredictor{resp: &aiplatformpb.PredictResponse{
		Predictions: []*structpb.Value{
			vertexPrediction(t, 0.5, 0.25),
			vertexPrediction(t, 1, 2),
		},
	}}
	e := newVertexEmbedder(fake, VertexOptions{ProjectID: "p", Location: "europe-west4", Model: "text-embedding-005"})

	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed error: %v", err)
	}
	if !reflect.DeepEqual(vecs, [][]float32{{0.5, 0.25}, {1, 2}}) {
		t.Errorf("vectors = %v", vecs)
	}

	wantEndpoint := "projects/p/locations/europe-west4/publishers/google/models/text-embedding-005"
	if fake.req.Endpoint != wantEndpoint {
		t.Errorf("endpoint = %s, want %s", fake.req.Endpoint, wantEndpoint)
	}
	if len(fake.req.Instances) != 2 {
		t.Fatalf("sent %d instances, want 2", len(fake.req.Instances))
	}
	fields := fake.req.Instances[1].GetStructValue().GetFields()
	if fields["content"].GetStringValue() != "b" || fields["task_type"].GetStringValue() != "RETRIEVAL_QUERY" {
		t.Errorf("instance = %v", fields)
	}
}

func TestVertexEmbedderErrors(t *testing.T) {
	opts := VertexOptions{ProjectID: "p", Location: "us-central1", Model: "m"}

	e := newVertexEmbedder(&fakePredictor{err: errors.New("permission denied")}, opts)
	if _, err := e.Embed(context.Background(), []string{"a"}); err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("error = %v", err)
	}

	e = newVertexEmbedder(&fakePredictor{resp: &aiplatformpb.PredictResponse{}}, opts)
	if _, err := e.Embed(context.Background(), []string{"a"}); err == nil {
		t.Error("expected error for missing predictions")
	}

	e = newVertexEmbedder(&fakePredictor{resp: &aiplatformpb.PredictResponse{
		Predictions: []*structpb.Value{vertexPrediction(t)},
	}}, opts)
	if _, err := e.Embed(context.Background(), []string{"a"}); err == nil {
		t.Error("expected error for empty embedding values")
	}
}

func TestNewVertexEmbedderRequiresProject(t *testing.T) {
	if _, err := NewVertexEmbedder(context.Background(), VertexOptions{}); err == nil {
		t.Error("expected error without project id")
	}
}
