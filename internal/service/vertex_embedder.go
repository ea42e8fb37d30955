package service

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// VertexOptions configures the Vertex AI backend.
type VertexOptions struct {
	ProjectID       string
	Location        string // defaults to us-central1
	Model           string // publisher model, e.g. text-embedding-005
	CredentialsFile string // empty means application default credentials
	TaskType        string // defaults to RETRIEVAL_QUERY
}

// predictor is the slice of the prediction client the embedder needs.
type predictor interface {
	Predict(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error)
	Close() error
}

// predictionClient adapts *aiplatform.PredictionClient to predictor.
type predictionClient struct {
	c *aiplatform.PredictionClient
}

func (p predictionClient) Predict(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
	return p.c.Predict(ctx, req)
}

func (p predictionClient) Close() error {
	return p.c.Close()
}

// VertexEmbedder uses a Google publisher embedding model on Vertex AI.
type VertexEmbedder struct {
	client   predictor
	endpoint string
	taskType string
}

// NewVertexEmbedder creates the prediction client for the configured region.
func NewVertexEmbedder(ctx context.Context, opts VertexOptions) (*VertexEmbedder, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("vertex embedder: project id is required")
	}
	if opts.Location == "" {
		opts.Location = "us-central1"
	}

	clientOpts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", opts.Location)),
	}
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := aiplatform.NewPredictionClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return newVertexEmbedder(predictionClient{c: client}, opts), nil
}

func newVertexEmbedder(client predictor, opts VertexOptions) *VertexEmbedder {
	taskType := opts.TaskType
	if taskType == "" {
		taskType = "RETRIEVAL_QUERY"
	}
	return &VertexEmbedder{
		client:   client,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", opts.ProjectID, opts.Location, opts.Model),
		taskType: taskType,
	}
}

// Embed sends every text as one instance of a single PredictRequest.
func (v *VertexEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	instances := make([]*structpb.Value, len(texts))
	for i, text := range texts {
		instance, err := structpb.NewStruct(map[string]interface{}{
			"content":   text,
			"task_type": v.taskType,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create instance: %w", err)
		}
		instances[i] = structpb.NewStructValue(instance)
	}

	resp, err := v.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  v.endpoint,
		Instances: instances,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	if len(resp.Predictions) != len(texts) {
		return nil, fmt.Errorf("got %d predictions for %d texts", len(resp.Predictions), len(texts))
	}

	out := make([][]float32, len(resp.Predictions))
	for i, p := range resp.Predictions {
		embeddings := p.GetStructValue().GetFields()["embeddings"].GetStructValue()
		values := embeddings.GetFields()["values"].GetListValue().GetValues()
		if len(values) == 0 {
			return nil, fmt.Errorf("prediction %d has no embedding values", i)
		}

		vec := make([]float32, len(values))
		for j, val := range values {
			vec[j] = float32(val.GetNumberValue())
		}
		out[i] = vec
	}
	return out, nil
}

// Close releases the Vertex AI client resources.
func (v *VertexEmbedder) Close() error {
	return v.client.Close()
}
