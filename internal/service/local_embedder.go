package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// LocalOptions configures the in-process model.
type LocalOptions struct {
	// ModelName is a HuggingFace repository, e.g.
	// "sentence-transformers/all-MiniLM-L6-v2".
	ModelName string
	// ModelDir is where downloaded models are cached.
	ModelDir string
	// ModelPath points at an already downloaded model and skips the download.
	ModelPath string
	// OnnxFile is the ONNX graph inside the model repository.
	OnnxFile string
}

// LocalEmbedder runs a sentence-transformers model in-process through a hugot
// feature-extraction pipeline. Outputs are mean pooled and L2 normalised.
type LocalEmbedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewLocalEmbedder downloads the model if needed and builds the pipeline.
// It is meant to be called once at startup; loading can take a while.
func NewLocalEmbedder(opts LocalOptions) (*LocalEmbedder, error) {
	if opts.ModelName == "" && opts.ModelPath == "" {
		return nil, fmt.Errorf("local embedder: model name or path is required")
	}

	modelPath := opts.ModelPath
	if modelPath == "" {
		if err := os.MkdirAll(opts.ModelDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create model dir %s: %w", opts.ModelDir, err)
		}
		dl := hugot.NewDownloadOptions()
		if opts.OnnxFile != "" {
			dl.OnnxFilePath = opts.OnnxFile
		}
		slog.Info("downloading model", "model", opts.ModelName, "dir", opts.ModelDir)
		p, err := hugot.DownloadModel(opts.ModelName, opts.ModelDir, dl)
		if err != nil {
			return nil, fmt.Errorf("failed to download model %s: %w", opts.ModelName, err)
		}
		modelPath = p
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, pipelineConfig(modelPath, opts.OnnxFile))
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	return &LocalEmbedder{session: session, pipeline: pipeline}, nil
}

// pipelineConfig builds the feature-extraction config. hugot matches
// OnnxFilename against bare file names, so a repo-relative path such as
// "onnx/model.onnx" is reduced to "model.onnx".
func pipelineConfig(modelPath, onnxFile string) hugot.FeatureExtractionConfig {
	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embed-api",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	if onnxFile != "" {
		config.OnnxFilename = filepath.Base(onnxFile)
	}
	return config
}

// Embed runs the whole batch through the pipeline in a single call.
func (l *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := l.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}
	return result.Embeddings, nil
}

// Close destroys the hugot session and everything it loaded.
func (l *LocalEmbedder) Close() error {
	return l.session.Destroy()
}
