package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/config"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

func TestNewEmbedderHash(t *testing.T) {
	cfg := config.Default()
	cfg.ModelBackend = config.BackendHash
	cfg.ModelDimensions = 32

	e, err := loadModel(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadModel error: %v", err)
	}
	defer e.Close()

	if _, ok := e.(*service.HashEmbedder); !ok {
		t.Fatalf("got %T, want *service.HashEmbedder", e)
	}
	vecs, err := e.Embed(context.Background(), []string{"hello world"})
	if err != nil || len(vecs) != 1 || len(vecs[0]) != 32 {
		t.Errorf("Embed() = %d vectors, err %v", len(vecs), err)
	}
}

func TestNewEmbedderRemoteBackends(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{config.BackendOllama, "*service.OllamaEmbedder"},
		{config.BackendOpenAI, "*service.OpenAIEmbedder"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.ModelBackend = tt.backend
			e, err := newEmbedder(context.Background(), cfg)
			if err != nil {
				t.Fatalf("newEmbedder error: %v", err)
			}
			switch e.(type) {
			case *service.OllamaEmbedder, *service.OpenAIEmbedder:
			default:
				t.Errorf("got %T, want %s", e, tt.want)
			}
		})
	}
}

func TestNewEmbedderUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.ModelBackend = "tensorflow"
	if _, err := loadModel(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("model", "", "")
	cmd.Flags().String("backend", "", "")
	cmd.Flags().String("host", "", "")
	cmd.Flags().String("port", "", "")
	cmd.Flags().String("log-level", "", "")
	if err := cmd.Flags().Parse([]string{"--model", "custom/model", "--port", "9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Default()
	applyFlags(cmd, &cfg)

	if cfg.ModelName != "custom/model" || cfg.Port != "9001" {
		t.Errorf("flags not applied: model=%q port=%q", cfg.ModelName, cfg.Port)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("unset flag changed host to %q", cfg.Host)
	}
}
