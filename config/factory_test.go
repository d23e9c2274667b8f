package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mycontent/recserve/pipeline"
)

const pipelineYAML = `
pipeline:
  name: serving
  nodes:
    - type: recall.candidates
    - type: filter.seen
    - type: filter.rule
      config:
        expr: 'item.score >= 0.0'
    - type: rerank.topn
      config:
        n: 10
    - type: feature.enrich
`

func TestDefaultFactory_BuildsConfiguredPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "serving" || len(cfg.Pipeline.Nodes) != 5 {
		t.Fatalf("unexpected config: %+v", cfg.Pipeline)
	}

	pipe, err := cfg.BuildPipeline(DefaultFactory(&Runtime{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(pipe.Nodes) != 5 {
		t.Fatalf("got %d nodes", len(pipe.Nodes))
	}

	wantKinds := []pipeline.Kind{
		pipeline.KindRecall,
		pipeline.KindFilter,
		pipeline.KindFilter,
		pipeline.KindReRank,
		pipeline.KindPostProcess,
	}
	for i, node := range pipe.Nodes {
		if node.Kind() != wantKinds[i] {
			t.Errorf("node %d kind = %s, want %s", i, node.Kind(), wantKinds[i])
		}
	}
}

func TestDefaultFactory_UnknownNodeType(t *testing.T) {
	factory := DefaultFactory(&Runtime{})
	if _, err := factory.Build("rank.mystery", nil); err == nil {
		t.Fatal("expected error for unknown node type")
	}
}
