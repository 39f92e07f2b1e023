package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignetwork/pkg/errors"
	"ignetwork/pkg/pipeline"
	"ignetwork/pkg/ui"
)

func TestCommandFlagsOnlyChanged(t *testing.T) {
	require.NoError(t, renderCmd.Flags().Set("seed", "42"))
	require.NoError(t, renderCmd.Flags().Set("vertex-policy", "all"))
	t.Cleanup(func() {
		seed = 0
		vertexPolicy = ""
		renderCmd.Flags().Lookup("seed").Changed = false
		renderCmd.Flags().Lookup("vertex-policy").Changed = false
	})

	flags := commandFlags(renderCmd)

	assert.Equal(t, uint64(42), flags["seed"])
	assert.Equal(t, "all", flags["vertex-policy"])
	assert.NotContains(t, flags, "min-weight")
	assert.NotContains(t, flags, "posts")
}

func TestStageFlags(t *testing.T) {
	assert.Nil(t, renderCmd.Flags().Lookup("posts"))
	assert.Nil(t, buildCmd.Flags().Lookup("graph-out"))
	assert.NotNil(t, runCmd.Flags().Lookup("posts"))
	assert.NotNil(t, runCmd.Flags().Lookup("graph-out"))
}

func TestSummaryRows(t *testing.T) {
	s := &pipeline.Summary{RunID: "r1", Entities: 3, ConsolidatedEdges: 4, Duration: time.Second}

	build := summaryRows(s, stageBuild)
	render := summaryRows(s, stageRender)
	all := summaryRows(s, stageRun)

	labels := func(rows []ui.Row) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Label)
		}
		return out
	}

	assert.Contains(t, labels(build), "Raw edges")
	assert.NotContains(t, labels(build), "Communities")
	assert.Contains(t, labels(render), "Communities")
	assert.NotContains(t, labels(render), "Raw edges")
	assert.Len(t, all, len(build)+len(render)-4)
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	ui.SetOutput(&buf)
	t.Cleanup(func() { ui.SetOutput(os.Stdout) })

	ctx := context.Background()
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"success", ctx, nil, 0},
		{"no connections", ctx, errors.ErrNoConnections, 0},
		{"nothing above threshold", ctx, errors.ErrNoEdgesAfterFilter, 0},
		{"missing input", ctx, errors.Config("posts.csv", "cannot open input", nil), 1},
		{"bad name map", ctx, errors.Parse("names.json", "not a JSON object", nil), 1},
		{"untyped failure", ctx, fmt.Errorf("community detection failed"), 1},
		{"interrupted", cancelled, context.Canceled, 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.ctx, tt.err))
		})
	}
}
