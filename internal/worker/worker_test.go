package worker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fossabot/f4tapir/internal/config"
	"github.com/fossabot/f4tapir/internal/output"
	"github.com/fossabot/f4tapir/internal/timestamp"
	"github.com/fossabot/f4tapir/internal/transcript"
)

const brokenTranscript = "{\\rtf1 #00:00:01-0#}"

// interviews copies the transcript fixtures into a new directory, with a
// transcript that fails to load in between.
func interviews(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for src, dst := range map[string]string{
		"interview-01.rtf": "01.rtf",
		"interview-02.rtf": "03.rtf",
	} {
		data, err := os.ReadFile(filepath.Join("..", "transcript", "testdata", src))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, dst), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02.rtf"), []byte(brokenTranscript), 0o644))
	return dir
}

// expected merges the fixtures directly.
func expected(t *testing.T) string {
	t.Helper()
	var docs []*transcript.Transcript
	for _, name := range []string{"interview-01.rtf", "interview-02.rtf"} {
		doc, err := transcript.Load(filepath.Join("..", "transcript", "testdata", name))
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	var buf bytes.Buffer
	_, err := transcript.Merge(&buf, slices.Values(docs))
	require.NoError(t, err)
	return buf.String()
}

func TestMerge_ToFile(t *testing.T) {
	in := interviews(t)
	out := filepath.Join(t.TempDir(), "merged.rtf")

	stats, err := Merge(context.Background(), MergeOptions{
		Inputs: []string{in},
		Output: out,
		Config: config.Default(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Transcripts)
	assert.Equal(t, 1, stats.Splices)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, expected(t), string(data))
}

func TestMerge_ToStdout(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Merge(context.Background(), MergeOptions{
		Inputs: []string{interviews(t)},
		Stdout: &stdout,
		Config: config.Default(),
	})
	require.NoError(t, err)
	assert.Equal(t, expected(t), stdout.String())
}

func TestMerge_NoTranscripts(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.rtf")
	opts := MergeOptions{Inputs: []string{in}, Output: out, Config: config.Default()}

	_, err := Merge(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoTranscripts)

	// found, but none loads
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.rtf"), []byte(brokenTranscript), 0o644))
	_, err = Merge(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoTranscripts)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge_OutputExists(t *testing.T) {
	in := interviews(t)
	out := filepath.Join(t.TempDir(), "merged.rtf")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0o644))

	cfg := config.Default()
	_, err := Merge(context.Background(), MergeOptions{Inputs: []string{in}, Output: out, Config: cfg})
	require.ErrorIs(t, err, output.ErrExists)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	cfg.Force = true
	_, err = Merge(context.Background(), MergeOptions{Inputs: []string{in}, Output: out, Config: cfg})
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, expected(t), string(data))
}

func TestMerge_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "merged.rtf")
	_, err := Merge(ctx, MergeOptions{Inputs: []string{interviews(t)}, Output: out, Config: config.Default()})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge_DryRun(t *testing.T) {
	in := interviews(t)
	var stdout bytes.Buffer
	stats, err := Merge(context.Background(), MergeOptions{
		Inputs: []string{in},
		DryRun: true,
		Stdout: &stdout,
		Config: config.Default(),
	})
	require.NoError(t, err)

	var plan Plan
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &plan))
	assert.Equal(t, []PlanEntry{
		{
			Path:        filepath.Join(in, "01.rtf"),
			EndTime:     "#00:05:00-0#",
			Shift:       "#00:00:00-0#",
			Lines:       12,
			LastSpeaker: "Z",
		},
		{
			Path:         filepath.Join(in, "03.rtf"),
			EndTime:      "#00:02:00-0#",
			Shift:        "#00:05:00-0#",
			Lines:        9,
			FirstSpeaker: "Z",
			LastSpeaker:  "Z",
			Splice:       true,
		},
	}, plan.Transcripts)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, filepath.Join(in, "02.rtf"), plan.Skipped[0].Path)
	assert.Contains(t, plan.Skipped[0].Reason, "preamble")
	assert.Equal(t, "#00:07:00-0#", plan.Length)

	assert.Equal(t, transcript.Stats{
		Transcripts: 2,
		Lines:       20,
		Splices:     1,
		Length:      timestamp.New(0, 7, 0, 0),
	}, stats)
}

func TestBuildPlan_MatchesMerge(t *testing.T) {
	in := interviews(t)
	paths := []string{
		filepath.Join(in, "03.rtf"),
		filepath.Join(in, "01.rtf"),
		filepath.Join(in, "03.rtf"),
	}
	plan, err := BuildPlan(context.Background(), paths)
	require.NoError(t, err)

	var stdout bytes.Buffer
	var docs []*transcript.Transcript
	for _, p := range paths {
		doc, err := transcript.Load(p)
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	stats, err := transcript.Merge(&stdout, slices.Values(docs))
	require.NoError(t, err)
	assert.Equal(t, stats, plan.Stats())
}
