package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/fossabot/f4tapir/internal/timestamp"
	"github.com/fossabot/f4tapir/internal/transcript"
)

// Plan describes what a merge would do, without writing anything.
type Plan struct {
	Transcripts []PlanEntry `yaml:"transcripts"`
	Skipped     []Skipped   `yaml:"skipped,omitempty"`
	// Length of the merged transcript.
	Length string `yaml:"length"`

	stats transcript.Stats
}

// PlanEntry is one transcript of a Plan.
type PlanEntry struct {
	Path         string `yaml:"path"`
	EndTime      string `yaml:"end_time"`
	Shift        string `yaml:"shift"`
	Lines        int    `yaml:"lines"`
	FirstSpeaker string `yaml:"first_speaker,omitempty"`
	LastSpeaker  string `yaml:"last_speaker,omitempty"`
	// Splice is set if the first line joins the last line of the
	// transcript before.
	Splice bool `yaml:"splice"`
}

// Skipped is an input that failed to load.
type Skipped struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

// BuildPlan loads the transcripts at paths one by one and records how
// they would be merged.
func BuildPlan(ctx context.Context, paths []string) (*Plan, error) {
	plan := &Plan{}
	shift := timestamp.Zero()
	// last line of the transcript before, nil after an empty one
	var prev transcript.Line

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := transcript.Load(path)
		if err != nil {
			slog.Warn("failed to load transcript, skipping", "path", path, "err", err)
			plan.Skipped = append(plan.Skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}

		entry := PlanEntry{
			Path:    path,
			EndTime: doc.EndTime().String(),
			Shift:   shift.String(),
		}
		lines := doc.Lines()
		first, ok := lines.Next()
		if ok {
			entry.Lines = 1
			entry.FirstSpeaker = speaker(first)
			entry.Splice = transcript.SameSpeaker(prev, first)
		}
		for range lines.All() {
			entry.Lines++
		}
		last, _ := doc.Lines().Last()
		entry.LastSpeaker = speaker(last)

		plan.stats.Transcripts++
		// spliced lines count once
		plan.stats.Lines += entry.Lines
		if entry.Splice {
			plan.stats.Splices++
			plan.stats.Lines--
		}
		plan.Transcripts = append(plan.Transcripts, entry)
		shift = shift.Add(doc.EndTime())
		prev = last
	}
	if len(plan.Transcripts) == 0 {
		return nil, ErrNoTranscripts
	}
	plan.stats.Length = shift
	plan.Length = shift.String()
	return plan, nil
}

func speaker(line transcript.Line) string {
	if u, ok := line.(*transcript.Utterance); ok {
		return u.Speaker()
	}
	return ""
}

// Stats are the statistics the merge would report.
func (p *Plan) Stats() transcript.Stats {
	return p.stats
}

// Write encodes the plan as YAML.
func (p *Plan) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}
