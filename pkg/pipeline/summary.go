package pipeline

import "time"

// Summary reports what a run read, produced and wrote
type Summary struct {
	RunID string

	Entities     int
	Posts        int
	MentionFiles int
	SkippedFiles int

	DirectEdges       int
	CoMentionEdges    int
	RawEdges          int
	ConsolidatedEdges int
	FilteredEdges     int

	Vertices    int
	Communities int
	Modularity  float64
	Algorithm   string
	Seed        uint64

	Outputs  []string
	Duration time.Duration
}

// Fields flattens the summary for structured logging
func (s *Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"run_id":             s.RunID,
		"entities":           s.Entities,
		"posts":              s.Posts,
		"mention_files":      s.MentionFiles,
		"skipped_files":      s.SkippedFiles,
		"raw_edges":          s.RawEdges,
		"consolidated_edges": s.ConsolidatedEdges,
		"filtered_edges":     s.FilteredEdges,
		"vertices":           s.Vertices,
		"communities":        s.Communities,
		"modularity":         s.Modularity,
		"duration":           s.Duration,
	}
}
