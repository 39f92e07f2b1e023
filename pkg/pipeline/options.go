package pipeline

import (
	"ignetwork/pkg/config"
	"ignetwork/pkg/mention"
	"ignetwork/pkg/visual"
)

// extractionOptions maps the extraction settings onto scanner options.
// The basic mode scans caption and tags of tracked authors only.
func extractionOptions(cfg config.ExtractionConfig) (mention.Options, error) {
	since, until, err := cfg.Window()
	if err != nil {
		return mention.Options{}, err
	}

	opts := mention.Options{Since: since, Until: until}
	switch cfg.Mode {
	case "basic":
		opts.Fields = mention.BasicFields
		opts.OnlyTrackedAuthors = true
	default:
		opts.Fields = mention.ExtendedFields
		if len(cfg.ScanFields) > 0 {
			opts.Fields = cfg.ScanFields
		}
		opts.OnlyTrackedAuthors = cfg.OnlyTrackedAuthors
	}
	return opts, nil
}

func visualOptions(cfg *config.Config) visual.Options {
	v := cfg.Visual
	return visual.Options{
		MinWeight:         v.MinWeight,
		NodeSize:          visual.Bounds{Min: v.MinNodeSize, Max: v.MaxNodeSize},
		EdgeWidth:         visual.Bounds{Min: v.MinEdgeWidth, Max: v.MaxEdgeWidth},
		Policy:            visual.VertexPolicy(v.VertexPolicy),
		CandidateFontSize: v.CandidateFontSize,
		FontSize:          v.FontSize,
		Saturation:        v.Saturation,
		Lightness:         v.Lightness,
	}
}

func page(cfg *config.Config) visual.Page {
	v, ph := cfg.Visual, cfg.Physics
	return visual.Page{
		Title:      v.Title,
		Height:     v.Height,
		Background: v.Background,
		FontColor:  v.FontColor,
		EdgeColor:  v.EdgeColor,
		Physics: visual.Physics{
			Gravity:        ph.Gravity,
			CentralGravity: ph.CentralGravity,
			SpringLength:   ph.SpringLength,
			SpringConstant: ph.SpringConstant,
			Damping:        ph.Damping,
			AvoidOverlap:   ph.AvoidOverlap,
		},
	}
}
