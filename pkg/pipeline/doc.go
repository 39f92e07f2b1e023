// Package pipeline runs the mention network batch end to end.
//
// Build reads the tracked handles, the post dataset and the mentions folder,
// extracts direct and co-mention edges and writes the raw and consolidated
// edge lists. Render reads the consolidated list back, drops light edges,
// detects communities and writes the interactive graph page. Run does both
// without re-reading the consolidated list.
//
// Empty results are reported as errors.ErrNoConnections and
// errors.ErrNoEdgesAfterFilter; no dependent artifact is written in that case.
//
//	p, err := pipeline.New(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	summary, err := p.Run(ctx)
package pipeline
