package mention

import (
	"time"

	"ignetwork/pkg/alias"
	"ignetwork/pkg/logger"
	"ignetwork/pkg/models"
)

// Scan field sets of the two extraction variants
var (
	BasicFields = []string{
		models.ColumnCaption,
		models.ColumnUsertags,
	}
	ExtendedFields = []string{
		models.ColumnCaption,
		models.ColumnUsertags,
		models.ColumnTranscript,
		models.ColumnURL,
		models.ColumnShortcode,
		models.ColumnMediaType,
	}
)

// Options controls which posts and columns an Extractor scans
type Options struct {
	// Fields are the columns joined into the scan text
	Fields []string
	// OnlyTrackedAuthors skips posts whose author is not a tracked handle
	OnlyTrackedAuthors bool
	// Since and Until bound the post creation time; zero means unbounded
	Since time.Time
	Until time.Time
}

// Extractor turns posts into raw weighted mention edges
type Extractor struct {
	matcher *Matcher
	table   *alias.Table
	opts    Options
	logger  logger.Logger
}

// NewExtractor creates an extractor. A nil logger uses the global one.
func NewExtractor(matcher *Matcher, table *alias.Table, opts Options, log logger.Logger) *Extractor {
	if len(opts.Fields) == 0 {
		opts.Fields = BasicFields
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{
		matcher: matcher,
		table:   table,
		opts:    opts,
		logger:  log,
	}
}

// Direct emits author -> target for every distinct tracked handle a post
// mentions, weighted by the post's impact weight. Self mentions never
// produce an edge.
func (e *Extractor) Direct(posts []models.Post) []models.Edge {
	var edges []models.Edge
	for i := range posts {
		post := &posts[i]
		author := e.table.Resolve(post.Author)
		if author == "" || !e.inWindow(post) {
			continue
		}
		if e.opts.OnlyTrackedAuthors && !e.table.IsTracked(author) {
			continue
		}

		targets, ok := e.find(post, author)
		if !ok || len(targets) == 0 {
			continue
		}

		weight := ImpactWeight(post.Likes, post.Comments)
		for _, target := range targets {
			edges = append(edges, models.Edge{Source: author, Target: target, Weight: weight})
		}
	}
	return edges
}

// CoMentions scans posts collected for anchor. Posts by the anchor itself are
// skipped. The anchor always counts as mentioned; when a post mentions
// anything besides it, the author gets an edge to every mentioned handle
// except itself.
func (e *Extractor) CoMentions(anchor string, posts []models.Post) []models.Edge {
	var edges []models.Edge
	for i := range posts {
		post := &posts[i]
		author := e.table.Resolve(post.Author)
		if author == "" || author == anchor || !e.inWindow(post) {
			continue
		}

		targets, ok := e.find(post, "")
		if !ok {
			continue
		}
		found := withHandle(targets, anchor)
		if len(found) <= 1 {
			continue
		}

		weight := ImpactWeight(post.Likes, post.Comments)
		for _, target := range found {
			if target == author {
				continue
			}
			edges = append(edges, models.Edge{Source: author, Target: target, Weight: weight})
		}
	}
	return edges
}

func (e *Extractor) find(post *models.Post, exclude string) ([]string, bool) {
	targets, err := e.matcher.Find(post.Text(e.opts.Fields), exclude)
	if err != nil {
		e.logger.WithError(err).WithFields(map[string]interface{}{
			"author":    post.Author,
			"shortcode": post.Field(models.ColumnShortcode),
		}).Warn("Skipping post, mention scan failed")
		return nil, false
	}
	return targets, true
}

// inWindow reports whether the post falls inside the configured window.
// Undated posts are outside any bounded window.
func (e *Extractor) inWindow(post *models.Post) bool {
	if e.opts.Since.IsZero() && e.opts.Until.IsZero() {
		return true
	}
	if post.CreatedAt.IsZero() {
		return false
	}
	if !e.opts.Since.IsZero() && post.CreatedAt.Before(e.opts.Since) {
		return false
	}
	if !e.opts.Until.IsZero() && post.CreatedAt.After(e.opts.Until) {
		return false
	}
	return true
}

// withHandle returns the sorted set targets plus handle
func withHandle(targets []string, handle string) []string {
	for _, t := range targets {
		if t == handle {
			return targets
		}
	}
	out := make([]string, 0, len(targets)+1)
	inserted := false
	for _, t := range targets {
		if !inserted && handle < t {
			out = append(out, handle)
			inserted = true
		}
		out = append(out, t)
	}
	if !inserted {
		out = append(out, handle)
	}
	return out
}
