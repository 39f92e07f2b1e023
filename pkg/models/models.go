package models

import (
	"strings"
	"time"
)

// Standard column names of the scraped post dataset
const (
	ColumnUsername   = "username"
	ColumnCaption    = "post_caption"
	ColumnUsertags   = "usertags"
	ColumnLikes      = "likes_count"
	ColumnComments   = "comments_count"
	ColumnMediaType  = "media_type"
	ColumnCreatedAt  = "post_created_at_str"
	ColumnShortcode  = "post_shortcode"
	ColumnURL        = "post_url"
	ColumnTranscript = "post_transcript"
)

// Post is one published item read from a post dataset
type Post struct {
	Author    string
	Caption   string
	Tags      []string
	Likes     float64
	Comments  float64
	MediaType string
	CreatedAt time.Time

	// Fields holds every column of the source row by header name
	Fields map[string]string
}

// Field returns the named column, or "" when the row has no such column
func (p *Post) Field(name string) string {
	if p.Fields == nil {
		return ""
	}
	return p.Fields[name]
}

// Text joins the named columns into one scan buffer separated by spaces
func (p *Post) Text(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, name := range fields {
		parts = append(parts, p.Field(name))
	}
	return strings.Join(parts, " ")
}

// Edge is a directed weighted interaction between two handles
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Pair returns the ordered (source, target) key of the edge
func (e Edge) Pair() [2]string {
	return [2]string{e.Source, e.Target}
}
