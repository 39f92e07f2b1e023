// Package mention extracts weighted mention edges from post text.
//
// A Matcher is compiled once from the alias table. Direct scans posts for
// handles their author mentions; CoMentions scans posts gathered for one
// anchor handle and links each author to every handle mentioned alongside
// it. Every edge carries the impact weight of its post.
package mention
