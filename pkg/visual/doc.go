// Package visual turns a partitioned mention graph into drawable nodes and
// edges and renders them as an interactive vis-network page.
//
// Node size encodes relevance, the total weight a handle receives. Edge width
// encodes weight. Both are min-max rescaled into configured bounds and
// clamped. Colour encodes community, and tracked handles get larger outlined
// labels.
package visual
