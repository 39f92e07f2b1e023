// Package network consolidates mention edges into a weighted directed graph
// and partitions it into communities.
//
// Community detection sits behind the Detector interface. Louvain runs
// gonum's modularity optimisation seeded from a caller supplied seed;
// Components and Singleton are deterministic alternatives. Community ids are
// renumbered by each community's smallest handle.
package network
