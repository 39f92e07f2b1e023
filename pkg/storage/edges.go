package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ignetwork/pkg/errors"
	"ignetwork/pkg/models"
)

var edgeHeader = []string{"source", "target", "weight"}

// WriteEdges writes source,target,weight rows with two-decimal weights
func WriteEdges(path string, edges []models.Edge) error {
	err := WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(edgeHeader); err != nil {
			return err
		}
		for _, e := range edges {
			if err := cw.Write([]string{e.Source, e.Target, formatWeight(e.Weight)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return errors.Wrap(errors.ErrorTypeIO, path, "cannot write edge list", err)
	}
	return nil
}

// ReadEdges loads an edge list written by WriteEdges
func ReadEdges(path string) ([]models.Edge, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	edges, err := DecodeEdges(f)
	if err != nil {
		return nil, errors.Parse(path, "malformed edge list", err)
	}
	return edges, nil
}

// DecodeEdges reads an edge list with a source,target,weight header
func DecodeEdges(r io.Reader) ([]models.Edge, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	columns := indexHeader(header)
	for _, name := range edgeHeader {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var edges []models.Edge
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(record) < len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(record))
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(record[columns["weight"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: weight: %w", line, err)
		}
		edges = append(edges, models.Edge{
			Source: strings.TrimSpace(record[columns["source"]]),
			Target: strings.TrimSpace(record[columns["target"]]),
			Weight: weight,
		})
	}
	return edges, nil
}

// CommunityRow is one vertex of the community export
type CommunityRow struct {
	Handle    string
	Label     string
	Community int
	Relevance float64
	PageRank  float64
}

// WriteCommunities writes handle,label,community,relevance,pagerank rows
func WriteCommunities(path string, rows []CommunityRow) error {
	err := WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"handle", "label", "community", "relevance", "pagerank"}); err != nil {
			return err
		}
		for _, r := range rows {
			record := []string{
				r.Handle,
				r.Label,
				strconv.Itoa(r.Community),
				formatWeight(r.Relevance),
				strconv.FormatFloat(r.PageRank, 'f', 6, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return errors.Wrap(errors.ErrorTypeIO, path, "cannot write community export", err)
	}
	return nil
}

// StoredEdges returns a copy of edges with weights rounded the way
// WriteEdges stores them, so in-memory and re-read edges compare equal
func StoredEdges(edges []models.Edge) []models.Edge {
	out := make([]models.Edge, len(edges))
	for i, e := range edges {
		e.Weight, _ = strconv.ParseFloat(formatWeight(e.Weight), 64)
		out[i] = e
	}
	return out
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 2, 64)
}
