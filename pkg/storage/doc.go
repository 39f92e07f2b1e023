// Package storage reads and writes the pipeline's flat files.
//
// Inputs are the post dataset (CSV), the tracked handle list (one per line)
// and the mentions folder, described by a YAML manifest:
//
//	- file: menciones_jara.csv
//	  anchor: jara_oficial
//	- file: menciones_kast.csv
//	  anchor: "@kast"
//
// Without a manifest every *.csv in the folder is scanned and its anchor is
// taken from the last underscore-separated token of the file name.
//
// Every output goes through WriteAtomic: the artifact is written to a
// temporary sibling and renamed into place.
package storage
