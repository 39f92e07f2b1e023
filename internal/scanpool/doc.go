// Package scanpool scans mention files with a bounded set of workers and
// hands the results back in manifest order.
package scanpool
