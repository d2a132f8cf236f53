// Package report persists the collated transcript as a single-row CSV file
// in the output directory.
package report
