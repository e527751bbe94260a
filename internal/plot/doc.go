// Package plot renders a workflow figure: as an asciigraph overlay for the
// terminal, and as PNG or SVG through go-chart.
package plot
