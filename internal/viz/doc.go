// Package viz holds the colour themes and lipgloss styles shared by the
// terminal UI and the figure renderers.
//
// Every theme carries a series palette. Curve i of a figure is drawn with
// swatch i modulo the palette length in the terminal, in PNG/SVG output and
// in the TUI legend, so one strategy keeps one colour across all of them.
package viz
