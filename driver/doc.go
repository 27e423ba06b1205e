// Package driver provides graphics.Driver implementations.
//
// Trace records every call as a line of text and is used by headless runs
// and tests. Terminal rasterises draw calls into a grid of character cells
// and renders the grid with lipgloss for the interactive shell.
package driver
