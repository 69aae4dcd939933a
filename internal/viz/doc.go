// Package viz renders simulation output for the terminal.
//
//   - [Canvas]: braille dot canvas used to draw a snapshot of atom centres
//   - [RuleReport]: styled listing of a parsed chemistry with its rejects
//   - [Sparkline]: one-line trend of a tick series
//
// Styles are built with lipgloss and degrade to plain text when the output
// is not a terminal.
package viz
