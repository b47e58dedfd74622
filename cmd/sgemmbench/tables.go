package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

// newTable returns a table with alternating row colors. When withHeader is
// set, the first row is rendered as a header.
func newTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				return s.Align(lipgloss.Left)
			}
			return s.Align(lipgloss.Right)
		})
}

// titleOf turns a log name like "benchmark-blocked" into "Benchmark Blocked".
func titleOf(name string) string {
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}
