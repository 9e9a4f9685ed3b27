// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/mixedtensor/pkg/eval/concat"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	headerStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 2, 0, 2).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	keyStyle    = cellStyle.Faint(true).Align(lipgloss.Right)
	markStyle   = cellStyle.Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	// caseStyles colors loop levels by how they move through the output.
	caseStyles = map[concat.LoopCase]lipgloss.Style{
		concat.CaseShared:     cellStyle,
		concat.CaseConcatAxis: markStyle,
		concat.CaseOutputOnly: cellStyle.Foreground(lipgloss.Color("9")),
		concat.CaseInputOnly:  cellStyle.Foreground(lipgloss.Color("9")),
	}
)

// property is one "key: value" line of a propertyTable, optionally marked.
type property struct {
	key, value string
	marked     bool
}

// propertyTable renders a list of properties as a two-column table.
type propertyTable []property

func (props *propertyTable) add(key, value string) {
	*props = append(*props, property{key: key, value: value})
}

func (props *propertyTable) mark(key, value string) {
	*props = append(*props, property{key: key, value: value, marked: true})
}

func (props propertyTable) String() string {
	rows := make([][]string, len(props))
	for ii, p := range props {
		rows[ii] = []string{p.key, p.value}
	}
	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			if row >= 0 && row < len(props) && props[row].marked {
				return markStyle
			}
			return cellStyle
		}).
		Render()
}

// loopTable renders the levels of a loop plan, one row per level.
func loopTable(loop *concat.InOutLoop) string {
	rows := make([][]string, len(loop.Levels))
	for ii, level := range loop.Levels {
		rows[ii] = []string{
			fmt.Sprintf("#%d", ii), level.Case.String(),
			humanize.Comma(int64(level.InCount)), humanize.Comma(int64(level.InStride)),
			humanize.Comma(int64(level.OutCount)), humanize.Comma(int64(level.OutStride)),
		}
	}
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Level", "Case", "In count", "In stride", "Out count", "Out stride").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(loop.Levels) {
				return headerStyle
			}
			s, found := caseStyles[loop.Levels[row].Case]
			if !found {
				s = cellStyle
			}
			if col >= 2 {
				s = s.Align(lipgloss.Right)
			}
			return s
		}).
		Render()
}
