// Package view projects an allocated ConfigTree into the flat list of
// rows a renderer needs: one row per resource's availability, then one
// row per task node in document order, each carrying its weekly
// totals in days (each week's quarter-day count divided by four) and
// planning metadata. Raw quarter-day counts are not carried in a Row.
package view

import (
	"strconv"

	"github.com/rgefryer/planner/internal/configtree"
	"github.com/rgefryer/planner/internal/quarter"
)

// specialNodeNames are bracketed configuration nodes that carry no
// displayable task data of their own.
var specialNodeNames = map[string]bool{
	"[chart]":  true,
	"[people]": true,
	"[rows]":   true,
}

// Row is one line of the projected view: either a person's remaining
// availability, or a task node's progress against its plan.
type Row struct {
	Level      int
	LineNum    int
	Name       string
	Weekly     []float64 // days allocated per week
	StartWeek  int       // index into Weekly marking "today"'s week
	Done       float64   // days allocated before "today"
	Plan       float64   // days planned as of the chart horizon
	Left       float64   // Plan - Done
	Gain       float64   // original plan minus current plan
	Who        string
	Notes      []string
	IsResource bool // true for a person row, false for a task row
}

// Project builds the full row list for tree: one resource row per
// person (sorted by name for determinism), followed by one task row
// per node in depth-first document order, skipping the bracketed
// configuration nodes and the root itself.
func Project(tree *configtree.Tree) []Row {
	weeks := tree.Weeks
	today := tree.ConfigTime("today", quarter.FromQuarter(0))
	startWeek := int(today.Quarter() / 20)

	var rows []Row

	for _, name := range tree.ValidPeople() {
		cells := tree.Root().People[name]
		rows = append(rows, Row{
			Name:       name,
			Weekly:     quartersToDays(cells.WeeklyNumbers(weeks)),
			StartWeek:  startWeek,
			Left:       float64(cells.Count()) / 4.0,
			IsResource: true,
		})
	}

	rows = appendTaskRows(tree, configtree.RootID, weeks, today, startWeek, rows)
	return rows
}

func appendTaskRows(tree *configtree.Tree, id configtree.NodeID, weeks uint32, today quarter.Time, startWeek int, rows []Row) []Row {
	n := tree.Node(id)

	if id != configtree.RootID && !specialNodeNames[n.Name] {
		rows = append(rows, buildTaskRow(tree, n, weeks, today, startWeek))
	}

	for _, childID := range n.Children {
		rows = appendTaskRows(tree, childID, weeks, today, startWeek, rows)
	}
	return rows
}

func buildTaskRow(tree *configtree.Tree, n *configtree.Node, weeks uint32, today quarter.Time, startWeek int) Row {
	row := Row{
		Level:     n.Level,
		LineNum:   n.LineNum,
		Name:      n.Name,
		Weekly:    quartersToDays(n.Cells.WeeklyNumbers(weeks)),
		StartWeek: startWeek,
		Done:      float64(n.Cells.CountRange(0, today.Quarter())) / 4.0,
		Notes:     append([]string(nil), n.Notes...),
	}

	horizon, err := quarter.Parse(strconv.Itoa(int(weeks) + 1))
	if err == nil {
		if planNow, err := tree.Plan(n.ID, horizon, float64(weeks)*5); err == nil && planNow != nil {
			row.Plan = planNow.Days()
			row.Left = row.Plan - row.Done

			first, _ := quarter.Parse("1")
			if planOriginal, err := tree.Plan(n.ID, first, float64(weeks)*5); err == nil && planOriginal != nil {
				row.Gain = planOriginal.Days() - planNow.Days()
			}
		} else if err != nil {
			n.AddNote(err.Error())
		}
	}

	if who, err := tree.Who(n.ID, tree.ValidPeople()); err == nil {
		row.Who = who
	} else {
		n.AddNote(err.Error())
	}

	return row
}

func quartersToDays(counts []uint32) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c) / 4.0
	}
	return out
}

