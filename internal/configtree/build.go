package configtree

import (
	"fmt"

	"github.com/rgefryer/planner/internal/source"
	"github.com/rgefryer/planner/internal/timegrid"
)

// Build consumes every token in src and returns the resulting Tree.
//
// The original recursive-descent walk (a node consumes tokens until
// it meets a sibling or a shallower node, handing control to a child
// for anything deeper) translates here into an explicit stack of "the
// node each indent level currently belongs to" — an iterative
// equivalent of the same rule, since nothing about the token stream
// needs call-stack recursion to interpret.
func Build(src source.Source, weeks uint32) (*Tree, error) {
	tree := NewTree(weeks)

	// stack[i] is the most recently opened node whose indent is the
	// i-th entry in indents; a new node line attaches under the
	// deepest stack entry with a strictly smaller indent.
	stack := []NodeID{RootID}
	indents := []int{0} // root's indent, never matched by a real line

	for {
		tok, ok := src.Next()
		if !ok {
			break
		}

		switch {
		case tok.IsNode():
			nt := tok.Node
			for len(indents) > 1 && indents[len(indents)-1] >= nt.Indent {
				stack = stack[:len(stack)-1]
				indents = indents[:len(indents)-1]
			}
			parent := stack[len(stack)-1]
			child := tree.NewChild(parent, nt.Name, nt.Indent, nt.LineNum)
			stack = append(stack, child.ID)
			indents = append(indents, nt.Indent)

		default:
			at := tok.Attribute
			current := tree.Node(stack[len(stack)-1])
			current.Attributes[at.Key] = at.Value
		}
	}

	if err := populatePeople(tree); err != nil {
		return nil, err
	}

	return tree, nil
}

// populatePeople reads the [people] node's attributes as
// name -> availability ranges, attaching the result to the root.
func populatePeople(tree *Tree) error {
	peopleID := tree.FindChildWithName(RootID, "[people]")
	if peopleID == 0 {
		return fmt.Errorf("[people] node must exist")
	}

	peopleNode := tree.Node(peopleID)
	root := tree.Root()
	for name, rangeExpr := range peopleNode.Attributes {
		row, err := timegrid.NewFromRange(rangeExpr, tree.Weeks)
		if err != nil {
			return fmt.Errorf("problem setting up resource for %s: %w", name, err)
		}
		root.People[name] = row
	}
	return nil
}
