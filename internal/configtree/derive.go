package configtree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgefryer/planner/internal/common"
	"github.com/rgefryer/planner/internal/quarter"
)

var resourcingStrategyOptions = []string{
	"management", "smearprorata", "smearremaining", "frontload", "backload", "prodsfr",
}

// ResourcingStrategy selects how a node's planned time is converted
// into allocated cells.
type ResourcingStrategy int

const (
	Management ResourcingStrategy = iota
	SmearProRata
	SmearRemaining
	FrontLoad
	BackLoad
	ProdSFR
)

var resourcingStrategyNames = map[string]ResourcingStrategy{
	"management":     Management,
	"smearprorata":   SmearProRata,
	"smearremaining": SmearRemaining,
	"frontload":      FrontLoad,
	"backload":       BackLoad,
	"prodsfr":        ProdSFR,
}

// SchedulingStrategy selects how a node's children share time.
type SchedulingStrategy int

const (
	Parallel SchedulingStrategy = iota
	Serial
)

// Commitment is a fixed (time, duration) pair taken directly from a
// "C<time>" attribute, e.g. "C3.2: 4" commits 4 days from week 3 day 2.
type Commitment struct {
	When     quarter.Time
	Duration quarter.Duration
}

// InheritedString walks from id up through ancestors (stopping once
// it reaches a level-1 node, since the root carries no inheritable
// attributes of its own) looking for key, returning the first value
// found and whether any was found at all.
func (t *Tree) InheritedString(id NodeID, key string) (string, bool) {
	for cur := id; ; {
		n := t.Node(cur)
		if v, ok := n.Attributes[key]; ok {
			return v, true
		}
		if n.Level <= 1 {
			return "", false
		}
		cur = n.Parent
	}
}

func augmentError(n *Node, err error) error {
	return fmt.Errorf("problem in node at line %d: %w", n.LineNum, err)
}

// NonManaged reports whether id (or an ancestor) is flagged
// "non-managed". Inherited, defaults to false.
func (t *Tree) NonManaged(id NodeID) (bool, error) {
	v, ok := t.InheritedString(id, "non-managed")
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, augmentError(t.Node(id), fmt.Errorf("problem parsing non-managed: %w", err))
	}
	return b, nil
}

// EarliestStart returns the inherited "earliest-start" time, if any.
// Unlike NonManaged this has no default: an absent value means "no
// constraint", not "the earliest possible time".
func (t *Tree) EarliestStart(id NodeID) (*quarter.Time, error) {
	v, ok := t.InheritedString(id, "earliest-start")
	if !ok {
		return nil, nil
	}
	ct, err := quarter.Parse(v)
	if err != nil {
		return nil, augmentError(t.Node(id), err)
	}
	return &ct, nil
}

// LatestEnd returns the inherited "latest-end" time, if any.
func (t *Tree) LatestEnd(id NodeID) (*quarter.Time, error) {
	v, ok := t.InheritedString(id, "latest-end")
	if !ok {
		return nil, nil
	}
	ct, err := quarter.Parse(v)
	if err != nil {
		return nil, augmentError(t.Node(id), err)
	}
	return &ct, nil
}

// ResourcingStrategy returns the inherited "resource" strategy, if
// any. An unrecognised value is an error, not a silent default.
func (t *Tree) ResourcingStrategy(id NodeID) (ResourcingStrategy, bool, error) {
	v, ok := t.InheritedString(id, "resource")
	if !ok {
		return 0, false, nil
	}
	strategy, ok := resourcingStrategyNames[v]
	if !ok {
		msg := fmt.Sprintf("unrecognised resource, %s", v)
		if suggestion := common.SuggestCorrection(v, resourcingStrategyOptions); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return 0, false, augmentError(t.Node(id), fmt.Errorf("%s", msg))
	}
	return strategy, true, nil
}

// SchedulingStrategy returns id's own "schedule" attribute. Unlike
// the resourcing/window attributes this is read local-only: a
// child's own scheduling choice never inherits its parent's, so
// mixing serial and parallel subtrees at different depths is
// ordinary, not an override.
func (t *Tree) SchedulingStrategy(id NodeID) (SchedulingStrategy, error) {
	n := t.Node(id)
	v, ok := n.Attributes["schedule"]
	if !ok {
		return Parallel, nil
	}
	switch v {
	case "parallel":
		return Parallel, nil
	case "serial":
		return Serial, nil
	default:
		return 0, augmentError(n, fmt.Errorf("invalid scheduling strategy: %s", v))
	}
}

// planStringToDuration resolves a "plan" or "default-plan" value
// against when, the point in the chart the caller needs the planned
// duration for. A plan string is a comma-separated list of either a
// bare amount (the original plan) or "time:amount" entries (revisions
// made at that time); the last entry at or before when wins.
func planStringToDuration(n *Node, planStr string, when quarter.Time, horizonDays float64) (*quarter.Duration, error) {
	found := false
	useVal := ""

	for _, part := range strings.Split(planStr, ",") {
		part = strings.TrimSpace(part)
		pieces := strings.SplitN(part, ":", 2)
		if len(pieces) == 1 {
			found = true
			useVal = part
			continue
		}

		ct, err := quarter.Parse(strings.TrimSpace(pieces[0]))
		if err != nil {
			return nil, augmentError(n, err)
		}
		if ct.After(when) {
			break
		}
		found = true
		useVal = strings.TrimSpace(pieces[1])
	}

	if !found {
		return nil, nil
	}

	d, err := quarter.ParseDuration(useVal, horizonDays)
	if err != nil {
		return nil, augmentError(n, err)
	}
	return &d, nil
}

// Plan returns the planned duration for id as of when. horizonDays
// resolves any pcy/pcm suffix. A leaf with no local plan falls back
// to the inherited "default-plan"; non-leaves never default.
func (t *Tree) Plan(id NodeID, when quarter.Time, horizonDays float64) (*quarter.Duration, error) {
	n := t.Node(id)

	if planStr, ok := n.Attributes["plan"]; ok {
		d, err := planStringToDuration(n, planStr, when, horizonDays)
		if err != nil {
			return nil, err
		}
		if d != nil {
			return d, nil
		}
	}

	if !n.IsLeaf() {
		return nil, nil
	}

	planStr, ok := t.InheritedString(id, "default-plan")
	if !ok {
		return nil, nil
	}
	return planStringToDuration(n, planStr, when, horizonDays)
}

// Budget returns id's own "budget" attribute (a number of days) as a
// Duration. Budget is never inherited: only id's own attribute is
// read.
func (t *Tree) Budget(id NodeID) *quarter.Duration {
	n := t.Node(id)
	v, ok := n.Attributes["budget"]
	if !ok {
		return nil
	}
	days, err := strconv.ParseFloat(v, 64)
	if err != nil {
		n.AddNote(fmt.Sprintf("invalid budget: %s", err))
		return nil
	}
	d := quarter.NewDays(days)
	return &d
}

// Who returns the inherited "who", falling back to id's own name if
// that name is itself a valid person, and erroring if an inherited
// value names someone who isn't.
func (t *Tree) Who(id NodeID, validPeople []string) (string, error) {
	n := t.Node(id)
	isValid := func(name string) bool {
		for _, p := range validPeople {
			if p == name {
				return true
			}
		}
		return false
	}

	if who, ok := t.InheritedString(id, "who"); ok {
		if isValid(who) {
			return who, nil
		}
		msg := fmt.Sprintf("unrecognised \"who\": %s", who)
		if suggestion := common.SuggestCorrection(who, validPeople); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return "", augmentError(n, fmt.Errorf("%s", msg))
	}

	if isValid(n.Name) {
		return n.Name, nil
	}
	return "", nil
}

// Commitments returns id's own "C<time>" attributes as (time,
// duration) pairs ordered by time. Commitments are never inherited.
// A malformed time or amount is silently skipped — these entries are
// a history of manual schedule edits, and one bad entry should not
// block everything else in the node.
func (t *Tree) Commitments(id NodeID) []Commitment {
	n := t.Node(id)
	var out []Commitment

	for key, value := range n.Attributes {
		if !strings.HasPrefix(key, "C") {
			continue
		}
		ct, err := quarter.Parse(key[1:])
		if err != nil {
			continue
		}
		days, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		out = append(out, Commitment{When: ct, Duration: quarter.NewDays(days)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].When.Before(out[j].When) })
	return out
}

// GlobalConfig returns the attribute map of the root-only "[chart]"
// node, or nil if there is no such node.
func (t *Tree) GlobalConfig() map[string]string {
	id := t.FindChildWithName(RootID, "[chart]")
	if id == 0 {
		return nil
	}
	return t.Node(id).Attributes
}

// ConfigString returns a "[chart]" attribute, or def if it is absent.
func (t *Tree) ConfigString(key, def string) string {
	cfg := t.GlobalConfig()
	if cfg == nil {
		return def
	}
	if v, ok := cfg[key]; ok {
		return v
	}
	return def
}

// ConfigUint returns a "[chart]" attribute parsed as an unsigned
// integer, or def if absent or unparsable.
func (t *Tree) ConfigUint(key string, def uint32) uint32 {
	v := t.ConfigString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return def
	}
	return uint32(n)
}

// ConfigTime returns a "[chart]" attribute parsed as a quarter.Time,
// or def if absent or unparsable.
func (t *Tree) ConfigTime(key string, def quarter.Time) quarter.Time {
	v := t.ConfigString(key, "")
	if v == "" {
		return def
	}
	ct, err := quarter.Parse(v)
	if err != nil {
		return def
	}
	return ct
}

// ValidPeople returns the names of every person declared in [people],
// in sorted order for deterministic "did you mean" suggestions.
func (t *Tree) ValidPeople() []string {
	root := t.Root()
	names := make([]string, 0, len(root.People))
	for name := range root.People {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
