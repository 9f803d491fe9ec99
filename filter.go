package pctree

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/pcgeo/pctree/internal/core"
	"github.com/pcgeo/pctree/internal/utils"
)

// FilterOp is the predicate kind a Filter evaluates.
type FilterOp uint8

const (
	GreaterThan FilterOp = iota
	LessThan
	Between
	Equal
)

// epsilon bounds EQUAL's floating-point tolerance.
const epsilon = 1e-7

// Filter selects leaves whose value for Dim satisfies Op against
// Threshold (and Threshold2 for Between).
type Filter struct {
	Dim        *core.Dimension
	Op         FilterOp
	Threshold  float64
	Threshold2 float64
}

func (f Filter) matches(v float64) bool {
	switch f.Op {
	case GreaterThan:
		return v > f.Threshold
	case LessThan:
		return v < f.Threshold
	case Between:
		return v >= f.Threshold && v <= f.Threshold2
	case Equal:
		d := v - f.Threshold
		if d < 0 {
			d = -d
		}
		return d <= epsilon
	default:
		return false
	}
}

// Filter applies f to the tree, returning a new, fully owned tree
// containing only the surviving leaves. The input tree is untouched.
func (t *Tree) Filter(f Filter) (*Tree, error) {
	filtered, err := filterNode(t.root, f, nil)
	if err != nil {
		return nil, err
	}
	numNodes := 0
	if filtered == nil {
		filtered = core.NewInternal("")
	} else {
		numNodes = core.CountLeaves(filtered)
	}
	return &Tree{
		schema:   t.schema,
		root:     filtered,
		numNodes: numNodes,
		config:   t.config,
	}, nil
}

// FilterAll applies every filter and intersects survivors (AND):
// short-circuits as soon as any filter prunes the whole tree.
func (t *Tree) FilterAll(filters []Filter) (*Tree, error) {
	if len(filters) == 0 {
		return nil, utils.New(utils.KindError, "no filters given")
	}
	result := t
	for _, f := range filters {
		next, err := result.Filter(f)
		if err != nil {
			return nil, err
		}
		if next.numNodes == 0 {
			return next, nil
		}
		result = next
	}
	return result, nil
}

// FilterAny applies every filter and unions survivors by hash (OR).
// Errors from individual filters are accumulated and returned together
// so a caller sees every bad predicate, not just the first.
func (t *Tree) FilterAny(filters []Filter) (*Tree, error) {
	if len(filters) == 0 {
		return nil, utils.New(utils.KindError, "no filters given")
	}

	survivors := make(map[string]*core.AttrList)
	var errs *multierror.Error

	for _, f := range filters {
		sub, err := t.Filter(f)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		collectLeaves(sub.root, nil, survivors)
	}
	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	out, err := New(t.schema, t.config)
	if err != nil {
		return nil, err
	}
	for hash, attrs := range survivors {
		core.Insert(out.root, core.NewLeaf(hash, attrs), out.config.Dupes)
	}
	if len(survivors) > 0 {
		out.numNodes = core.CountLeaves(out.root)
	}
	return out, nil
}

func collectLeaves(n *core.Node, path []*core.Node, into map[string]*core.AttrList) {
	path = append(path, n)
	if n.IsLeaf() {
		into[core.AbsoluteHash(path)] = n.Attrs.Clone()
		return
	}
	for _, c := range n.Children {
		collectLeaves(c, path, into)
	}
}

// filterNode implements filter_by_attribute: walk the node's attribute
// chain for f.Dim; if present, evaluate and prune or clone. If absent,
// recurse into children, pushing inherited down through the
// "inherited" accumulator so compacted ancestor values are treated as
// if attached at each descendant leaf.
func filterNode(n *core.Node, f Filter, inherited *core.Attribute) (*core.Node, error) {
	if a := n.Attrs.GetByDimension(f.Dim); a != nil {
		inherited = a
	}

	if inherited != nil {
		if n.IsLeaf() || n.Attrs.GetByDimension(f.Dim) != nil {
			if !f.matches(inherited.GetValue()) {
				return nil, nil
			}
		}
	} else if n.IsLeaf() {
		return nil, utils.New(utils.KindNotFound, fmt.Sprintf("dimension %q not present", f.Dim.Name))
	}

	if n.IsLeaf() {
		clone := core.NewLeaf(n.Fragment, n.Attrs.Clone())
		clone.Flag = n.Flag
		return clone, nil
	}

	var survivors []*core.Node
	for _, c := range n.Children {
		sc, err := filterNode(c, f, inherited)
		if err != nil {
			return nil, err
		}
		if sc != nil {
			survivors = append(survivors, sc)
		}
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	clone := core.NewInternal(n.Fragment)
	clone.Flag = n.Flag
	clone.Attrs = n.Attrs.Clone()
	clone.Children = survivors
	return clone, nil
}
