package policy

import (
	"fmt"

	pkgerrors "rtgssim/pkg/errors"
)

// FeatureToggles restricts what node categories a policy tree may contain
// (spec §6 policy_feature_toggles). Include and Exclude are mutually
// exclusive: at most one is non-empty.
type FeatureToggles struct {
	Include []NodeKind
	Exclude []NodeKind
}

func (ft FeatureToggles) allows(k NodeKind) bool {
	if len(ft.Include) > 0 {
		for _, allowed := range ft.Include {
			if allowed == k {
				return true
			}
		}
		return false
	}
	for _, excluded := range ft.Exclude {
		if excluded == k {
			return false
		}
	}
	return true
}

// Validate rejects a tree with a cycle, an out-of-range index, or a node
// kind forbidden by toggles — all fatal ConfigErrors at load time
// (spec §4.11). Validation happens once, then the toggles and tree are
// treated as invariant for the rest of the simulation (spec §4.3).
func (t *Tree) Validate(toggles FeatureToggles) error {
	if len(toggles.Include) > 0 && len(toggles.Exclude) > 0 {
		return fmt.Errorf("%w: policy_feature_toggles include and exclude are mutually exclusive", pkgerrors.ErrConfigInvalid)
	}
	if t.Root < 0 || t.Root >= len(t.Nodes) {
		return fmt.Errorf("%w: policy tree root index %d out of range", pkgerrors.ErrConfigInvalid, t.Root)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(t.Nodes))

	var visit func(idx int) error
	visit = func(idx int) error {
		if idx < 0 || idx >= len(t.Nodes) {
			return fmt.Errorf("%w: policy tree node index %d out of range", pkgerrors.ErrConfigInvalid, idx)
		}
		if color[idx] == gray {
			return fmt.Errorf("%w: policy tree contains a cycle at node %d", pkgerrors.ErrConfigInvalid, idx)
		}
		if color[idx] == black {
			return nil
		}
		color[idx] = gray

		n := t.Nodes[idx]
		if !toggles.allows(n.Kind) {
			return fmt.Errorf("%w: node kind %d forbidden by feature toggles", pkgerrors.ErrConfigInvalid, n.Kind)
		}
		for _, child := range t.childIndices(n) {
			if err := visit(child); err != nil {
				return err
			}
		}
		color[idx] = black
		return nil
	}

	return visit(t.Root)
}
