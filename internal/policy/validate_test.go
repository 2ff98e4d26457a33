package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	tree := thresholdTree()
	assert.NoError(t, tree.Validate(FeatureToggles{}))
}

func TestValidateRejectsCycle(t *testing.T) {
	tree := Tree{
		Root: 0,
		Nodes: []Node{
			{Kind: KindNot, Operands: []int{1}},
			{Kind: KindNot, Operands: []int{0}}, // points back to node 0
		},
	}
	err := tree.Validate(FeatureToggles{})
	assert.Error(t, err)
}

func TestValidateRejectsOutOfRangeIndex(t *testing.T) {
	tree := Tree{
		Root: 0,
		Nodes: []Node{
			{Kind: KindNot, Operands: []int{99}},
		},
	}
	err := tree.Validate(FeatureToggles{})
	assert.Error(t, err)
}

func TestValidateRejectsOutOfRangeRoot(t *testing.T) {
	tree := Tree{Root: 5, Nodes: []Node{{Kind: KindActionRelease}}}
	err := tree.Validate(FeatureToggles{})
	assert.Error(t, err)
}

func TestValidateRejectsKindForbiddenByExclude(t *testing.T) {
	tree := Tree{Root: 0, Nodes: []Node{{Kind: KindActionSplit, SplitN: 2}}}
	err := tree.Validate(FeatureToggles{Exclude: []NodeKind{KindActionSplit}})
	assert.Error(t, err)
}

func TestValidateRejectsKindNotInInclude(t *testing.T) {
	tree := Tree{Root: 0, Nodes: []Node{{Kind: KindActionSplit, SplitN: 2}}}
	err := tree.Validate(FeatureToggles{Include: []NodeKind{KindActionRelease}})
	assert.Error(t, err)
}

func TestValidateRejectsMutuallyExclusiveToggles(t *testing.T) {
	tree := Tree{Root: 0, Nodes: []Node{{Kind: KindActionRelease}}}
	err := tree.Validate(FeatureToggles{Include: []NodeKind{KindActionRelease}, Exclude: []NodeKind{KindActionHold}})
	assert.Error(t, err)
}
