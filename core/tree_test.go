package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okrpulse/okrpulse/schema"
)

func treeFixture() *schema.Snapshot {
	return &schema.Snapshot{
		Users: []schema.User{{ID: "u1", Name: "Ada"}},
		Targets: []schema.Target{
			{ID: "c1", Scope: schema.CompanyScope, Name: "Win the market", SubGoalIDs: []string{"t1", "g4"}},
			{ID: "d1", Scope: schema.DeptScope, ParentID: "c1", Name: "Engineering"},
			{ID: "t1", Scope: schema.TeamScope, Name: "Platform"},
			{ID: "d2", Scope: schema.DeptScope, ParentID: "c1", Name: "Empty Dept"},
		},
		Goals: []schema.Goal{
			{ID: "g1", OwnerUserID: "u1", Name: "Beta launch", TargetID: "d1"},
			{ID: "g2", OwnerUserID: "u1", Name: "Adoption", TargetID: "t1"},
			{ID: "g3", OwnerUserID: "u1", Name: "Company goal", TargetID: "c1"},
			{ID: "g4", OwnerUserID: "u1", Name: "Retry goal"},
			{ID: "g5", OwnerUserID: "u1", Name: "Side quest", TargetID: "0"},
			{ID: "g6", OwnerUserID: "u1", Name: "Team thing", TargetID: "missing", TeamID: "team9"},
		},
		KeyResults: []schema.KeyResult{
			{ID: "k2", GoalID: "g1", Name: "Crash rate", CurrentValue: 5, TargetValue: 1, Unit: "%"},
			{ID: "k1", GoalID: "g1", Name: "Signups", CurrentValue: 50, TargetValue: 100, Unit: "users"},
			{ID: "k3", GoalID: "g2", Name: "Weekly actives", CurrentValue: 7, TargetValue: 20, Unit: "teams"},
		},
	}
}

func buildTree(t *testing.T, snapshot *schema.Snapshot, teams map[string]string) *schema.TreeNode {
	t.Helper()
	dir := schema.NewUserDirectory(snapshot.Users, nil, teams)
	return NewAlignmentTreeBuilder(snapshot, dir).Build()
}

func childNames(n *schema.TreeNode) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestBuildTreeHierarchy(t *testing.T) {
	root := buildTree(t, treeFixture(), map[string]string{"team9": "Growth"})

	require.Equal(t, schema.RootNode, root.Kind)
	require.Len(t, root.Children, 2) // company + personal branch

	company := root.Children[0]
	assert.Equal(t, "Win the market", company.Name)
	assert.Equal(t, schema.CompanyNode, company.Kind)
	// Dept children first, then team children, then direct goals; the empty
	// dept target is pruned.
	assert.Equal(t, []string{"Engineering", "Platform", "Company goal", "Retry goal"}, childNames(company))
	assert.Equal(t, schema.DeptNode, company.Children[0].Kind)
	assert.Equal(t, schema.TeamNode, company.Children[1].Kind)
	assert.Equal(t, schema.GoalNode, company.Children[2].Kind)

	eng := company.Children[0]
	require.Len(t, eng.Children, 1)
	goal := eng.Children[0]
	assert.Equal(t, "Beta launch", goal.Name)
	// Key result leaves sorted by id, not name.
	require.Len(t, goal.Children, 2)
	assert.Equal(t, "Signups", goal.Children[0].Name)
	assert.Equal(t, "Crash rate", goal.Children[1].Name)
	assert.Equal(t, 50.0, goal.Children[0].Current)
	assert.Equal(t, 100.0, goal.Children[0].Target)
	assert.Equal(t, "users", goal.Children[0].Unit)
}

func TestBuildTreePersonalBucket(t *testing.T) {
	root := buildTree(t, treeFixture(), map[string]string{"team9": "Growth"})

	personal := root.Children[len(root.Children)-1]
	require.Equal(t, schema.PersonalNode, personal.Kind)
	assert.Equal(t, PersonalBranchName, personal.Name)

	// Groups sorted by name: the mapped team first, the fallback last.
	require.Len(t, personal.Children, 2)
	assert.Equal(t, "Growth", personal.Children[0].Name)
	assert.Equal(t, schema.UnknownGroupName, personal.Children[1].Name)
	assert.Equal(t, schema.GroupNode, personal.Children[0].Kind)

	assert.Equal(t, []string{"Team thing"}, childNames(personal.Children[0]))
	assert.Equal(t, []string{"Side quest"}, childNames(personal.Children[1]))
}

// TestBuildTreeUnknownGroupFallback pins the canonical edge case: target_id
// "0" with no team or dept lands under "Unknown Group".
func TestBuildTreeUnknownGroupFallback(t *testing.T) {
	snapshot := &schema.Snapshot{
		Goals: []schema.Goal{{ID: "g1", Name: "Adrift", TargetID: "0"}},
	}
	root := buildTree(t, snapshot, nil)

	require.Len(t, root.Children, 1)
	personal := root.Children[0]
	require.Len(t, personal.Children, 1)
	assert.Equal(t, schema.UnknownGroupName, personal.Children[0].Name)
	assert.Equal(t, []string{"Adrift"}, childNames(personal.Children[0]))
}

// TestBuildTreeNoDuplicateAttachment verifies the explicit parent wins when a
// target also appears in another company's membership list.
func TestBuildTreeNoDuplicateAttachment(t *testing.T) {
	snapshot := &schema.Snapshot{
		Targets: []schema.Target{
			{ID: "c1", Scope: schema.CompanyScope, Name: "Alpha", SubGoalIDs: []string{"d1"}},
			{ID: "c2", Scope: schema.CompanyScope, Name: "Beta"},
			{ID: "d1", Scope: schema.DeptScope, ParentID: "c2", Name: "Shared"},
		},
		Goals: []schema.Goal{{ID: "g1", Name: "X", TargetID: "d1"}},
	}
	root := buildTree(t, snapshot, nil)

	require.Len(t, root.Children, 1)
	assert.Equal(t, "Beta", root.Children[0].Name)
	assert.Equal(t, 1, root.CountKind(schema.DeptNode))
}

func TestBuildTreeOrphanScopedTarget(t *testing.T) {
	snapshot := &schema.Snapshot{
		Targets: []schema.Target{
			{ID: "d1", Scope: schema.DeptScope, Name: "Lone Dept"},
		},
		Goals: []schema.Goal{{ID: "g1", Name: "X", TargetID: "d1"}},
	}
	root := buildTree(t, snapshot, nil)

	require.Len(t, root.Children, 1)
	assert.Equal(t, "Lone Dept", root.Children[0].Name)
	assert.Equal(t, schema.DeptNode, root.Children[0].Kind)
}

// TestBuildTreeKeyResultConservation verifies every key result lands in
// exactly one leaf, and goals without key results keep an empty node.
func TestBuildTreeKeyResultConservation(t *testing.T) {
	root := buildTree(t, treeFixture(), map[string]string{"team9": "Growth"})

	assert.Equal(t, 3, root.CountKind(schema.KRNode))
	assert.Equal(t, 6, root.CountKind(schema.GoalNode))

	// Duplicate key result rows collapse to one leaf.
	snapshot := treeFixture()
	snapshot.KeyResults = append(snapshot.KeyResults, snapshot.KeyResults[0])
	root = buildTree(t, snapshot, map[string]string{"team9": "Growth"})
	assert.Equal(t, 3, root.CountKind(schema.KRNode))
}

func TestBuildTreeEmptySnapshot(t *testing.T) {
	root := buildTree(t, &schema.Snapshot{}, nil)

	assert.Equal(t, RootNodeName, root.Name)
	assert.Empty(t, root.Children)
}

func BenchmarkBuildTree(b *testing.B) {
	snapshot := treeFixture()
	dir := schema.NewUserDirectory(snapshot.Users, nil, map[string]string{"team9": "Growth"})
	builder := NewAlignmentTreeBuilder(snapshot, dir)
	for b.Loop() {
		builder.Build()
	}
}
