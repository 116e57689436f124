package core

import (
	"sort"

	"github.com/okrpulse/okrpulse/schema"
)

// RootNodeName labels the synthetic node the whole alignment forest hangs off.
const RootNodeName = "Organization"

// PersonalBranchName labels the distinguished branch for unaligned goals.
const PersonalBranchName = "Personal"

// AlignmentTreeBuilder reconstructs the target/goal/key-result hierarchy from
// the snapshot's flat records. The platform exports two redundant linkage
// mechanisms, parent_id pointers and sub_goal_ids membership lists, and they
// drift: the builder honors explicit parents first and falls back to the
// membership lists, so no record is lost to the drift.
type AlignmentTreeBuilder struct {
	snapshot *schema.Snapshot
	dir      *schema.UserDirectory
}

// NewAlignmentTreeBuilder returns a builder over the given snapshot.
func NewAlignmentTreeBuilder(snapshot *schema.Snapshot, dir *schema.UserDirectory) *AlignmentTreeBuilder {
	return &AlignmentTreeBuilder{snapshot: snapshot, dir: dir}
}

// Build assembles the alignment tree: company targets under a synthetic root,
// dept/team targets under their companies, goals under their targets, key
// results as leaves, and a Personal branch grouping every goal that resolves
// to no target. Targets without any goal are pruned; goals without key
// results are kept with empty children. Children are ordered by name (and key
// results by id) so renders are stable.
func (b *AlignmentTreeBuilder) Build() *schema.TreeNode {
	targets := dedupeTargets(b.snapshot.Targets)
	goals := dedupeGoals(b.snapshot.Goals)
	krsByGoal := make(map[string][]schema.KeyResult)
	for _, kr := range b.snapshot.KeyResults {
		krsByGoal[kr.GoalID] = append(krsByGoal[kr.GoalID], kr)
	}

	targetByID := make(map[string]schema.Target, len(targets))
	for _, t := range targets {
		targetByID[t.ID] = t
	}

	// Membership lists, first listing wins. Company lists attach child
	// targets; every list can claim a goal on the resolution retry.
	companyMemberOf := make(map[string]string)
	subGoalHome := make(map[string]string)
	for _, t := range targets {
		for _, id := range t.SubGoalIDs {
			if _, ok := subGoalHome[id]; !ok {
				subGoalHome[id] = t.ID
			}
			if t.Scope != schema.CompanyScope {
				continue
			}
			if _, ok := companyMemberOf[id]; !ok {
				companyMemberOf[id] = t.ID
			}
		}
	}

	// Attach dept/team targets to company roots: explicit parent_id wins,
	// membership lists fill the gaps, and each target attaches exactly once.
	parentOf := make(map[string]string)
	for _, t := range targets {
		if t.Scope == schema.CompanyScope {
			continue
		}
		if p, ok := targetByID[t.ParentID]; ok && p.Scope == schema.CompanyScope {
			parentOf[t.ID] = p.ID
			continue
		}
		if cid, ok := companyMemberOf[t.ID]; ok {
			parentOf[t.ID] = cid
		}
	}

	// Resolve each goal to exactly one home.
	goalsByTarget := make(map[string][]schema.Goal)
	personal := make(map[string][]schema.Goal)
	for _, g := range goals {
		if g.TargetID != "" && g.TargetID != schema.UnalignedTargetID {
			if _, ok := targetByID[g.TargetID]; ok {
				goalsByTarget[g.TargetID] = append(goalsByTarget[g.TargetID], g)
				continue
			}
		}
		if tid, ok := subGoalHome[g.ID]; ok {
			goalsByTarget[tid] = append(goalsByTarget[tid], g)
			continue
		}
		group := b.dir.GroupName(g.TeamID, g.DeptID)
		personal[group] = append(personal[group], g)
	}

	buildTargetNode := func(t schema.Target) *schema.TreeNode {
		gs := goalsByTarget[t.ID]
		if len(gs) == 0 {
			return nil
		}
		node := &schema.TreeNode{Name: t.Name, Kind: kindForScope(t.Scope)}
		sortGoalsByName(gs)
		for _, g := range gs {
			node.AddChild(b.goalNode(g, krsByGoal[g.ID]))
		}
		return node
	}

	childrenOf := make(map[string][]schema.Target)
	var companies, orphans []schema.Target
	for _, t := range targets {
		switch {
		case t.Scope == schema.CompanyScope:
			companies = append(companies, t)
		default:
			if cid, ok := parentOf[t.ID]; ok {
				childrenOf[cid] = append(childrenOf[cid], t)
			} else {
				orphans = append(orphans, t)
			}
		}
	}
	sortTargetsByName(companies)
	sortTargetsByName(orphans)

	root := &schema.TreeNode{Name: RootNodeName, Kind: schema.RootNode}

	for _, company := range companies {
		companyNode := &schema.TreeNode{Name: company.Name, Kind: schema.CompanyNode}

		kids := childrenOf[company.ID]
		sort.SliceStable(kids, func(i, j int) bool {
			ri, rj := scopeRank(kids[i].Scope), scopeRank(kids[j].Scope)
			if ri != rj {
				return ri < rj
			}
			return kids[i].Name < kids[j].Name
		})
		for _, child := range kids {
			if node := buildTargetNode(child); node != nil {
				companyNode.AddChild(node)
			}
		}

		// Goals aligned straight to the company target.
		direct := goalsByTarget[company.ID]
		sortGoalsByName(direct)
		for _, g := range direct {
			companyNode.AddChild(b.goalNode(g, krsByGoal[g.ID]))
		}

		if len(companyNode.Children) > 0 {
			root.AddChild(companyNode)
		}
	}

	// Scoped targets without any company link stay visible at the top level
	// as long as they carry goals.
	for _, t := range orphans {
		if node := buildTargetNode(t); node != nil {
			root.AddChild(node)
		}
	}

	if len(personal) > 0 {
		personalNode := &schema.TreeNode{Name: PersonalBranchName, Kind: schema.PersonalNode}
		groupNames := make([]string, 0, len(personal))
		for name := range personal {
			groupNames = append(groupNames, name)
		}
		sort.Strings(groupNames)
		for _, name := range groupNames {
			groupNode := &schema.TreeNode{Name: name, Kind: schema.GroupNode}
			gs := personal[name]
			sortGoalsByName(gs)
			for _, g := range gs {
				groupNode.AddChild(b.goalNode(g, krsByGoal[g.ID]))
			}
			personalNode.AddChild(groupNode)
		}
		root.AddChild(personalNode)
	}

	return root
}

// goalNode builds a goal node with its key result leaves, deduplicated by id
// and ordered by id.
func (b *AlignmentTreeBuilder) goalNode(goal schema.Goal, krs []schema.KeyResult) *schema.TreeNode {
	node := &schema.TreeNode{Name: goal.Name, Kind: schema.GoalNode}

	seen := make(map[string]struct{}, len(krs))
	distinct := make([]schema.KeyResult, 0, len(krs))
	for _, kr := range krs {
		if _, dup := seen[kr.ID]; dup {
			continue
		}
		seen[kr.ID] = struct{}{}
		distinct = append(distinct, kr)
	}
	sort.SliceStable(distinct, func(i, j int) bool { return distinct[i].ID < distinct[j].ID })

	for _, kr := range distinct {
		node.AddChild(&schema.TreeNode{
			Name:    kr.Name,
			Kind:    schema.KRNode,
			Current: kr.CurrentValue,
			Target:  kr.TargetValue,
			Unit:    kr.Unit,
		})
	}
	return node
}

func kindForScope(scope schema.TargetScope) schema.NodeKind {
	switch scope {
	case schema.CompanyScope:
		return schema.CompanyNode
	case schema.TeamScope:
		return schema.TeamNode
	default:
		return schema.DeptNode
	}
}

// scopeRank groups company children by scope: departments before teams.
func scopeRank(scope schema.TargetScope) int {
	switch scope {
	case schema.DeptScope:
		return 0
	case schema.TeamScope:
		return 1
	default:
		return 2
	}
}

func dedupeTargets(targets []schema.Target) []schema.Target {
	seen := make(map[string]struct{}, len(targets))
	out := make([]schema.Target, 0, len(targets))
	for _, t := range targets {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func dedupeGoals(goals []schema.Goal) []schema.Goal {
	seen := make(map[string]struct{}, len(goals))
	out := make([]schema.Goal, 0, len(goals))
	for _, g := range goals {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	return out
}

func sortGoalsByName(goals []schema.Goal) {
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Name < goals[j].Name })
}

func sortTargetsByName(targets []schema.Target) {
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
}
