package domain

import "github.com/disgoorg/snowflake/v2"

// RoleChange is the set of role mutations for one member interacting with a published selector.
type RoleChange struct {
	Add    []snowflake.ID
	Remove []snowflake.ID
}

// IsEmpty reports whether the change has nothing to apply.
func (c RoleChange) IsEmpty() bool {
	return len(c.Add) == 0 && len(c.Remove) == 0
}

// ComputeRoleChange diffs a member's submission against the roles they hold.
//
// Only roles offered by menu are ever touched: submitted IDs outside menu are
// ignored, and roles the member holds that the menu does not offer are left alone.
// Add follows submission order; Remove follows menu order.
func ComputeRoleChange(menu, submitted, current []snowflake.ID) RoleChange {
	offered := toSet(menu)
	held := toSet(current)

	chosen := make(map[snowflake.ID]struct{}, len(submitted))
	var change RoleChange
	for _, id := range submitted {
		if _, ok := offered[id]; !ok {
			continue
		}
		if _, dup := chosen[id]; dup {
			continue
		}
		chosen[id] = struct{}{}
		if _, ok := held[id]; !ok {
			change.Add = append(change.Add, id)
		}
	}

	for _, id := range menu {
		if _, ok := chosen[id]; ok {
			continue
		}
		if _, ok := held[id]; ok {
			change.Remove = append(change.Remove, id)
		}
	}
	return change
}

// ComputeRoleClear returns the change that removes every menu role the member holds.
func ComputeRoleClear(menu, current []snowflake.ID) RoleChange {
	return ComputeRoleChange(menu, nil, current)
}

func toSet(ids []snowflake.ID) map[snowflake.ID]struct{} {
	set := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
