package schema

// UnknownGroupName labels goals whose team/dept identifier has no directory entry.
const UnknownGroupName = "Unknown Group"

// UserDirectory resolves user, department and team ids to display names for
// one report run. It is built once from the snapshot plus the configured
// static group maps and passed into every component that needs name
// resolution. There are no process-wide lookup caches; concurrent runs each
// build their own directory.
type UserDirectory struct {
	users map[string]string
	depts map[string]string
	teams map[string]string
}

// NewUserDirectory builds a directory from snapshot users and the static
// dept/team id-to-name maps carried in configuration. Nil maps are fine.
func NewUserDirectory(users []User, deptNames, teamNames map[string]string) *UserDirectory {
	dir := &UserDirectory{
		users: make(map[string]string, len(users)),
		depts: make(map[string]string, len(deptNames)),
		teams: make(map[string]string, len(teamNames)),
	}
	for _, u := range users {
		if u.ID != "" && u.Name != "" {
			dir.users[u.ID] = u.Name
		}
	}
	for id, name := range deptNames {
		dir.depts[id] = name
	}
	for id, name := range teamNames {
		dir.teams[id] = name
	}
	return dir
}

// UserName returns the display name for a user id. Unknown ids fall back to
// the id itself so report rows stay attributable.
func (d *UserDirectory) UserName(id string) string {
	if name, ok := d.users[id]; ok {
		return name
	}
	return id
}

// GroupName resolves a goal's team/dept identifiers to a personal-bucket
// group name. Team takes precedence over dept; unresolved identifiers map
// to UnknownGroupName.
func (d *UserDirectory) GroupName(teamID, deptID string) string {
	if name, ok := d.teams[teamID]; ok && teamID != "" {
		return name
	}
	if name, ok := d.depts[deptID]; ok && deptID != "" {
		return name
	}
	return UnknownGroupName
}

// UserCount returns the number of resolvable users.
func (d *UserDirectory) UserCount() int {
	return len(d.users)
}
