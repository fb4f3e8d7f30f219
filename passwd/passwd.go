// Package passwd memoises user and group database lookups. Lookups hit
// the OS database once per id and remember misses, so predicates like
// -nouser stay cheap over large trees. A nil cache reads as "nothing
// found".
package passwd

import (
	"os/user"
	"strconv"
)

// Users is a cache over the user database.
type Users struct {
	byUID map[uint32]*user.User
	// misses remembers ids with no entry.
	misses map[uint32]bool
}

// NewUsers creates an empty user cache.
func NewUsers() *Users {
	return &Users{
		byUID:  make(map[uint32]*user.User),
		misses: make(map[uint32]bool),
	}
}

// LookupUID returns the user with the given id, or nil if there is none.
func (u *Users) LookupUID(uid uint32) *user.User {
	if u == nil {
		return nil
	}
	if entry, ok := u.byUID[uid]; ok {
		return entry
	}
	if u.misses[uid] {
		return nil
	}
	entry, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		u.misses[uid] = true
		return nil
	}
	u.byUID[uid] = entry
	return entry
}

// Groups is a cache over the group database.
type Groups struct {
	byGID  map[uint32]*user.Group
	misses map[uint32]bool
}

// NewGroups creates an empty group cache.
func NewGroups() *Groups {
	return &Groups{
		byGID:  make(map[uint32]*user.Group),
		misses: make(map[uint32]bool),
	}
}

// LookupGID returns the group with the given id, or nil if there is none.
func (g *Groups) LookupGID(gid uint32) *user.Group {
	if g == nil {
		return nil
	}
	if entry, ok := g.byGID[gid]; ok {
		return entry
	}
	if g.misses[gid] {
		return nil
	}
	entry, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		g.misses[gid] = true
		return nil
	}
	g.byGID[gid] = entry
	return entry
}
