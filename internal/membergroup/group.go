package membergroup

import (
	"github.com/Ajpantuso/zone-grouper/internal/member"
)

// MemberGroup is a set of members treated as a single failure domain.
type MemberGroup interface {
	AddMember(m *member.Member)
	HasMember(m *member.Member) bool
	Members() []*member.Member
	Size() int
}

// DefaultMemberGroup keeps members in insertion order and ignores duplicates.
type DefaultMemberGroup struct {
	members []*member.Member
	index   map[*member.Member]struct{}
}

func NewDefaultMemberGroup(members ...*member.Member) *DefaultMemberGroup {
	g := &DefaultMemberGroup{
		index: make(map[*member.Member]struct{}, len(members)),
	}
	for _, m := range members {
		g.AddMember(m)
	}
	return g
}

func (g *DefaultMemberGroup) AddMember(m *member.Member) {
	if _, ok := g.index[m]; ok {
		return
	}
	g.index[m] = struct{}{}
	g.members = append(g.members, m)
}

func (g *DefaultMemberGroup) HasMember(m *member.Member) bool {
	_, ok := g.index[m]
	return ok
}

// Members returns a copy of the group's members.
func (g *DefaultMemberGroup) Members() []*member.Member {
	out := make([]*member.Member, len(g.members))
	copy(out, g.members)
	return out
}

func (g *DefaultMemberGroup) Size() int {
	return len(g.members)
}
