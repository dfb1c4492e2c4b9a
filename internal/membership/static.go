package membership

import (
	"context"

	"github.com/Ajpantuso/zone-grouper/internal/attribute"
	"github.com/Ajpantuso/zone-grouper/internal/member"
	"github.com/google/uuid"
)

// StaticMember is a member entry from the configuration file.
type StaticMember struct {
	ID         string         `mapstructure:"id" json:"id"`
	Address    string         `mapstructure:"address" json:"address"`
	Attributes map[string]any `mapstructure:"attributes" json:"attributes"`
}

// StaticSource serves a fixed member list. The same Member values are
// returned on every call so attribute updates persist between passes.
type StaticSource struct {
	members []*member.Member
}

func NewStaticSource(entries []StaticMember) *StaticSource {
	members := make([]*member.Member, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		m := member.NewMember(id, e.Address)
		for k, v := range e.Attributes {
			if v == nil {
				continue
			}
			m.SetAttribute(k, attribute.ValueOf(v))
		}
		members = append(members, m)
	}
	return &StaticSource{members: members}
}

func (s *StaticSource) ListMembers(context.Context) ([]*member.Member, error) {
	out := make([]*member.Member, len(s.members))
	copy(out, s.members)
	return out, nil
}
