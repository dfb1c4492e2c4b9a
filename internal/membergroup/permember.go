package membergroup

import (
	"context"

	"github.com/Ajpantuso/zone-grouper/internal/member"
)

// PerMemberFactory puts every member in its own group.
type PerMemberFactory struct{}

func (f *PerMemberFactory) CreateMemberGroups(_ context.Context, members []*member.Member) ([]MemberGroup, error) {
	result := make([]MemberGroup, 0, len(members))
	for _, m := range members {
		result = append(result, NewDefaultMemberGroup(m))
	}
	return result, nil
}
