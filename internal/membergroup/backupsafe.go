package membergroup

import (
	"context"

	"github.com/Ajpantuso/zone-grouper/internal/member"
)

// BackupSafe splits the result of the wrapped factory in two when it would
// otherwise produce a single group for two or more members, so that a backup
// can always be placed outside the primary's group.
type BackupSafe struct {
	inner Factory
}

func NewBackupSafe(inner Factory) *BackupSafe {
	return &BackupSafe{inner: inner}
}

func (b *BackupSafe) CreateMemberGroups(ctx context.Context, members []*member.Member) ([]MemberGroup, error) {
	groups, err := b.inner.CreateMemberGroups(ctx, members)
	if err != nil {
		return nil, err
	}
	if len(groups) != 1 || len(members) < 2 {
		return groups, nil
	}

	all := groups[0].Members()
	half := len(all) / 2
	if half == 0 {
		return groups, nil
	}

	return []MemberGroup{
		NewDefaultMemberGroup(all[half:]...),
		NewDefaultMemberGroup(all[:half]...),
	}, nil
}
