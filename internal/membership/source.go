package membership

import (
	"context"

	"github.com/Ajpantuso/zone-grouper/internal/member"
)

// Source supplies the current member snapshot for a grouping pass.
type Source interface {
	ListMembers(ctx context.Context) ([]*member.Member, error)
}
