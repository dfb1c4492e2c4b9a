package membergroup

import (
	"context"
	"net"
	"strings"

	"github.com/Ajpantuso/zone-grouper/internal/member"
)

// HostAwareFactory places members sharing a network host in the same group.
type HostAwareFactory struct{}

func (f *HostAwareFactory) CreateMemberGroups(_ context.Context, members []*member.Member) ([]MemberGroup, error) {
	groups := make(map[string]*DefaultMemberGroup)
	result := make([]MemberGroup, 0)

	for _, m := range members {
		host := hostOf(m.Address())
		group, ok := groups[host]
		if !ok {
			group = NewDefaultMemberGroup()
			groups[host] = group
			result = append(result, group)
		}
		group.AddMember(m)
	}

	return result, nil
}

// hostOf strips the port and any IPv6 brackets so "[::1]", "::1" and
// "[::1]:5701" share a host.
func hostOf(address string) string {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return host
}
