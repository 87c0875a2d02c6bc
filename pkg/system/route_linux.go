//go:build linux

package system

import (
	"errors"
	"fmt"

	"github.com/vishvananda/netlink"
)

// NetlinkRoutes resolves the egress interface from the kernel routing table.
type NetlinkRoutes struct{}

// DefaultInterface returns the name of the interface carrying the IPv4
// default route.
func (NetlinkRoutes) DefaultInterface() (string, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("list routes: %w", err)
	}
	for _, route := range routes {
		// The default route carries no destination prefix.
		if route.Dst != nil {
			continue
		}
		link, err := netlink.LinkByIndex(route.LinkIndex)
		if err != nil {
			return "", fmt.Errorf("resolve link %d: %w", route.LinkIndex, err)
		}
		return link.Attrs().Name, nil
	}
	return "", errors.New("no default route found")
}
