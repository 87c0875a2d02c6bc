//go:build !linux

package system

import "errors"

// NetlinkRoutes resolves the egress interface from the kernel routing table.
// Only the Linux build can do so; other platforms always report an error.
type NetlinkRoutes struct{}

// DefaultInterface is unsupported off Linux.
func (NetlinkRoutes) DefaultInterface() (string, error) {
	return "", errors.New("default route discovery requires linux")
}
