package agent

import (
	"context"
	"errors"
	"net/netip"
	"os"
	"os/user"
	"slices"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/net"
)

// HostIdentity is the triple a server id is derived from.
type HostIdentity struct {
	Hostname string
	Username string
	IP       string
}

// DetectIdentity reads the hostname, the current user and, unless ip is
// given, the first non-loopback address of an up interface.
func DetectIdentity(ctx context.Context, ip string) (HostIdentity, error) {
	var id HostIdentity

	if info, err := host.InfoWithContext(ctx); err == nil && info.Hostname != "" {
		id.Hostname = info.Hostname
	} else if id.Hostname, err = os.Hostname(); err != nil {
		return id, err
	}

	u, err := user.Current()
	if err != nil {
		return id, err
	}
	id.Username = u.Username

	if ip == "" {
		ifaces, err := net.InterfacesWithContext(ctx)
		if err != nil {
			return id, err
		}
		ip = firstAddress(ifaces)
	}
	if ip == "" {
		return id, errors.New("no usable network address found; pass --ip")
	}
	id.IP = ip
	return id, nil
}

// firstAddress prefers IPv4 and skips loopback, link-local and down
// interfaces.
func firstAddress(ifaces net.InterfaceStatList) string {
	var v6 string
	for _, iface := range ifaces {
		if slices.Contains(iface.Flags, "loopback") || !slices.Contains(iface.Flags, "up") {
			continue
		}
		for _, a := range iface.Addrs {
			prefix, err := netip.ParsePrefix(a.Addr)
			if err != nil {
				continue
			}
			addr := prefix.Addr()
			if addr.IsLoopback() || addr.IsLinkLocalUnicast() {
				continue
			}
			if addr.Is4() {
				return addr.String()
			}
			if v6 == "" {
				v6 = addr.String()
			}
		}
	}
	return v6
}
