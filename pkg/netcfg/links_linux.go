//go:build linux

package netcfg

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// ListInterfaces enumerates host network interface names via netlink,
// in kernel order.
func ListInterfaces() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	names := make([]string, 0, len(links))
	for _, link := range links {
		names = append(names, link.Attrs().Name)
	}
	return names, nil
}
