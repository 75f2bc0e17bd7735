package localnet

import (
	"net"

	"go.uber.org/zap"

	"github.com/muurk/wizlocal/internal/logging"
)

const (
	// Unspecified is returned when no usable address can be found
	Unspecified = "0.0.0.0"
	// LimitedBroadcast reaches every host on the local segment
	LimitedBroadcast = "255.255.255.255"

	// routeProbe is only used to ask the kernel which source address it
	// would pick; no packet is sent.
	routeProbe = "8.8.8.8:80"
)

// ResolveLocalAddress returns the first IPv4 address of the named interface.
// When the name is empty or the interface has no IPv4 address, the address of
// the default route is used, and failing that 0.0.0.0. It never fails.
func ResolveLocalAddress(interfaceName string) string {
	if interfaceName != "" {
		if ipnet := interfaceIPv4(interfaceName); ipnet != nil {
			return ipnet.IP.String()
		}
		logging.Debug("Interface has no IPv4 address, using default route",
			zap.String("interface", interfaceName))
	}
	if ip := defaultRouteAddress(); ip != nil {
		return ip.String()
	}
	return Unspecified
}

// BroadcastAddress returns the directed broadcast address of the named
// interface, or 255.255.255.255 when it cannot be determined.
func BroadcastAddress(interfaceName string) string {
	if interfaceName == "" {
		return LimitedBroadcast
	}
	ipnet := interfaceIPv4(interfaceName)
	if ipnet == nil {
		return LimitedBroadcast
	}
	ip := ipnet.IP.To4()
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = ip[i] | ^mask[i]
	}
	return bcast.String()
}

// Interfaces lists the names of interfaces that are up and carry IPv4
func Interfaces() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	var names []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if interfaceIPv4(iface.Name) != nil {
			names = append(names, iface.Name)
		}
	}
	return names
}

func interfaceIPv4(name string) *net.IPNet {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		logging.Debug("Interface lookup failed", zap.String("interface", name), zap.Error(err))
		return nil
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return &net.IPNet{IP: ip4, Mask: ipnet.Mask}
		}
	}
	return nil
}

func defaultRouteAddress() net.IP {
	conn, err := net.Dial("udp4", routeProbe)
	if err != nil {
		logging.Debug("No default route", zap.Error(err))
		return nil
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.To4() == nil {
		return nil
	}
	return addr.IP.To4()
}
