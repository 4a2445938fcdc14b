//go:build linux

package tuple

import (
	ipv4 "sip-stack/network/ip/v4"
	ipv6 "sip-stack/network/ip/v6"
	"sip-stack/transport"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Sockaddr converts the tuple for use with the unix socket calls.
func (t Tuple) Sockaddr() unix.Sockaddr {
	switch t.family {
	case V4:
		return &unix.SockaddrInet4{Port: int(t.Port()), Addr: t.V4()}
	case V6:
		return &unix.SockaddrInet6{Port: int(t.Port()), Addr: t.V6()}
	}
	panic(invalidFamily(t.family))
}

// FromSockaddr builds a tuple from an address returned by accept or recvfrom.
func FromSockaddr(sa unix.Sockaddr, typ transport.Type, targetDomain string) (Tuple, error) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return FromV4(ipv4.Addr(sa.Addr), uint16(sa.Port), typ, targetDomain), nil
	case *unix.SockaddrInet6:
		if !IPv6Enabled {
			return Tuple{}, errors.Wrap(ErrUnsupportedFamily, "ipv6 is disabled")
		}
		return FromV6(ipv6.Addr(sa.Addr), uint16(sa.Port), typ, targetDomain), nil
	}
	return Tuple{}, errors.Wrapf(ErrUnsupportedFamily, "%T", sa)
}

// FromRawSockaddrAny builds a tuple from the generic socket-address storage
// filled in by the kernel.
func FromRawSockaddrAny(rsa *unix.RawSockaddrAny, typ transport.Type, targetDomain string) (Tuple, error) {
	var size uintptr
	switch rsa.Addr.Family {
	case unix.AF_INET:
		size = unix.SizeofSockaddrInet4
	case unix.AF_INET6:
		size = unix.SizeofSockaddrInet6
	default:
		return Tuple{}, errors.Wrapf(ErrUnsupportedFamily, "family %d", rsa.Addr.Family)
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(rsa)), size)
	return FromRawSockaddr(raw, typ, targetDomain)
}
