package tuple

import (
	"encoding/binary"
	ipv4 "sip-stack/network/ip/v4"
	ipv6 "sip-stack/network/ip/v6"
	"sip-stack/transport"

	"github.com/pkg/errors"
)

// Linux socket-address layouts:
//
//	sockaddr_in:  family(2, host order) port(2, network order) addr(4) zero(8)
//	sockaddr_in6: family(2, host order) port(2, network order) flowinfo(4) addr(16) scope_id(4)
const (
	afInet  = 2
	afInet6 = 10

	sizeofSockaddrInet4 = 16
	sizeofSockaddrInet6 = 28
)

// Length returns the size of the OS socket-address structure for the
// tuple's family.
func (t Tuple) Length() int {
	switch t.family {
	case V4:
		return sizeofSockaddrInet4
	case V6:
		mustIPv6()
		return sizeofSockaddrInet6
	}
	panic(invalidFamily(t.family))
}

// RawSockaddr returns the tuple in the sockaddr_in or sockaddr_in6 layout.
func (t Tuple) RawSockaddr() []byte {
	return t.appendSockaddr(make([]byte, 0, t.Length()))
}

func (t Tuple) appendSockaddr(b []byte) []byte {
	switch t.family {
	case V4:
		b = binary.NativeEndian.AppendUint16(b, afInet)
		b = append(b, t.port[:]...)
		b = append(b, t.addr[:ipv4.Len]...)
		return append(b, make([]byte, 8)...)
	case V6:
		mustIPv6()
		b = binary.NativeEndian.AppendUint16(b, afInet6)
		b = append(b, t.port[:]...)
		b = append(b, 0, 0, 0, 0)
		b = append(b, t.addr[:]...)
		return append(b, 0, 0, 0, 0)
	}
	panic(invalidFamily(t.family))
}

// FromRawSockaddr builds a tuple from bytes in the sockaddr_in or
// sockaddr_in6 layout, taking the family from the structure itself.
func FromRawSockaddr(b []byte, typ transport.Type, targetDomain string) (Tuple, error) {
	if len(b) < 4 {
		return Tuple{}, ErrShortSockaddr
	}

	port := binary.BigEndian.Uint16(b[2:4])

	family := binary.NativeEndian.Uint16(b[0:2])
	switch family {
	case afInet:
		if len(b) < sizeofSockaddrInet4 {
			return Tuple{}, ErrShortSockaddr
		}
		return FromV4(ipv4.Addr(b[4:8]), port, typ, targetDomain), nil
	case afInet6:
		if !IPv6Enabled {
			return Tuple{}, errors.Wrap(ErrUnsupportedFamily, "ipv6 is disabled")
		}
		if len(b) < sizeofSockaddrInet6 {
			return Tuple{}, ErrShortSockaddr
		}
		return FromV6(ipv6.Addr(b[8:24]), port, typ, targetDomain), nil
	}
	return Tuple{}, errors.Wrapf(ErrUnsupportedFamily, "family %d", family)
}
