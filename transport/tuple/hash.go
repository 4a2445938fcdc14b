package tuple

import (
	ipv6 "sip-stack/network/ip/v6"
	"sip-stack/transport"

	"github.com/spaolacci/murmur3"
)

// Hash digests the transport type and the raw socket-address bytes.
// Tuples that are Equal hash identically; the fuzzy policies give no such
// guarantee.
func (t Tuple) Hash() uint64 {
	buf := make([]byte, 0, 1+sizeofSockaddrInet6)
	buf = append(buf, byte(t.typ))
	buf = t.appendSockaddr(buf)
	return murmur3.Sum64(buf)
}

// Key is the comparable identity of a tuple, usable as a Go map key.
// Two tuples have the same Key exactly when they are Equal.
type Key struct {
	typ    transport.Type
	family Family
	addr   [ipv6.Len]byte
	port   [2]byte
}

func (t Tuple) Key() Key {
	t.checkFamily()
	return Key{typ: t.typ, family: t.family, addr: t.addr, port: t.port}
}

// Tuple rebuilds a tuple with no metadata attached.
func (k Key) Tuple() Tuple {
	return Tuple{typ: k.typ, family: k.family, addr: k.addr, port: k.port}
}
