// Package tuple implements the endpoint identity used across the stack to
// name where a message came from or must go: an IPv4 or IPv6 address, a port
// and a transport type.
//
// A Tuple also carries a target-domain hint, the id of the transport that
// produced it and a connection id. None of them take part in equality,
// ordering or hashing.
package tuple

import (
	"encoding/binary"
	"sip-stack/network/ip"
	ipv4 "sip-stack/network/ip/v4"
	ipv6 "sip-stack/network/ip/v6"
	"sip-stack/transport"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Family selects which address variant of a Tuple is valid.
type Family uint8

const (
	V4 Family = iota
	V6
)

func (f Family) String() string {
	switch f {
	case V4:
		return "V4"
	case V6:
		return "V6"
	}
	return "Family(" + strconv.Itoa(int(f)) + ")"
}

// TransportID refers to a registered transport without owning it.
// The zero value means no transport is attached.
type TransportID uuid.UUID

func NewTransportID() TransportID { return TransportID(uuid.New()) }

func (id TransportID) IsZero() bool   { return id == TransportID{} }
func (id TransportID) String() string { return uuid.UUID(id).String() }

// ConnectionID identifies the connection currently carrying traffic to an endpoint.
type ConnectionID uint64

// Tuple is a transport endpoint. The zero value is the IPv4 wildcard
// address, port 0, transport.Unknown.
//
// Tuples are values. SetPort mutates in place and is not synchronized.
type Tuple struct {
	family Family
	addr   [ipv6.Len]byte // 4 bytes for V4 (the rest stay zero) or 16 bytes for V6
	port   [2]byte        // network byte order
	typ    transport.Type

	targetDomain string
	transport    TransportID
	connectionID ConnectionID
}

// New builds a tuple of the requested family. An empty addr binds to the
// family's wildcard address instead of being parsed.
func New(addr string, port uint16, v4 bool, typ transport.Type, targetDomain string) (Tuple, error) {
	if v4 {
		a := ipv4.Any
		if addr != "" {
			parsed, err := ipv4.ParseAddr(addr)
			if err != nil {
				return Tuple{}, errors.Wrapf(err, "parsing ipv4 address %q", addr)
			}
			a = parsed
		}
		return FromV4(a, port, typ, targetDomain), nil
	}

	mustIPv6()

	a := ipv6.Any
	if addr != "" {
		parsed, err := ipv6.ParseAddr(addr)
		if err != nil {
			return Tuple{}, errors.Wrapf(err, "parsing ipv6 address %q", addr)
		}
		a = parsed
	}
	return FromV6(a, port, typ, targetDomain), nil
}

// Parse builds a tuple, detecting the address family from its textual form.
// Anything that is not a dotted-quad IPv4 address, including the empty string
// and host names, is parsed as IPv6; use New with v4 set for the IPv4
// wildcard. In a build without IPv6 such input panics.
func Parse(addr string, port uint16, typ transport.Type, targetDomain string) (Tuple, error) {
	return New(addr, port, ipv4.IsAddr(addr), typ, targetDomain)
}

func FromV4(addr ipv4.Addr, port uint16, typ transport.Type, targetDomain string) Tuple {
	t := Tuple{family: V4, typ: typ, targetDomain: targetDomain}
	copy(t.addr[:], addr[:])
	t.SetPort(port)
	return t
}

func FromV6(addr ipv6.Addr, port uint16, typ transport.Type, targetDomain string) Tuple {
	mustIPv6()

	t := Tuple{family: V6, addr: addr, typ: typ, targetDomain: targetDomain}
	t.SetPort(port)
	return t
}

// SetPort overwrites the port. It is used when a provisional tuple later
// learns its real port.
func (t *Tuple) SetPort(port uint16) {
	t.checkFamily()
	binary.BigEndian.PutUint16(t.port[:], port)
}

// Port returns the port in host byte order.
func (t Tuple) Port() uint16 {
	t.checkFamily()
	return binary.BigEndian.Uint16(t.port[:])
}

func (t Tuple) Family() Family             { return t.family }
func (t Tuple) IsV4() bool                 { return t.family == V4 }
func (t Tuple) Type() transport.Type       { return t.typ }
func (t Tuple) TargetDomain() string       { return t.targetDomain }
func (t Tuple) Transport() TransportID     { return t.transport }
func (t Tuple) ConnectionID() ConnectionID { return t.connectionID }

// IsAnyInterface reports whether the address is the family's wildcard.
func (t Tuple) IsAnyInterface() bool {
	switch t.family {
	case V4:
		return t.V4() == ipv4.Any
	case V6:
		return t.V6() == ipv6.Any
	}
	panic(invalidFamily(t.family))
}

// V4 returns the IPv4 address. It panics unless the tuple is V4.
func (t Tuple) V4() ipv4.Addr {
	if t.family != V4 {
		panic("tuple: V4 called on " + t.family.String() + " tuple")
	}
	var a ipv4.Addr
	copy(a[:], t.addr[:ipv4.Len])
	return a
}

// V6 returns the IPv6 address. It panics unless the tuple is V6.
func (t Tuple) V6() ipv6.Addr {
	if t.family != V6 {
		panic("tuple: V6 called on " + t.family.String() + " tuple")
	}
	mustIPv6()
	return ipv6.Addr(t.addr)
}

// Addr returns the address as the family's own address type.
func (t Tuple) Addr() ip.Addr {
	if t.IsV4() {
		return t.V4()
	}
	return t.V6()
}

// WithTransport returns a copy of t attached to the transport id.
func (t Tuple) WithTransport(id TransportID) Tuple {
	t.transport = id
	return t
}

// WithConnectionID returns a copy of t carrying the connection id.
func (t Tuple) WithConnectionID(id ConnectionID) Tuple {
	t.connectionID = id
	return t
}

// WithTargetDomain returns a copy of t carrying the domain hint.
func (t Tuple) WithTargetDomain(domain string) Tuple {
	t.targetDomain = domain
	return t
}

// addrBytes returns the populated variant of the address.
func (t Tuple) addrBytes() []byte {
	switch t.family {
	case V4:
		return t.addr[:ipv4.Len]
	case V6:
		mustIPv6()
		return t.addr[:]
	}
	panic(invalidFamily(t.family))
}

func (t Tuple) checkFamily() {
	switch t.family {
	case V4:
	case V6:
		mustIPv6()
	default:
		panic(invalidFamily(t.family))
	}
}

func invalidFamily(f Family) string {
	return "tuple: invalid address family " + f.String()
}
