package transport

import (
	"fmt"
	"sip-stack/network/ip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type tags the transport-layer protocol of an endpoint.
// Its numeric order is the primary ordering key of endpoint comparisons.
type Type uint8

const (
	Unknown Type = iota
	UDP
	TCP
	TLS
	SCTP
	DCCP

	MaxType
)

var names = [MaxType]string{
	Unknown: "UNKNOWN_TRANSPORT",
	UDP:     "UDP",
	TCP:     "TCP",
	TLS:     "TLS",
	SCTP:    "SCTP",
	DCCP:    "DCCP",
}

// ToTransport resolves a transport name case-insensitively.
// Names that match nothing resolve to Unknown.
func ToTransport(name string) Type {
	for idx, n := range names {
		if strings.EqualFold(name, n) {
			return Type(idx)
		}
	}
	return Unknown
}

// ToData returns the canonical name of t. It panics if t is out of range.
func ToData(t Type) string {
	if t >= MaxType {
		panic(fmt.Sprintf("transport: type %d out of range", uint8(t)))
	}
	return names[t]
}

func (t Type) String() string {
	if t >= MaxType {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return names[t]
}

// ConnectionOriented reports whether the transport keeps a connection per peer.
func (t Type) ConnectionOriented() bool {
	switch t {
	case TCP, TLS, SCTP, DCCP:
		return true
	}
	return false
}

func (t Type) MarshalText() ([]byte, error) {
	if t >= MaxType {
		return nil, errors.Errorf("transport type %d out of range", uint8(t))
	}
	return []byte(names[t]), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	s := string(text)
	typ := ToTransport(s)
	if typ == Unknown && !strings.EqualFold(s, names[Unknown]) {
		return errors.Wrapf(ErrUnknownType, "%q", s)
	}
	*t = typ
	return nil
}

// FromNextProto maps an IP next-protocol number to its transport type.
// TLS rides on TCP and is never inferred.
func FromNextProto(proto ip.NextProto) Type {
	switch proto {
	case ip.NextProtoTCP:
		return TCP
	case ip.NextProtoUDP:
		return UDP
	case ip.NextProtoSCTP:
		return SCTP
	case ip.NextProtoDCCP:
		return DCCP
	}
	return Unknown
}
