package ipv6

import (
	"net/netip"
	"sip-stack/network/ip"
	ipv4 "sip-stack/network/ip/v4"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const Len = 16

type Addr [Len]byte

// Any is the unspecified address (::).
var Any = Addr{}

var _ ip.Addr = Addr{}

func ParseAddr(s string) (Addr, error) {
	before, after, found := strings.Cut(s, "::")
	var addr Addr

	if !found {
		// Two colons not found. parse the whole string.
		addrBytes, err := parseAddrFrag(before, true)
		if err != nil {
			return Addr{}, err
		}
		if len(addrBytes) != 16 {
			return Addr{}, errors.New("length of address is not 128bit")
		}

		copy(addr[:], addrBytes)

		return addr, nil
	}

	// Two colons found. parse each of them and combine them.
	frag1, err1 := parseAddrFrag(before, false)
	frag2, err2 := parseAddrFrag(after, true)
	if err1 != nil || err2 != nil {
		if err1 != nil {
			return Addr{}, errors.Wrap(err1, "parsing fragment before ::")
		} else {
			return Addr{}, errors.Wrap(err2, "parsing fragment after ::")
		}
	}

	if len(frag1)+len(frag2) > 14 {
		// At least one group should be omitted.
		return Addr{}, errors.New("ipv6 address too long")
	}

	// copy first len(frag1) bytes.
	copy(addr[:len(frag1)], frag1)
	// copy last len(frag2) bytes.
	copy(addr[len(addr)-len(frag2):], frag2)

	return addr, nil
}

func parseAddrFrag(s string, isLast bool) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}

	h16s := strings.Split(s, ":")

	addr := make([]byte, 0, len(h16s)*2+2)
	for idx, h16 := range h16s {
		if h16 == "" {
			// 0:::, 0::0::
			return nil, errors.New("invalid use of colon seperator")
		}

		n, err := strconv.ParseUint(h16, 16, 16)
		if err != nil {
			if !isLast || idx != len(h16s)-1 {
				// If it is not the last element of the whole address
				return nil, errors.Wrap(err, "failed to parse hex")
			}
			// It might be IPv4 address, taking the last 32 bits.
			addrV4, err := ipv4.ParseAddr(h16)
			if err != nil {
				return nil, errors.Wrap(err,
					"non-hex item found on the last index, but wasn't ipv4 address",
				)
			}
			addr = append(addr, addrV4[:]...)
			break
		}

		addr = append(addr, byte(n>>8), byte(n&0xFF))
	}

	return addr, nil
}

func (a Addr) Raw() []byte         { return a[:] }
func (a Addr) Version() uint       { return 6 }
func (a Addr) IsUnspecified() bool { return a == Any }

// String formats the address in the RFC 5952 canonical form.
func (a Addr) String() string {
	return netip.AddrFrom16(a).String()
}
