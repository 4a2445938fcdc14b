package ipv4

import (
	"encoding/binary"
	"sip-stack/network/ip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const Len = 4

type Addr [Len]byte

// Any is the wildcard address (0.0.0.0).
var Any = Addr{}

var _ ip.Addr = Addr{}

func ParseAddr(s string) (Addr, error) {
	digits := strings.Split(s, ".")
	if len(digits) != 4 {
		return Addr{}, errors.New("digits are not properly seperated")
	}

	var addr Addr
	for idx, digit := range digits {
		n, err := strconv.ParseUint(digit, 10, 8)
		if err != nil {
			return Addr{}, errors.Wrap(err, "failed to parse a part into digit")
		}

		if digit[0] == '0' && !(n == 0 && len(digit) == 1) {
			// '00', '01'
			return Addr{}, errors.New("leading zero is not allowed in digit")
		}
		addr[idx] = byte(n)
	}

	return addr, nil
}

// IsAddr reports whether s is a dotted-quad IPv4 address.
func IsAddr(s string) bool {
	_, err := ParseAddr(s)
	return err == nil
}

func (a Addr) ToUint32() uint32 { return binary.BigEndian.Uint32(a[:]) }

func (a Addr) Raw() []byte         { return a[:] }
func (a Addr) Version() uint       { return 4 }
func (a Addr) IsUnspecified() bool { return a == Any }

func (a Addr) String() string {
	b := make([]byte, 0, len("255.255.255.255"))
	for idx, digit := range a {
		if idx > 0 {
			b = append(b, '.')
		}
		b = strconv.AppendUint(b, uint64(digit), 10)
	}
	return string(b)
}
