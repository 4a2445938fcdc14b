package tuple

import (
	"bytes"
	"cmp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Policy selects which fields of a tuple take part in a comparison.
// Every policy orders by transport type first and then by family, with V6
// sorting after V4. Ports order numerically, the same on every host, since
// their network-order bytes are compared. Each one is a strict weak ordering
// and can back a sorted container.
type Policy uint8

const (
	// Exact compares type, family, address and port.
	Exact Policy = iota
	// AnyInterface ignores the address: "a binding on this port, any interface".
	AnyInterface
	// AnyPort ignores the port: "any binding for this host".
	AnyPort
	// AnyPortAnyInterface ignores both: "any transport of this type".
	AnyPortAnyInterface

	numPolicies
)

// Policies lists every policy from the most to the least specific.
var Policies = [numPolicies]Policy{Exact, AnyInterface, AnyPort, AnyPortAnyInterface}

var policyNames = [numPolicies]string{
	Exact:               "exact",
	AnyInterface:        "any-interface",
	AnyPort:             "any-port",
	AnyPortAnyInterface: "any-port-any-interface",
}

func (p Policy) String() string {
	if p >= numPolicies {
		return "Policy(" + strconv.Itoa(int(p)) + ")"
	}
	return policyNames[p]
}

// ParsePolicy resolves a policy by its name, case-insensitively.
func ParsePolicy(name string) (Policy, error) {
	for idx, n := range policyNames {
		if strings.EqualFold(name, n) {
			return Policy(idx), nil
		}
	}
	return 0, errors.Errorf("unknown comparison policy %q", name)
}

func (p Policy) usesAddr() bool { return p == Exact || p == AnyPort }
func (p Policy) usesPort() bool { return p == Exact || p == AnyInterface }

// Compare returns -1, 0 or +1 depending on whether a sorts before, is
// equivalent to, or sorts after b under p.
func (p Policy) Compare(a, b Tuple) int {
	if p >= numPolicies {
		panic("tuple: unknown comparison " + p.String())
	}
	a.checkFamily()
	b.checkFamily()

	if c := cmp.Compare(a.typ, b.typ); c != 0 {
		return c
	}
	if c := cmp.Compare(a.family, b.family); c != 0 {
		return c
	}
	if p.usesAddr() {
		if c := bytes.Compare(a.addrBytes(), b.addrBytes()); c != 0 {
			return c
		}
	}
	if p.usesPort() {
		return bytes.Compare(a.port[:], b.port[:])
	}
	return 0
}

func (p Policy) Less(a, b Tuple) bool  { return p.Compare(a, b) < 0 }
func (p Policy) Equal(a, b Tuple) bool { return p.Compare(a, b) == 0 }

func Compare(a, b Tuple) int                    { return Exact.Compare(a, b) }
func AnyInterfaceCompare(a, b Tuple) int        { return AnyInterface.Compare(a, b) }
func AnyPortCompare(a, b Tuple) int             { return AnyPort.Compare(a, b) }
func AnyPortAnyInterfaceCompare(a, b Tuple) int { return AnyPortAnyInterface.Compare(a, b) }

// Equal reports whether t and o name the same endpoint. Metadata is ignored.
func (t Tuple) Equal(o Tuple) bool { return Exact.Equal(t, o) }

// Less orders tuples by type, family, address and port.
func (t Tuple) Less(o Tuple) bool { return Exact.Less(t, o) }
