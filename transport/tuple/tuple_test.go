package tuple

import (
	ipv4 "sip-stack/network/ip/v4"
	ipv6 "sip-stack/network/ip/v6"
	"sip-stack/transport"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireIPv6(t *testing.T) {
	t.Helper()
	if !IPv6Enabled {
		t.Skip("built without ipv6")
	}
}

func mustParse(t *testing.T, addr string, port uint16, typ transport.Type) Tuple {
	t.Helper()
	tup, err := Parse(addr, port, typ, "")
	require.NoError(t, err)
	return tup
}

func TestNew(t *testing.T) {
	testcases := []struct {
		desc    string
		addr    string
		v4      bool
		wantErr bool
		family  Family
		repr    string
		anyIf   bool
	}{
		{desc: "ipv4", addr: "192.168.1.5", v4: true, family: V4, repr: "192.168.1.5"},
		{desc: "ipv4 any", addr: "", v4: true, family: V4, repr: "0.0.0.0", anyIf: true},
		{desc: "ipv4 explicit any", addr: "0.0.0.0", v4: true, family: V4, repr: "0.0.0.0", anyIf: true},
		{desc: "ipv6", addr: "fe80::1", v4: false, family: V6, repr: "fe80::1"},
		{desc: "ipv6 any", addr: "", v4: false, family: V6, repr: "::", anyIf: true},
		{desc: "bad ipv4", addr: "300.1.1.1", v4: true, wantErr: true},
		{desc: "ipv6 text for ipv4", addr: "::1", v4: true, wantErr: true},
		{desc: "bad ipv6", addr: "fe80:::1", v4: false, wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			if !tc.v4 {
				requireIPv6(t)
			}

			tup, err := New(tc.addr, 5060, tc.v4, transport.UDP, "example.com")
			if tc.wantErr {
				assert.Error(t, err)
				assert.Zero(t, tup)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.family, tup.Family())
			assert.Equal(t, tc.v4, tup.IsV4())
			assert.Equal(t, tc.repr, tup.Addr().String())
			assert.Equal(t, tc.anyIf, tup.IsAnyInterface())
			assert.Equal(t, uint16(5060), tup.Port())
			assert.Equal(t, transport.UDP, tup.Type())
			assert.Equal(t, "example.com", tup.TargetDomain())
		})
	}
}

func TestParseDetectsFamily(t *testing.T) {
	tup := mustParse(t, "10.0.0.1", 5060, transport.TCP)
	assert.True(t, tup.IsV4())
	assert.Equal(t, ipv4.Addr{10, 0, 0, 1}, tup.V4())

	requireIPv6(t)

	tup = mustParse(t, "2001:db8::7", 5061, transport.TLS)
	assert.False(t, tup.IsV4())
	assert.Equal(t, "2001:db8::7", tup.V6().String())

	_, err := Parse("sip.example.com", 5060, transport.UDP, "")
	assert.Error(t, err, "host names are not resolved")
}

func TestParseEmptyIsIPv6Wildcard(t *testing.T) {
	requireIPv6(t)

	tup := mustParse(t, "", 5060, transport.UDP)
	assert.False(t, tup.IsV4())
	assert.True(t, tup.IsAnyInterface())

	v4, err := New("", 5060, true, transport.UDP, "")
	assert.NoError(t, err)
	assert.True(t, v4.IsV4())
	assert.True(t, v4.IsAnyInterface())
	assert.False(t, v4.Equal(tup))
}

func TestRoundTrip(t *testing.T) {
	tup, err := New("192.168.1.5", 5060, true, transport.TCP, "")
	require.NoError(t, err)

	assert.Equal(t, uint16(5060), tup.Port())
	assert.True(t, tup.IsV4())
	assert.True(t, strings.HasPrefix(tup.String(), "[ V4 192.168.1.5:5060 TCP"), tup.String())
}

func TestZeroValue(t *testing.T) {
	var tup Tuple

	assert.True(t, tup.IsV4())
	assert.True(t, tup.IsAnyInterface())
	assert.Equal(t, uint16(0), tup.Port())
	assert.Equal(t, transport.Unknown, tup.Type())
	assert.True(t, tup.Transport().IsZero())
}

func TestSetPort(t *testing.T) {
	testcases := []struct {
		desc string
		tup  func() Tuple
		v6   bool
	}{
		{desc: "ipv4", tup: func() Tuple { return FromV4(ipv4.Addr{10, 0, 0, 1}, 0, transport.UDP, "") }},
		{desc: "ipv6", tup: func() Tuple { return FromV6(ipv6.Addr{15: 1}, 0, transport.UDP, "") }, v6: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			if tc.v6 {
				requireIPv6(t)
			}

			tup := tc.tup()
			for _, port := range []uint16{1, 5060, 0xFF00, 0x00FF, 65535} {
				tup.SetPort(port)
				assert.Equal(t, port, tup.Port())
			}

			before := tup.Addr().String()
			tup.SetPort(5060)
			assert.Equal(t, before, tup.Addr().String(), "port must not touch the address")
		})
	}
}

func TestFamilyAccessorsPanic(t *testing.T) {
	v4 := FromV4(ipv4.Addr{127, 0, 0, 1}, 5060, transport.UDP, "")
	assert.Panics(t, func() { v4.V6() })

	invalid := Tuple{family: Family(7)}
	assert.Panics(t, func() { invalid.Port() })
	assert.Panics(t, func() { invalid.SetPort(1) })
	assert.Panics(t, func() { invalid.Length() })
	assert.Panics(t, func() { invalid.IsAnyInterface() })
	assert.Panics(t, func() { invalid.Key() })
	assert.Equal(t, "Family(7)", invalid.Family().String())
}

func TestMetadata(t *testing.T) {
	id := NewTransportID()
	tup := mustParse(t, "10.0.0.1", 5060, transport.TCP).
		WithTransport(id).
		WithConnectionID(42).
		WithTargetDomain("example.com")

	assert.Equal(t, id, tup.Transport())
	assert.Equal(t, ConnectionID(42), tup.ConnectionID())
	assert.Equal(t, "example.com", tup.TargetDomain())
	assert.False(t, tup.Transport().IsZero())
}

func TestKey(t *testing.T) {
	a := mustParse(t, "10.0.0.1", 5060, transport.TCP)
	b := a.WithConnectionID(9).WithTargetDomain("example.com").WithTransport(NewTransportID())

	assert.Equal(t, a.Key(), b.Key())

	seen := map[Key]Tuple{a.Key(): a}
	_, ok := seen[b.Key()]
	assert.True(t, ok)

	restored := b.Key().Tuple()
	assert.True(t, restored.Equal(b))
	assert.Zero(t, restored.ConnectionID())
	assert.Empty(t, restored.TargetDomain())

	c := a
	c.SetPort(5061)
	assert.NotEqual(t, a.Key(), c.Key())
}
