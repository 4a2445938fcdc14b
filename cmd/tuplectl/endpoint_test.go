package main

import (
	"sip-stack/transport"
	"sip-stack/transport/tuple"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		v6       bool
		wantErr  bool
		expected string
		domain   string
	}{
		{desc: "ipv4", input: "tcp/10.0.0.1/5060", expected: "[ V4 10.0.0.1:5060 TCP connectionId=0 ]"},
		{desc: "wildcard", input: "UDP//5060", expected: "[ V4 0.0.0.0:5060 UDP connectionId=0 ]"},
		{
			desc:     "domain",
			input:    "tls/10.0.0.1/5061@example.com",
			expected: "[ V4 10.0.0.1:5061 TLS connectionId=0 ]",
			domain:   "example.com",
		},
		{desc: "ipv6", input: "sctp/2001:db8::1/5060", v6: true, expected: "[ V6 2001:db8::1:5060 SCTP connectionId=0 ]"},
		{desc: "unknown transport", input: "smtp/10.0.0.1/25", wantErr: true},
		{desc: "missing port", input: "udp/10.0.0.1", wantErr: true},
		{desc: "port out of range", input: "udp/10.0.0.1/70000", wantErr: true},
		{desc: "bad address", input: "udp/10.0.0/5060", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			if tc.v6 && !tuple.IPv6Enabled {
				t.Skip("built without ipv6")
			}

			tup, err := parseEndpoint(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, tup.String())
			assert.Equal(t, tc.domain, tup.TargetDomain())
		})
	}
}

func TestParseEndpoints(t *testing.T) {
	tuples, err := parseEndpoints([]string{"udp/10.0.0.1/5060", "tcp/10.0.0.2/5060"})
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, transport.TCP, tuples[1].Type())

	_, err = parseEndpoints([]string{"udp/10.0.0.1/5060", "nope"})
	assert.Error(t, err)
}
