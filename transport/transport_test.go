package transport

import (
	"sip-stack/network/ip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTransport(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected Type
	}{
		{desc: "canonical", input: "TCP", expected: TCP},
		{desc: "lower case", input: "tcp", expected: TCP},
		{desc: "mixed case", input: "sCtP", expected: SCTP},
		{desc: "unknown name", input: "UNKNOWN_TRANSPORT", expected: Unknown},
		{desc: "bogus", input: "bogus", expected: Unknown},
		{desc: "empty", input: "", expected: Unknown},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToTransport(tc.input))
		})
	}
}

func TestToData(t *testing.T) {
	assert.Equal(t, "TCP", ToData(TCP))
	assert.Equal(t, "UNKNOWN_TRANSPORT", ToData(Unknown))

	for typ := Unknown; typ < MaxType; typ++ {
		assert.Equal(t, typ, ToTransport(ToData(typ)))
	}

	assert.Panics(t, func() { ToData(MaxType) })
	assert.Equal(t, "Type(42)", Type(42).String())
}

func TestTypeText(t *testing.T) {
	b, err := DCCP.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "DCCP", string(b))

	_, err = MaxType.MarshalText()
	assert.Error(t, err)

	var typ Type
	require.NoError(t, typ.UnmarshalText([]byte("tls")))
	assert.Equal(t, TLS, typ)

	require.NoError(t, typ.UnmarshalText([]byte("unknown_transport")))
	assert.Equal(t, Unknown, typ)

	assert.ErrorIs(t, typ.UnmarshalText([]byte("quic")), ErrUnknownType)
}

func TestFromNextProto(t *testing.T) {
	assert.Equal(t, TCP, FromNextProto(ip.NextProtoTCP))
	assert.Equal(t, UDP, FromNextProto(ip.NextProtoUDP))
	assert.Equal(t, SCTP, FromNextProto(ip.NextProtoSCTP))
	assert.Equal(t, DCCP, FromNextProto(ip.NextProtoDCCP))
	assert.Equal(t, Unknown, FromNextProto(ip.NextProtoICMP))
}

func TestConnectionOriented(t *testing.T) {
	assert.False(t, UDP.ConnectionOriented())
	assert.False(t, Unknown.ConnectionOriented())
	assert.True(t, TCP.ConnectionOriented())
	assert.True(t, TLS.ConnectionOriented())
}
