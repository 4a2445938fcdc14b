package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	testcases := []struct {
		desc     string
		name     string
		expected Type
	}{
		{desc: "canonical", name: "INVITE", expected: INVITE},
		{desc: "lowercase", name: "register", expected: REGISTER},
		{desc: "mixed case", name: "SubScribe", expected: SUBSCRIBE},
		{desc: "unknown", name: "PUBLISH", expected: Unknown},
		{desc: "prefix", name: "INV", expected: Unknown},
		{desc: "empty", name: "", expected: Unknown},
		{desc: "unknown by name", name: "UNKNOWN", expected: Unknown},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, Lookup(tc.name))
		})
	}
}

func TestAll(t *testing.T) {
	all := All()

	assert.Len(t, all, int(Unknown))
	assert.NotContains(t, all, Unknown)
	for _, m := range all {
		assert.Equal(t, m, Lookup(m.String()))
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "ACK", ACK.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "Type(42)", Type(42).String())
}
