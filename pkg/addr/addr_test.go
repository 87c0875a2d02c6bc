package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBareAddress(t *testing.T) {
	cases := map[string]Spec{
		"0.0.0.0":         "0.0.0.0/32",
		"203.0.113.5":     "203.0.113.5/32",
		"255.255.255.255": "255.255.255.255/32",
		"  10.0.0.1  ":    "10.0.0.1/32",
	}
	for token, want := range cases {
		got, err := Parse(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got)
	}
}

func TestParseKeepsWrittenForm(t *testing.T) {
	// The written host stays as written; no rewrite to the network address.
	got, err := Parse("10.0.0.1/24")
	require.NoError(t, err)
	assert.Equal(t, Spec("10.0.0.1/24"), got)

	got, err = Parse("192.0.2.0/0")
	require.NoError(t, err)
	assert.Equal(t, Spec("192.0.2.0/0"), got)
}

func TestParseRejectsMalformedTokens(t *testing.T) {
	bad := []string{
		"",
		"256.0.0.1",
		"1.2.3",
		"1.2.3.4.5",
		"a.b.c.d",
		"1.2.3.4/33",
		"1.2.3.4/-1",
		"1.2.3.4/",
		"1.2.3.4/+8",
		"1.2.3.+4",
		"1.2..4",
		"1234.0.0.1",
		"10.0.0.1/321",
		"10.0.0.1/ 8",
		"10.0.0.1 /8",
	}
	for _, token := range bad {
		_, err := Parse(token)
		assert.ErrorIs(t, err, ErrInvalidAddress, "token %q", token)
	}
}

func TestParseListSplitsAndSkipsEmptyTokens(t *testing.T) {
	specs, err := ParseList([]string{"1.1.1.1, 2.2.2.2,", ",3.3.3.3", ""})
	require.NoError(t, err)
	assert.Equal(t, []Spec{"1.1.1.1/32", "2.2.2.2/32", "3.3.3.3/32"}, specs)
}

func TestParseListAbortsOnFirstInvalidToken(t *testing.T) {
	specs, err := ParseList([]string{"1.1.1.1", "999.0.0.1,2.2.2.2"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Contains(t, err.Error(), "999.0.0.1")
	assert.Nil(t, specs)
}

func TestListAddKeepsOrderAndDedups(t *testing.T) {
	var list List
	list = list.Add("10.0.0.1/32")
	list = list.Add("10.0.0.2/32")
	list = list.Add("10.0.0.1/32") // duplicate, absorbed

	assert.Equal(t, List{"10.0.0.1/32", "10.0.0.2/32"}, list)
	assert.True(t, list.Contains("10.0.0.2/32"))
	assert.False(t, list.Contains("10.0.0.3/32"))
	assert.Equal(t, 0, list.Index("10.0.0.1/32"))
	assert.Equal(t, -1, list.Index("10.0.0.3/32"))
}

func TestListCloneIsIndependent(t *testing.T) {
	orig := List{"10.0.0.1/32"}
	clone := orig.Clone()
	clone = clone.Add("10.0.0.2/32")

	assert.Equal(t, List{"10.0.0.1/32"}, orig)
	assert.Equal(t, List{"10.0.0.1/32", "10.0.0.2/32"}, clone)
	assert.Nil(t, List(nil).Clone())
}
