package facultykey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"jane.doe@college.edu", "jane_doe_college_edu"},
		{"Jane.Doe@College.EDU", "jane_doe_college_edu"},
		{"a.b.c@sub.example.com", "a_b_c_sub_example_com"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Encode(tc.email), "email %q", tc.email)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "jane_doe_college_edu", Encode("jane.doe@college.edu"))
	}
}

func TestEncodeProducesNoReservedCharacters(t *testing.T) {
	key := Encode("first.middle.last@dept.uni.ac.in")
	assert.NotContains(t, key, ".")
	assert.NotContains(t, key, "@")
}

func TestEncodeCollision(t *testing.T) {
	// the mapping is lossy: dots and underscores collapse onto the same key
	a := Encode("a.b@x.com")
	b := Encode("a_b@x.com")
	assert.Equal(t, a, b)
}

func TestDecode(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"jane_doe_college_edu", "jane.doe@college.edu"},
		{"jane_college_edu", "jane@college.edu"},
		{"plain", "plain"},
		{"a_b", "a_b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Decode(tc.key), "key %q", tc.key)
	}
}

func TestDecodeRoundTripForSimpleAddresses(t *testing.T) {
	// addresses with a single-label domain under a TLD survive the round trip
	for _, email := range []string{"jane.doe@college.edu", "bob@example.com"} {
		assert.Equal(t, email, Decode(Encode(email)))
	}
	// multi-label domains do not: the heuristic folds extra labels into the
	// local part, which is why stored records keep the original email
	decoded := Decode(Encode("x@sub.example.com"))
	assert.NotEqual(t, "x@sub.example.com", decoded)
	assert.True(t, strings.Contains(decoded, "@"))
}
