package mass

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRole verifies heading-to-role mapping across the label
// vocabulary the source site uses
func TestParseRole(t *testing.T) {
	tests := []struct {
		header string
		want   Role
	}{
		{"Reading 1", RoleFirstReading},
		{"Reading I", RoleFirstReading},
		{"READING I", RoleFirstReading},
		{"First Reading", RoleFirstReading},
		{"Reading 2", RoleSecondReading},
		{"Reading II", RoleSecondReading},
		{"Second Reading", RoleSecondReading},
		{"Reading 3", RoleReading},
		{"Reading III", RoleReading},
		{"Third Reading", RoleReading},
		{"Reading 7", RoleReading},
		{"Reading VII", RoleReading},
		{"Responsorial Psalm", RolePsalm},
		{"  responsorial   psalm ", RolePsalm},
		{"Alleluia", RoleAcclamation},
		{"Gospel Acclamation Alleluia", RoleAcclamation},
		{"Verse Before the Gospel", RoleAcclamation},
		{"Sequence", RoleSequence},
		{"Gospel", RoleGospel},
		{"GOSPEL", RoleGospel},
		{"Reading", RoleUnknown},
		{"Reflection", RoleUnknown},
		{"", RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.header))
		})
	}
}

// TestReadingNumber verifies arabic and roman ordinals in reading headings
func TestReadingNumber(t *testing.T) {
	tests := []struct {
		header string
		want   int
	}{
		{"Reading 1", 1},
		{"Reading 2", 2},
		{"Reading I", 1},
		{"Reading II", 2},
		{"Reading III", 3},
		{"Reading IV", 4},
		{"Reading XIV", 14},
		{"First Reading", 1},
		{"Second Reading", 2},
		{"Third Reading", 3},
		{"Forth Reading", 4},
		{"Reading", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingNumber(tt.header), "header %q", tt.header)
	}
}

// TestRoleCanonicalOrder verifies the constants sort in liturgical order
func TestRoleCanonicalOrder(t *testing.T) {
	assert.Less(t, RoleFirstReading, RolePsalm)
	assert.Less(t, RolePsalm, RoleSecondReading)
	assert.Less(t, RoleSecondReading, RoleReading)
	assert.Less(t, RoleReading, RoleSequence)
	assert.Less(t, RoleSequence, RoleAcclamation)
	assert.Less(t, RoleAcclamation, RoleGospel)
	assert.Less(t, RoleGospel, RoleUnknown)
}

// TestRoleJSONRoundTrip verifies role tags survive a marshal/unmarshal
// cycle and that unrecognized tags decode to RoleUnknown
func TestRoleJSONRoundTrip(t *testing.T) {
	roles := []Role{
		RoleFirstReading, RolePsalm, RoleSecondReading, RoleReading,
		RoleSequence, RoleAcclamation, RoleGospel, RoleUnknown,
	}

	for _, role := range roles {
		data, err := json.Marshal(role)
		require.NoError(t, err)

		var decoded Role
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, role, decoded)
	}

	var decoded Role
	require.NoError(t, json.Unmarshal([]byte(`"canticle"`), &decoded))
	assert.Equal(t, RoleUnknown, decoded)
}
