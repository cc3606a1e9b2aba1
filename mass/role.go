package mass

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Role tags a reading with its liturgical function within a mass. The
// constant order is the canonical order readings appear in.
type Role int

const (
	RoleFirstReading Role = iota + 1
	RolePsalm
	RoleSecondReading

	// RoleReading covers readings numbered past the second. Vigil
	// liturgies publish up to seven; the Reading carries the ordinal.
	RoleReading

	RoleSequence
	RoleAcclamation
	RoleGospel

	// RoleUnknown marks a section heading that matched no recognized label.
	// It sorts after every canonical role.
	RoleUnknown
)

var roleTags = map[Role]string{
	RoleFirstReading:  "first_reading",
	RolePsalm:         "responsorial_psalm",
	RoleSecondReading: "second_reading",
	RoleReading:       "reading",
	RoleSequence:      "sequence",
	RoleAcclamation:   "gospel_acclamation",
	RoleGospel:        "gospel",
	RoleUnknown:       "unknown",
}

var roleNames = map[Role]string{
	RoleFirstReading:  "First Reading",
	RolePsalm:         "Responsorial Psalm",
	RoleSecondReading: "Second Reading",
	RoleReading:       "Reading",
	RoleSequence:      "Sequence",
	RoleAcclamation:   "Gospel Acclamation",
	RoleGospel:        "Gospel",
	RoleUnknown:       "Unknown",
}

// String returns the stable tag used in the JSON record format.
func (r Role) String() string {
	if tag, ok := roleTags[r]; ok {
		return tag
	}
	return roleTags[RoleUnknown]
}

// DisplayName returns the human-readable section header for the role.
func (r Role) DisplayName() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnknown]
}

// MarshalJSON encodes the role as its string tag.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a role tag. Unrecognized tags decode to RoleUnknown
// rather than failing, mirroring how unrecognized section labels are
// handled during extraction.
func (r *Role) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	for role, t := range roleTags {
		if t == tag {
			*r = role
			return nil
		}
	}
	*r = RoleUnknown
	return nil
}

var (
	arabicNumberPattern = regexp.MustCompile(`([0-9]+)$`)
	romanNumberPattern  = regexp.MustCompile(`\b([ivxlcdm]+)$`)
)

var romanValues = map[byte]int{
	'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000,
}

// ParseRole maps a section heading from the source markup to a Role.
// Matching is case- and whitespace-insensitive. Reading headings carry a
// number ("Reading 1", "Reading II", "First Reading"); ordinals past the
// second map to RoleReading with the ordinal kept by ReadingNumber.
func ParseRole(header string) Role {
	h := normalizeHeader(header)

	switch {
	case strings.Contains(h, "alleluia"),
		strings.Contains(h, "verse before the gospel"):
		return RoleAcclamation
	case strings.Contains(h, "sequence"):
		return RoleSequence
	case strings.Contains(h, "psalm"):
		return RolePsalm
	case strings.Contains(h, "gospel"):
		return RoleGospel
	case strings.Contains(h, "reading"):
		switch n := ReadingNumber(h); {
		case n == 1:
			return RoleFirstReading
		case n == 2:
			return RoleSecondReading
		case n > 2:
			return RoleReading
		}
		return RoleUnknown
	}
	return RoleUnknown
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

// ReadingNumber extracts the ordinal from a reading heading, accepting
// arabic ("Reading 2") and roman ("Reading II") numerals as well as the
// spelled-out forms. Returns 0 when no ordinal is present.
func ReadingNumber(header string) int {
	h := normalizeHeader(header)

	if m := arabicNumberPattern.FindStringSubmatch(h); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n
		}
	}
	if m := romanNumberPattern.FindStringSubmatch(h); m != nil {
		if n := romanToInt(m[1]); n > 0 {
			return n
		}
	}
	switch {
	case strings.Contains(h, "first"):
		return 1
	case strings.Contains(h, "second"):
		return 2
	case strings.Contains(h, "third"):
		return 3
	// The source site has spelled it both ways.
	case strings.Contains(h, "fourth"), strings.Contains(h, "forth"):
		return 4
	}
	return 0
}

// romanToInt converts a lowercase roman numeral to an integer, or 0 if the
// string is not a roman numeral.
func romanToInt(s string) int {
	total := 0
	prev := 0
	for i := len(s) - 1; i >= 0; i-- {
		val, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if val < prev {
			total -= val
		} else {
			total += val
			prev = val
		}
	}
	return total
}
