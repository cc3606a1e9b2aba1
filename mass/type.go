package mass

import "strings"

// Type identifies the liturgy variant celebrated on a date. Most weekdays
// have a single unlabeled mass (TypeDefault); solemnities publish several
// variants (vigil, dawn, day, night), and some feasts publish one page per
// lectionary year (A/B/C).
type Type string

const (
	TypeDefault Type = ""
	TypeDawn    Type = "dawn"
	TypeDay     Type = "day"
	TypeNight   Type = "night"
	TypeVigil   Type = "vigil"
	TypeYearA   Type = "year-a"
	TypeYearB   Type = "year-b"
	TypeYearC   Type = "year-c"

	// TypeUnknown marks a label the parser did not recognize. Unknown labels
	// are preserved as this variant rather than dropped, so new variants
	// published upstream stay observable.
	TypeUnknown Type = "unknown"
)

// PreferredTypes is the precedence used when a caller asks for a mass by
// date alone and several types exist: the day mass wins over the vigil,
// lectionary-year pages come next, and the unlabeled default is the
// fallback. Unknown types are never auto-selected.
var PreferredTypes = []Type{
	TypeDay,
	TypeVigil,
	TypeDawn,
	TypeNight,
	TypeYearA,
	TypeYearB,
	TypeYearC,
	TypeDefault,
}

// urlSuffixes maps each known type to its fragment in a readings page URL
// (e.g. 040625-Day.cfm). The default mass has no fragment.
var urlSuffixes = map[Type]string{
	TypeDefault: "",
	TypeDawn:    "-Dawn",
	TypeDay:     "-Day",
	TypeNight:   "-Night",
	TypeVigil:   "-Vigil",
	TypeYearA:   "-YearA",
	TypeYearB:   "-YearB",
	TypeYearC:   "-YearC",
}

// URLSuffix returns the URL fragment for the type. Unknown types map to the
// empty fragment; callers should not build URLs for them.
func (t Type) URLSuffix() string {
	return urlSuffixes[t]
}

// Known reports whether the type is one of the recognized variants.
func (t Type) Known() bool {
	_, ok := urlSuffixes[t]
	return ok
}

// String returns the JSON tag for the type. The default mass renders as
// "default" for display purposes only; its tag stays the empty string.
func (t Type) String() string {
	if t == TypeDefault {
		return "default"
	}
	return string(t)
}

// ParseType maps a mass-type label from the source site to a Type. Matching
// is case-insensitive and ignores spaces and dashes, so "YearA", "Year A"
// and "year-a" are the same type. Unrecognized labels map to TypeUnknown.
func ParseType(label string) Type {
	normalized := strings.ToLower(label)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	switch normalized {
	case "", "default":
		return TypeDefault
	case "dawn":
		return TypeDawn
	case "day":
		return TypeDay
	case "night":
		return TypeNight
	case "vigil":
		return TypeVigil
	case "yeara":
		return TypeYearA
	case "yearb":
		return TypeYearB
	case "yearc":
		return TypeYearC
	}
	return TypeUnknown
}
