// Package mass defines the structured model for a day's liturgical
// readings: the Mass aggregate, its Readings tagged by Role, and the
// mass Type variants a date can publish.
package mass

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 date format used in the JSON record format.
const DateLayout = "2006-01-02"

// Liturgical close remarks appended when dumping readings for display.
const (
	readingCloseRemarks  = "The word of the Lord."
	readingCloseResponse = "Thanks be to God."
	gospelCloseRemarks   = "The Gospel of the Lord."
	gospelCloseResponse  = "Praise to you, Lord Jesus Christ."
)

// Verse is one citation fragment: the display text (e.g. "Jn 3:16") and the
// link to the passage on the source site.
type Verse struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Reading is one liturgical passage: its role, the citation naming the
// passage, and the body text. Number carries the ordinal for readings past
// the second (RoleReading), which vigil liturgies publish.
type Reading struct {
	Role     Role    `json:"role"`
	Number   int     `json:"number,omitempty"`
	Citation string  `json:"citation"`
	Text     string  `json:"text"`
	Verses   []Verse `json:"verses,omitempty"`
}

// displayName is the section header used when dumping the reading.
func (r Reading) displayName() string {
	if r.Role == RoleReading && r.Number > 0 {
		return fmt.Sprintf("Reading %d", r.Number)
	}
	return r.Role.DisplayName()
}

// Mass is the aggregate for one (date, type) pair. A Mass is uniquely
// identified by its Date and Type; its readings are ordered canonically by
// role. Masses are never mutated after assembly.
type Mass struct {
	Date     time.Time
	Type     Type
	Title    string
	URL      string
	Readings []Reading
}

// Assemble validates extracted readings and builds an immutable Mass.
// The first reading and the gospel are mandatory; if either is missing,
// Assemble returns nil: an explicit "no mass for this input" result, not
// an error, because callers routinely probe (date, type) combinations that
// do not exist. Readings are sorted into canonical role order. Assembling
// the same inputs twice yields equal Masses.
func Assemble(date time.Time, t Type, title, url string, readings []Reading) *Mass {
	if !hasRole(readings, RoleFirstReading) || !hasRole(readings, RoleGospel) {
		return nil
	}

	ordered := make([]Reading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Role != ordered[j].Role {
			return ordered[i].Role < ordered[j].Role
		}
		return ordered[i].Number < ordered[j].Number
	})

	return &Mass{
		Date:     NormalizeDate(date),
		Type:     t,
		Title:    title,
		URL:      url,
		Readings: ordered,
	}
}

func hasRole(readings []Reading, role Role) bool {
	for _, r := range readings {
		if r.Role == role {
			return true
		}
	}
	return false
}

// NormalizeDate strips the time-of-day and zone from a date so that two
// times on the same civil day compare equal.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ByRole returns the first reading with the given role, or nil if the mass
// has none.
func (m *Mass) ByRole(role Role) *Reading {
	for i := range m.Readings {
		if m.Readings[i].Role == role {
			return &m.Readings[i]
		}
	}
	return nil
}

// massJSON is the serialized record format: ISO-8601 date, string type tag,
// and the ordered reading array.
type massJSON struct {
	Date     string    `json:"date"`
	Type     Type      `json:"type"`
	Title    string    `json:"title,omitempty"`
	URL      string    `json:"url,omitempty"`
	Readings []Reading `json:"readings"`
}

// MarshalJSON implements the JSON record format for a Mass.
func (m Mass) MarshalJSON() ([]byte, error) {
	return json.Marshal(massJSON{
		Date:     m.Date.Format(DateLayout),
		Type:     m.Type,
		Title:    m.Title,
		URL:      m.URL,
		Readings: m.Readings,
	})
}

// UnmarshalJSON decodes the JSON record format back into a Mass.
func (m *Mass) UnmarshalJSON(data []byte) error {
	var rec massJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	date, err := time.Parse(DateLayout, rec.Date)
	if err != nil {
		return fmt.Errorf("invalid mass date %q: %w", rec.Date, err)
	}

	m.Date = date
	m.Type = rec.Type
	m.Title = rec.Title
	m.URL = rec.URL
	m.Readings = rec.Readings
	return nil
}

// Dump returns a human-readable rendering of the mass for terminal output:
// title, date and source URL, then each reading with its section header,
// citation, body text, and the liturgical close remarks for readings and
// the gospel.
func (m *Mass) Dump() string {
	var b strings.Builder

	if m.Title != "" {
		b.WriteString(m.Title + "\n")
	}
	b.WriteString(m.Date.Format("January 2, 2006") + "\n")
	if m.URL != "" {
		b.WriteString(m.URL + "\n")
	}

	for _, r := range m.Readings {
		b.WriteString("\n" + r.displayName())
		if r.Citation != "" {
			b.WriteString(": " + r.Citation)
		}
		b.WriteString("\n\n" + r.Text + "\n")

		switch r.Role {
		case RoleFirstReading, RoleSecondReading, RoleReading:
			b.WriteString(readingCloseRemarks + "\n" + readingCloseResponse + "\n")
		case RoleGospel:
			b.WriteString(gospelCloseRemarks + "\n" + gospelCloseResponse + "\n")
		}
	}

	return b.String()
}
