package api

import (
	"github.com/pevans/lectio/audiofeed"
	"github.com/pevans/lectio/mass"
)

// ReadingText is one reading in the external schema.
type ReadingText struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Reference string `json:"reference"`
	Content   string `json:"content"`
}

// DailyReading is the external representation of a resolved mass. Field
// names follow the consuming application's schema, which is why they are
// camelCased and flatter than the internal model.
type DailyReading struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	ReadingDate       string       `json:"readingDate"`
	MassType          string       `json:"massType"`
	AudioURL          *string      `json:"audioUrl"`
	Duration          *string      `json:"duration"`
	Author            string       `json:"author"`
	Subtitle          *string      `json:"subtitle"`
	FirstReading      *ReadingText `json:"firstReading"`
	ResponsorialPsalm *ReadingText `json:"responsorialPsalm"`
	SecondReading     *ReadingText `json:"secondReading"`
	Gospel            *ReadingText `json:"gospel"`
	HasTextContent    bool         `json:"hasTextContent"`
	HasAudio          bool         `json:"hasAudio"`
}

// FromMass maps an internal Mass onto the external schema, attaching the
// podcast episode when one exists.
func FromMass(m *mass.Mass, ep *audiofeed.Episode) DailyReading {
	date := m.Date.Format(mass.DateLayout)

	reading := DailyReading{
		ID:                "usccb-" + date,
		Title:             "Mass Readings for " + m.Date.Format("Monday, January 2, 2006"),
		Description:       m.Title,
		ReadingDate:       date,
		MassType:          m.Type.String(),
		Author:            "USCCB",
		FirstReading:      readingText(m.ByRole(mass.RoleFirstReading)),
		ResponsorialPsalm: readingText(m.ByRole(mass.RolePsalm)),
		SecondReading:     readingText(m.ByRole(mass.RoleSecondReading)),
		Gospel:            readingText(m.ByRole(mass.RoleGospel)),
		HasTextContent:    true,
	}

	if m.Title != "" {
		subtitle := m.Title
		reading.Subtitle = &subtitle
	}
	if ep != nil && ep.AudioURL != "" {
		audioURL := ep.AudioURL
		reading.AudioURL = &audioURL
		reading.HasAudio = true
		if ep.Duration != "" {
			duration := ep.Duration
			reading.Duration = &duration
		}
	}

	return reading
}

func readingText(r *mass.Reading) *ReadingText {
	if r == nil || r.Text == "" {
		return nil
	}
	return &ReadingText{
		Type:      r.Role.String(),
		Title:     r.Role.DisplayName(),
		Reference: r.Citation,
		Content:   r.Text,
	}
}
