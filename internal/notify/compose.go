package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"showwise/internal/models"
)

// Urgency tells transports how loudly to frame an announcement
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// Embed colours, as Discord integers
const (
	ColorIndigo = 6366239
	ColorGold   = 16776960
	ColorOrange = 16753920
	ColorRed    = 16711680
)

const (
	dateTimeLayout = "January 02, 2006 at 03:04 PM"
	noCrewLinked   = "(no crew linked)"
)

// Participant is an assigned crew member resolved at fire time.
// Handle is the external messaging id and may be empty.
type Participant struct {
	Name   string
	Handle string
	Email  string
}

// Field is a labelled line of an announcement
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Announcement is a transport-neutral reminder message
type Announcement struct {
	EventID     uint
	Kind        Kind
	Title       string
	Description string
	// Content is the lead line; transports append their own mention syntax for Mentions.
	Content    string
	Color      int
	Urgency    Urgency
	Fields     []Field
	Footer     string
	Mentions   []string
	Unlinked   []string
	Recipients []Participant
}

type kindStyle struct {
	title   string
	body    string
	lead    string
	action  string
	color   int
	urgency Urgency
}

var styles = map[Kind]kindStyle{
	OneWeekBefore: {
		title:   "📅 Event in 1 Week: %s",
		body:    "Your event is coming up next week! Be prepared!",
		lead:    "⏰ Reminder to assigned crew:",
		action:  "in one week",
		color:   ColorGold,
		urgency: UrgencyNormal,
	},
	OneDayBefore: {
		title:   "⏰ Event Tomorrow: %s",
		body:    "Your event is happening tomorrow! Get ready!",
		lead:    "🚨 Event tomorrow - assigned crew:",
		action:  "tomorrow",
		color:   ColorOrange,
		urgency: UrgencyHigh,
	},
	DayOf: {
		title:   "🎭 EVENT TODAY: %s",
		body:    "Your event is happening now!",
		lead:    "🎬 EVENT IS HAPPENING NOW - Assigned crew:",
		action:  "happening now",
		color:   ColorRed,
		urgency: UrgencyUrgent,
	},
}

// CallToAction returns the short phrase used by plain-text transports for the kind
func (k Kind) CallToAction() string {
	return styles[k].action
}

// Compose builds the reminder for kind, addressed to the participants resolved at fire time.
// Participants without a handle are listed by name but not mentioned; when nobody has a
// handle the lead line carries a "(no crew linked)" notice and the message is still built.
func Compose(event *models.Event, kind Kind, participants []Participant, loc *time.Location) Announcement {
	style, ok := styles[kind]
	if !ok {
		style = styles[DayOf]
	}

	var mentions, unlinked []string
	for _, p := range participants {
		if p.Handle != "" {
			mentions = append(mentions, p.Handle)
		} else {
			unlinked = append(unlinked, p.Name)
		}
	}

	content := style.lead
	if len(mentions) == 0 {
		content = style.lead + " " + noCrewLinked
	}

	fields := eventFields(event, loc)
	fields = append(fields, Field{Name: "👥 Crew", Value: crewSummary(participants), Inline: false})
	if len(unlinked) > 0 {
		fields = append(fields, Field{
			Name:   "🔗 Not linked",
			Value:  strings.Join(unlinked, ", ") + " will not be pinged",
			Inline: false,
		})
	}

	return Announcement{
		EventID:     event.ID,
		Kind:        kind,
		Title:       fmt.Sprintf(style.title, event.Title),
		Description: style.body,
		Content:     content,
		Color:       style.color,
		Urgency:     style.urgency,
		Fields:      fields,
		Footer:      fmt.Sprintf("Event ID: %d", event.ID),
		Mentions:    mentions,
		Unlinked:    unlinked,
		Recipients:  participants,
	}
}

// ComposeCreated builds the announcement posted once when an event is created
func ComposeCreated(event *models.Event, loc *time.Location) Announcement {
	description := event.Description
	if description == "" {
		description = "No description provided"
	}
	return Announcement{
		EventID:     event.ID,
		Title:       fmt.Sprintf("🎭 New Event: %s", event.Title),
		Description: description,
		Color:       ColorIndigo,
		Urgency:     UrgencyLow,
		Fields:      eventFields(event, loc),
		Footer:      fmt.Sprintf("Event ID: %d", event.ID),
	}
}

func eventFields(event *models.Event, loc *time.Location) []Field {
	start := event.StartsAt
	if loc != nil {
		start = start.In(loc)
	}
	location := event.Location
	if location == "" {
		location = "TBD"
	}
	return []Field{
		{Name: "📅 Date & Time", Value: start.Format(dateTimeLayout)},
		{Name: "📍 Location", Value: location},
		{Name: "🎟️ Event ID", Value: strconv.FormatUint(uint64(event.ID), 10), Inline: true},
	}
}

func crewSummary(participants []Participant) string {
	if len(participants) == 0 {
		return "No crew assigned"
	}
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.Handle == "" {
			names = append(names, p.Name+" (not linked)")
			continue
		}
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
