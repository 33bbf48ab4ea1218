// Package llmchat implements the free-form travel assistant and the
// interaction log shared by every upstream model call.
package llmchat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
)

// HistoryLimit is the number of prior turns forwarded upstream.
const HistoryLimit = 10

const personaPrompt = `You are ZipTrip AI, a friendly and knowledgeable travel assistant. You help users plan amazing trips around the world.

Your capabilities:
- Provide detailed travel advice and recommendations
- Suggest destinations based on user preferences
- Create itinerary suggestions with activities, restaurants, and attractions
- Answer questions about travel logistics, visas, best times to visit
- Recommend hotels, restaurants, and hidden gems
- Provide cultural tips and local customs
- Help with budget planning and cost estimates
- Suggest packing lists based on destination and season

`

const guidelinesPrompt = `

Guidelines:
- Be enthusiastic and helpful about travel
- Provide specific, actionable recommendations
- Include practical tips like best times to visit, local customs, etc.
- If asked about a destination, mention 2-3 must-see attractions
- Keep responses conversational but informative
- Use emojis sparingly to add personality
- If you don't know something specific, say so and suggest alternatives`

const noItineraryLoaded = "No itinerary loaded"

// dayDigest is the condensed form of one day sent as context.
type dayDigest struct {
	Day        int       `json:"day"`
	Title      string    `json:"title"`
	Activities *[]string `json:"activities,omitempty"`
}

// SystemPrompt returns the persona prompt, grounded on it when non-nil.
func SystemPrompt(it *models.Itinerary) string {
	var b strings.Builder
	b.WriteString(personaPrompt)
	if it != nil {
		b.WriteString(itineraryContext(it))
	}
	b.WriteString(guidelinesPrompt)
	return b.String()
}

func itineraryContext(it *models.Itinerary) string {
	destination := it.Destination
	if destination == "" {
		destination = "Not specified"
	}

	var b strings.Builder
	b.WriteString("\nCurrent itinerary context:\n")
	fmt.Fprintf(&b, "Destination: %s\n", destination)
	fmt.Fprintf(&b, "Days: %d\n", len(it.Days))
	fmt.Fprintf(&b, "Activities: %s\n", digest(it.Days))
	b.WriteString("\nWhen the user asks about modifying their itinerary, be specific about which day and activity to change.\n")
	return b.String()
}

// digest renders day, title and activity titles only, never the full structure.
func digest(days []models.ItineraryDay) string {
	var v any = noItineraryLoaded
	if days != nil {
		out := make([]dayDigest, 0, len(days))
		for _, d := range days {
			dd := dayDigest{Day: d.Day, Title: d.Title}
			if d.Activities != nil {
				titles := make([]string, 0, len(d.Activities))
				for _, a := range d.Activities {
					titles = append(titles, a.Title)
				}
				dd.Activities = &titles
			}
			out = append(out, dd)
		}
		v = out
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return `"` + noItineraryLoaded + `"`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// ComposeChatTurn builds the upstream message list: one system message, the
// last HistoryLimit history entries in order, then the new user message.
// history is never modified.
func ComposeChatTurn(message string, it *models.Itinerary, history []models.ChatMessage) []models.ChatMessage {
	recent := history
	if len(recent) > HistoryLimit {
		recent = recent[len(recent)-HistoryLimit:]
	}

	messages := make([]models.ChatMessage, 0, len(recent)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: SystemPrompt(it)})
	messages = append(messages, recent...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: message})
	return messages
}
