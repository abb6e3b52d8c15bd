package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/wacky-pong/internal/sim"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 11
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick     int
	Subject  string // e.g. "B4", "O7", "--"
	Category string
	Message  string
}

// EventFeed is a ring buffer of simulation events rendered on-screen. It
// implements sim.Recorder and drops verbose entries.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed holding the last capacity entries. A
// non-positive capacity uses the default.
func NewEventFeed(capacity int) *EventFeed {
	if capacity <= 0 {
		capacity = feedMaxEntries
	}
	return &EventFeed{
		entries: make([]FeedEntry, capacity),
	}
}

// Add appends an entry to the feed.
func (f *EventFeed) Add(tick int, subject, category, key, value string, _ float64) {
	f.entries[f.head] = FeedEntry{
		Tick:     tick,
		Subject:  subject,
		Category: category,
		Message:  key + " " + value,
	}
	f.head = (f.head + 1) % len(f.entries)
	if f.count < len(f.entries) {
		f.count++
	}
}

// AddVerbose is a no-op; per-tick movement would flood the panel.
func (f *EventFeed) AddVerbose(int, string, string, string, string, float64) {}

// Len is the number of entries currently held.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	n := len(f.entries)
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + n) % n
		result[i] = f.entries[idx]
	}
	return result
}

// SimEntries converts the feed back into log entries for the debug report.
func (f *EventFeed) SimEntries() []sim.SimLogEntry {
	recent := f.Recent()
	out := make([]sim.SimLogEntry, len(recent))
	for i, e := range recent {
		out[i] = sim.SimLogEntry{Tick: e.Tick, Subject: e.Subject, Category: e.Category, Value: e.Message}
	}
	return out
}

// categoryColor picks the marker colour for a feed row.
func categoryColor(category string) color.RGBA {
	switch category {
	case "collision":
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	case "state":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "spawn":
		return color.RGBA{R: 90, G: 180, B: 90, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// Draw renders the feed panel at panelX, panelH tall.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 18, G: 18, B: 22, A: 255}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 70, G: 70, B: 90, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 30, G: 30, B: 40, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+feedPanelWidth), 16, 1.0, color.RGBA{R: 70, G: 70, B: 90, A: 200}, false)

	entries := f.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const highlight = 3

	y := 20
	for i, e := range entries {
		if i >= len(entries)-highlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 40, G: 40, B: 55, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Subject, e.Message), panelX+12, y)
		y += feedLineHeight
	}
}
