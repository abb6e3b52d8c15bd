package sim

import (
	"fmt"
	"strings"
)

// Recorder receives simulation events. SimLog keeps all of them; frontends
// can plug in a bounded feed instead.
type Recorder interface {
	Add(tick int, subject, category, key, value string, numVal float64)
	AddVerbose(tick int, subject, category, key, value string, numVal float64)
}

// SimLogEntry is one recorded event.
type SimLogEntry struct {
	Tick     int
	Subject  string  // entity label e.g. "B4", "O7", or "--" for global events
	Category string  // spawn, collision, state, input, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0150] --   spawn     obstacle         O5 x=212 w=64
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-9s %-16s %s",
		e.Tick, e.Subject, e.Category, e.Key, e.Value)
}

// SimLog collects structured events. It is unbounded and machine-readable;
// use it for headless runs and tests.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick input and movement
// entries are recorded too.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, subject, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{tick, subject, category, key, value, numVal})
}

// AddVerbose records only when the log was created verbose.
func (sl *SimLog) AddVerbose(tick int, subject, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, subject, category, key, value, numVal)
	}
}

func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

// where returns the entries keep accepts, in record order.
func (sl *SimLog) where(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// is matches category and key; an empty argument matches anything.
func (e SimLogEntry) is(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// Filter returns entries with the given category and key ("" matches any).
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.is(category, key) })
}

// FilterSubject returns every entry about one entity label.
func (sl *SimLog) FilterSubject(label string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Subject == label })
}

// FilterTickRange returns entries with from <= Tick <= to.
func (sl *SimLog) FilterTickRange(from, to int) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Tick >= from && e.Tick <= to })
}

func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// FirstTick is the tick of the earliest category/key entry, or -1.
func (sl *SimLog) FirstTick(category, key string) int {
	for _, e := range sl.entries {
		if e.is(category, key) {
			return e.Tick
		}
	}
	return -1
}

// HasEntry reports whether any category/key entry has valueSubstr in its Value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if e.is(category, key) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders the whole log, one line per entry, for t.Log and reports.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

func (sl *SimLog) FormatRange(from, to int) string {
	return formatEntries(sl.FilterTickRange(from, to))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintln(&sb, e)
	}
	return sb.String()
}
