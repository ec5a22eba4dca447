// Package schedule computes publish times for named daypart slots.
package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Slot is a named publish daypart with a fixed local wall-clock time.
type Slot struct {
	Name   string
	Hour   int
	Minute int
}

var slots = map[string]Slot{
	"morning": {Name: "morning", Hour: 8},
	"lunch":   {Name: "lunch", Hour: 12},
	"evening": {Name: "evening", Hour: 20},
	"night":   {Name: "night", Hour: 21, Minute: 30},
}

// Names lists the valid slot names in stable order.
func Names() []string {
	out := make([]string, 0, len(slots))
	for name := range slots {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Parse resolves a slot name.
func Parse(name string) (Slot, error) {
	s, ok := slots[name]
	if !ok {
		return Slot{}, fmt.Errorf("unknown slot %q (valid: %v)", name, Names())
	}
	return s, nil
}

// Next returns the first occurrence of the slot's wall-clock time in
// loc strictly after now. A time equal to or earlier than now rolls
// over to the next day.
func (s Slot) Next(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
	if !target.After(local) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}
