// Package rules holds the shift catalog and the legal work-hour constants.
// It is the single source of truth consulted by both the constraint model
// builder and the compliance oracle; neither re-declares any of these values.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses "HH:MM" into a Clock.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for compile-time-known literals.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// ShiftTemplate describes one shift code's fixed window and paid hours.
type ShiftTemplate struct {
	Code  string
	Start Clock
	End   Clock
	Hours float64
}

// TemplateOverride is a raw, possibly partial template definition supplied by
// configuration. Unparsable fields fall back to the built-in defaults.
type TemplateOverride struct {
	TimeRange string  // "06:30 - 15:00"
	Hours     float64 // 0 means "not given"
}

// Legal constants (Fair Work style, approximate).
const (
	MinRestHours                 = 10.0
	MaxConsecutiveDays           = 6
	MinCasualShiftHours          = 3.0
	WeeklyOvertimeToleranceHours = 2.0
	DefaultShiftHours            = 8.0
)

// Manager coverage windows.
var (
	OpeningCutoff = MustClock("07:00") // opening shift: starts at or before this
	ClosingCutoff = MustClock("22:00") // closing shift: ends at or after this

	LunchStart  = MustClock("11:00")
	LunchEnd    = MustClock("14:00")
	DinnerStart = MustClock("17:00")
	DinnerEnd   = MustClock("21:00")
)

// Horizon selects which contract-hour bucket a bound applies to.
type Horizon int

const (
	HorizonBiWeekly Horizon = iota // full 14-day planning window
	HorizonWeekly                  // single 7-day bucket
)

// Bounds is a [min, max] hour band.
type Bounds struct {
	Min float64
	Max float64
}

var biWeeklyBounds = map[model.ContractType]Bounds{
	model.ContractFullTime: {Min: 70.0, Max: 76.0}, // 35-38h/week
	model.ContractPartTime: {Min: 40.0, Max: 64.0}, // 20-32h/week
	model.ContractCasual:   {Min: 16.0, Max: 48.0}, // 8-24h/week
}

var weeklyBounds = map[model.ContractType]Bounds{
	model.ContractFullTime: {Min: 35.0, Max: 38.0},
	model.ContractPartTime: {Min: 20.0, Max: 32.0},
	model.ContractCasual:   {Min: 8.0, Max: 24.0},
}

func defaultTemplates() map[string]ShiftTemplate {
	return map[string]ShiftTemplate{
		"S":  {Code: "S", Start: MustClock("06:30"), End: MustClock("15:00"), Hours: 8.5},
		"1F": {Code: "1F", Start: MustClock("06:30"), End: MustClock("15:30"), Hours: 9.0},
		"2F": {Code: "2F", Start: MustClock("14:00"), End: MustClock("23:00"), Hours: 9.0},
		"3F": {Code: "3F", Start: MustClock("08:00"), End: MustClock("20:00"), Hours: 12.0},
		"SC": {Code: "SC", Start: MustClock("11:00"), End: MustClock("20:00"), Hours: 9.0},
	}
}

// Catalog is the immutable shift/rule table, built once per run.
type Catalog struct {
	templates map[string]ShiftTemplate
}

// NewCatalog builds a catalog from the built-in defaults merged with the
// given overrides. An override wins for every field it supplies and parses;
// the default fills the gaps. A fully unparsable override for an unknown code
// is skipped.
func NewCatalog(overrides map[string]TemplateOverride) *Catalog {
	templates := defaultTemplates()

	for code, ov := range overrides {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		tpl, hasDefault := templates[code]
		tpl.Code = code

		parsedWindow := false
		if left, right, ok := strings.Cut(ov.TimeRange, "-"); ok {
			start, errS := ParseClock(left)
			end, errE := ParseClock(right)
			if errS == nil && errE == nil {
				tpl.Start = start
				tpl.End = end
				parsedWindow = true
			}
		}

		if ov.Hours > 0 {
			tpl.Hours = ov.Hours
		} else if !hasDefault && parsedWindow {
			tpl.Hours = float64(tpl.End-tpl.Start) / 60.0
		}

		if !hasDefault && (!parsedWindow || tpl.Hours <= 0) {
			// Nothing usable for a brand-new code.
			continue
		}

		templates[code] = tpl
	}

	return &Catalog{templates: templates}
}

// Default returns a catalog built purely from the hard-coded templates.
func Default() *Catalog {
	return NewCatalog(nil)
}

// Template resolves a shift code.
func (c *Catalog) Template(code string) (ShiftTemplate, bool) {
	tpl, ok := c.templates[code]
	return tpl, ok
}

// Duration returns the paid hours for a shift code, defaulting to
// DefaultShiftHours for unknown codes. The leniency is deliberate: a roster
// referencing a code the catalog has never seen is still costed and checked
// rather than rejected.
func (c *Catalog) Duration(code string) float64 {
	if tpl, ok := c.templates[code]; ok {
		return tpl.Hours
	}
	return DefaultShiftHours
}

// Window returns the start/end clock of a shift code.
func (c *Catalog) Window(code string) (start, end Clock, ok bool) {
	tpl, found := c.templates[code]
	if !found {
		return 0, 0, false
	}
	return tpl.Start, tpl.End, true
}

// Codes lists every known shift code in ascending order.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.templates))
	for code := range c.templates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ContractBounds returns the hour band for the contract type at the given
// horizon. ok is false for contract types the rule table doesn't know.
func (c *Catalog) ContractBounds(ct model.ContractType, horizon Horizon) (Bounds, bool) {
	switch horizon {
	case HorizonWeekly:
		b, ok := weeklyBounds[ct]
		return b, ok
	default:
		b, ok := biWeeklyBounds[ct]
		return b, ok
	}
}

// RestHoursBetween computes the rest from the end of prevCode on day D to the
// start of nextCode on day D+1. Unknown codes are treated as safe (24h) so a
// partially known catalog never manufactures rest violations.
func (c *Catalog) RestHoursBetween(prevCode, nextCode string) float64 {
	prev, okPrev := c.templates[prevCode]
	next, okNext := c.templates[nextCode]
	if !okPrev || !okNext {
		return 24.0
	}
	minutes := (24*60 - int(prev.End)) + int(next.Start)
	return float64(minutes) / 60.0
}

// IsOpening reports whether the shift code starts early enough to cover store
// opening.
func (c *Catalog) IsOpening(code string) bool {
	tpl, ok := c.templates[code]
	return ok && tpl.Start <= OpeningCutoff
}

// IsClosing reports whether the shift code runs late enough to cover store
// close.
func (c *Catalog) IsClosing(code string) bool {
	tpl, ok := c.templates[code]
	return ok && tpl.End >= ClosingCutoff
}

// CoversWindow reports whether the shift overlaps [winStart, winEnd].
// Unknown codes cover nothing.
func (c *Catalog) CoversWindow(code string, winStart, winEnd Clock) bool {
	tpl, ok := c.templates[code]
	if !ok {
		return false
	}
	return tpl.Start <= winEnd && tpl.End >= winStart
}

// CoversLunch reports overlap with the lunch peak window.
func (c *Catalog) CoversLunch(code string) bool {
	return c.CoversWindow(code, LunchStart, LunchEnd)
}

// CoversDinner reports overlap with the dinner peak window.
func (c *Catalog) CoversDinner(code string) bool {
	return c.CoversWindow(code, DinnerStart, DinnerEnd)
}
