package model

import (
	"sort"
	"time"
)

// ContractType determines the legal hour bounds an employee works under.
type ContractType string

const (
	ContractFullTime ContractType = "full_time"
	ContractPartTime ContractType = "part_time"
	ContractCasual   ContractType = "casual"
)

// SkillTag marks a station an employee can work, or the manager role.
type SkillTag string

const (
	SkillKitchen  SkillTag = "kitchen"
	SkillCounter  SkillTag = "counter"
	SkillCafe     SkillTag = "cafe"
	SkillDessert  SkillTag = "dessert"
	SkillDelivery SkillTag = "delivery"
	SkillManager  SkillTag = "manager"
)

// Employee is immutable once loaded into a Context.
type Employee struct {
	ID           string
	Name         string
	ContractType ContractType
	SkillTags    []SkillTag
}

// HasSkill reports whether the employee carries the given tag.
func (e *Employee) HasSkill(tag SkillTag) bool {
	for _, t := range e.SkillTags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsManager reports whether the employee holds the manager skill tag.
func (e *Employee) IsManager() bool {
	return e.HasSkill(SkillManager)
}

// Availability maps employee ID -> day -> allowed shift codes for that day.
// A missing day means the employee is unavailable that day.
type Availability map[string]map[time.Time][]string

// AllowedCodes returns the shift codes the employee may work on the given
// day, or nil when unavailable.
func (av Availability) AllowedCodes(employeeID string, day time.Time) []string {
	byDay, ok := av[employeeID]
	if !ok {
		return nil
	}
	return byDay[Day(day)]
}

// Allows reports whether the employee may work the given code on the day.
func (av Availability) Allows(employeeID string, day time.Time, code string) bool {
	for _, c := range av.AllowedCodes(employeeID, day) {
		if c == code {
			return true
		}
	}
	return false
}

// Demand maps day -> station -> required headcount.
type Demand map[time.Time]map[SkillTag]int

// TotalFor returns the summed headcount demand for the day.
func (d Demand) TotalFor(day time.Time) int {
	total := 0
	for _, n := range d[Day(day)] {
		total += n
	}
	return total
}

// Context holds the read-only inputs for a single store and planning window.
type Context struct {
	Employees    map[string]*Employee
	Availability Availability
	DemandByDate Demand

	// ManagerTemplateByWeekday holds the expected number of managers on duty
	// per weekday (0=Monday .. 6=Sunday), learned from the management roster.
	ManagerTemplateByWeekday map[int]int
}

// SortedEmployeeIDs returns all employee IDs in ascending order. Every
// component that walks the employee set uses this so tie-breaking is
// reproducible.
func (c *Context) SortedEmployeeIDs() []string {
	ids := make([]string, 0, len(c.Employees))
	for id := range c.Employees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ShiftAssignment is a value: one employee working one coded shift on one day.
type ShiftAssignment struct {
	EmployeeID string
	Date       time.Time
	ShiftCode  string
	Station    SkillTag // empty until the stationing pass runs
	StoreID    string
}

// Roster is the full set of assignments for one store over a date range.
type Roster struct {
	StoreID     string
	StartDate   time.Time
	EndDate     time.Time
	Assignments []ShiftAssignment
}

// AssignmentsForEmployee returns the employee's assignments sorted by date.
func (r *Roster) AssignmentsForEmployee(employeeID string) []ShiftAssignment {
	var out []ShiftAssignment
	for _, a := range r.Assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SortedAssignments returns a copy of the assignments ordered by
// (employee ID, date, shift code).
func (r *Roster) SortedAssignments() []ShiftAssignment {
	out := make([]ShiftAssignment, len(r.Assignments))
	copy(out, r.Assignments)
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ShiftCode < out[j].ShiftCode
	})
	return out
}

// ViolationSeverity distinguishes legally blocking findings from advisories.
type ViolationSeverity string

const (
	SeverityHard ViolationSeverity = "hard"
	SeveritySoft ViolationSeverity = "soft"
)

// Violation codes emitted by the compliance oracle.
const (
	CodeMinHoursNotMet             = "MIN_HOURS_NOT_MET"
	CodeMaxHoursExceeded           = "MAX_HOURS_EXCEEDED"
	CodeWeeklyMinHoursNotMet       = "WEEKLY_MIN_HOURS_NOT_MET"
	CodeWeeklyMaxHoursExceeded     = "WEEKLY_MAX_HOURS_EXCEEDED"
	CodeMinShiftLengthCasual       = "MIN_SHIFT_LENGTH_CASUAL"
	CodeInsufficientRest           = "INSUFFICIENT_REST"
	CodeMaxConsecutiveDaysExceeded = "MAX_CONSECUTIVE_DAYS_EXCEEDED"
	CodeUnknownEmployee            = "UNKNOWN_EMPLOYEE"
)

// Violation is one compliance finding for a roster.
type Violation struct {
	Severity   ViolationSeverity
	Code       string
	Message    string
	EmployeeID string     // optional
	Date       *time.Time // optional
}

// Metrics summarises how well a roster serves demand and management coverage.
type Metrics struct {
	CoverageScore               float64
	PeakCoverageScore           float64
	ManagerCoverageScore        float64
	ManagerOpeningCoverage      float64
	ManagerClosingCoverage      float64
	ManagerPeakTwoCoverageScore float64
	LabourCostEstimate          float64
	// FairnessScore holds the weekend uplift ratio:
	// weekend average staff per day / weekday average staff per day.
	FairnessScore float64
}

// Day normalises a timestamp to UTC midnight so dates compare and hash
// consistently as map keys.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC-midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween expands [start, end] inclusive into consecutive dates.
func DaysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
