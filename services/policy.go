package services

import (
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/config"
)

// SchoolPolicy carries the schedule rules the engine evaluates locally:
// the period table, fixed break positions, the weekly rest day and the
// fallback subject label for unscheduled periods.
type SchoolPolicy struct {
	PeriodsPerDay       int
	BreakPeriods        map[int]bool
	RestDay             time.Weekday
	DefaultSubjectLabel string
}

// PolicyFromConfig builds the policy from the loaded application config.
func PolicyFromConfig() SchoolPolicy {
	c := config.AppConfig
	return SchoolPolicy{
		PeriodsPerDay:       c.PeriodsPerDay,
		BreakPeriods:        c.BreakPeriods,
		RestDay:             c.RestDay,
		DefaultSubjectLabel: c.DefaultSubjectLabel,
	}
}

// PeriodExists reports whether the period number is in the configured table.
func (p SchoolPolicy) PeriodExists(period int) bool {
	return period >= 1 && period <= p.PeriodsPerDay
}

// IsBreak reports whether the period is a fixed break position.
func (p SchoolPolicy) IsBreak(period int) bool {
	return p.BreakPeriods[period]
}

// SchoolDays are the assignable days of the weekly grid, Monday through
// Saturday. The rest day never appears here.
func (p SchoolPolicy) SchoolDays() []time.Weekday {
	days := make([]time.Weekday, 0, 6)
	for d := time.Monday; d <= time.Saturday; d++ {
		if d == p.RestDay {
			continue
		}
		days = append(days, d)
	}
	return days
}
