package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
)

// PeriodKind selects the aggregation window shape.
type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodMonth PeriodKind = "month"
	PeriodYear  PeriodKind = "year"
	PeriodRange PeriodKind = "range"
)

// PeriodSpec is one aggregation window. Use the constructors.
type PeriodSpec struct {
	Kind  PeriodKind
	Date  time.Time // day
	Year  int       // month, year
	Month time.Month
	From  time.Time // range
	To    time.Time
}

func Day(date time.Time) PeriodSpec   { return PeriodSpec{Kind: PeriodDay, Date: DateOf(date)} }
func MonthOf(year int, month time.Month) PeriodSpec {
	return PeriodSpec{Kind: PeriodMonth, Year: year, Month: month}
}
func YearOf(year int) PeriodSpec { return PeriodSpec{Kind: PeriodYear, Year: year} }
func Range(from, to time.Time) PeriodSpec {
	return PeriodSpec{Kind: PeriodRange, From: DateOf(from), To: DateOf(to)}
}

// Bounds returns the inclusive date window of the period spec.
func (p PeriodSpec) Bounds() (time.Time, time.Time, error) {
	switch p.Kind {
	case PeriodDay:
		return p.Date, p.Date, nil
	case PeriodMonth:
		from := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
		return from, from.AddDate(0, 1, -1), nil
	case PeriodYear:
		from := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.Local)
		return from, time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.Local), nil
	case PeriodRange:
		if p.To.Before(p.From) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %s before %s", ErrInvalidPeriod,
				p.To.Format("2006-01-02"), p.From.Format("2006-01-02"))
		}
		return p.From, p.To, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidPeriod, p.Kind)
	}
}

// Day statuses for the single-day report shape.
const (
	DayPresent  = "Present"
	DayAbsent   = "Absent"
	DayNoRecord = "No Record"
)

// HistoryEntry is one working day in the detailed report history.
type HistoryEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// AttendanceSummary is the aggregation result. A Day spec yields only
// DayStatus; the percentage shape applies to month/year/range windows. The
// percentage is kept at full precision so repeated aggregation reproduces
// the same value; presentation rounding belongs to the consumer.
type AttendanceSummary struct {
	Kind              PeriodKind     `json:"kind"`
	DayStatus         string         `json:"day_status,omitempty"`
	TotalDays         int            `json:"total_days"`
	DaysPresent       int            `json:"days_present"`
	DaysAbsent        int            `json:"days_absent"`
	OverallPercentage float64        `json:"overall_percentage"`
	DetailedHistory   []HistoryEntry `json:"detailed_history,omitempty"`
}

// AttendanceAggregator computes reportable statistics from stored attendance
// records. It does not invent working-day calendars: a working day is any
// date for which the store returned at least one record.
type AttendanceAggregator struct {
	store AttendanceStore
}

// NewAttendanceAggregator wires an aggregator over an attendance store.
func NewAttendanceAggregator(store AttendanceStore) *AttendanceAggregator {
	return &AttendanceAggregator{store: store}
}

// NewDefaultAttendanceAggregator wires the aggregator over the MySQL store.
func NewDefaultAttendanceAggregator() *AttendanceAggregator {
	return NewAttendanceAggregator(NewAttendanceStore())
}

// Summarize aggregates the scope's records over the window. A Day spec
// returns the single matching status (or "No Record") and never a
// percentage; dividing one day would be degenerate.
func (a *AttendanceAggregator) Summarize(ctx context.Context, scope ReportScope, spec PeriodSpec) (*AttendanceSummary, error) {
	from, to, err := spec.Bounds()
	if err != nil {
		return nil, err
	}

	records, err := a.store.RecordsInRange(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	if spec.Kind == PeriodDay {
		return a.summarizeDay(records), nil
	}
	return a.summarizeRange(spec.Kind, records), nil
}

func (a *AttendanceAggregator) summarizeDay(records []models.AttendanceRecord) *AttendanceSummary {
	summary := &AttendanceSummary{Kind: PeriodDay, DayStatus: DayNoRecord}
	if len(records) == 0 {
		return summary
	}
	switch status := dayStatus(records); status {
	case models.AttendancePresent:
		summary.DayStatus = DayPresent
	case models.AttendanceAbsent:
		summary.DayStatus = DayAbsent
	default:
		summary.DayStatus = status
	}
	return summary
}

func (a *AttendanceAggregator) summarizeRange(kind PeriodKind, records []models.AttendanceRecord) *AttendanceSummary {
	byDate := make(map[string][]models.AttendanceRecord)
	for _, rec := range records {
		key := DateOf(rec.Date).Format("2006-01-02")
		byDate[key] = append(byDate[key], rec)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	summary := &AttendanceSummary{Kind: kind, TotalDays: len(dates)}
	for _, d := range dates {
		status := dayStatus(byDate[d])
		entry := HistoryEntry{Date: d}
		switch status {
		case models.AttendancePresent:
			summary.DaysPresent++
			entry.Status = DayPresent
		case models.AttendanceAbsent:
			summary.DaysAbsent++
			entry.Status = DayAbsent
		default:
			// Statuses outside the base set count the day without taking a
			// side in the present/absent split.
			entry.Status = status
		}
		summary.DetailedHistory = append(summary.DetailedHistory, entry)
	}

	if summary.TotalDays > 0 {
		summary.OverallPercentage = float64(summary.DaysPresent) / float64(summary.TotalDays) * 100
	}
	return summary
}

// dayStatus collapses a date's records to one status. For a student scope
// there is one record per day; for wider scopes a day counts present when
// every record is present and absent when every record is absent.
func dayStatus(records []models.AttendanceRecord) string {
	if len(records) == 0 {
		return ""
	}
	first := records[0].Status
	for _, rec := range records[1:] {
		if rec.Status != first {
			return "Mixed"
		}
	}
	return first
}
