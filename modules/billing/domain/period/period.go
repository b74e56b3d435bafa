package period

import (
	"encoding/json"
	"fmt"
	"time"
)

type Kind string

const (
	KindMonth   Kind = "month"
	KindQuarter Kind = "quarter"
	KindYear    Kind = "year"
	KindCustom  Kind = "custom"
)

// ReportPeriod is the closed time range a billing report covers. Start is
// the first instant of its day, End the last representable instant of its
// day, so Contains is inclusive on both edges.
type ReportPeriod struct {
	kind  Kind
	start time.Time
	end   time.Time
}

func Month(year int, month time.Month) ReportPeriod {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return ReportPeriod{
		kind:  KindMonth,
		start: start,
		end:   endOfDay(start.AddDate(0, 1, -1)),
	}
}

func Quarter(year, quarter int) (ReportPeriod, error) {
	if quarter < 1 || quarter > 4 {
		return ReportPeriod{}, newValidationError("quarter", fmt.Sprintf("must be 1..4, got %d", quarter))
	}
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return ReportPeriod{
		kind:  KindQuarter,
		start: start,
		end:   endOfDay(start.AddDate(0, 3, -1)),
	}, nil
}

func Year(year int) ReportPeriod {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return ReportPeriod{
		kind:  KindYear,
		start: start,
		end:   endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
}

func Custom(start, end time.Time) (ReportPeriod, error) {
	start = startOfDay(start.UTC())
	end = endOfDay(end.UTC())
	if end.Before(start) {
		return ReportPeriod{}, newValidationError("end", fmt.Sprintf("%s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02")))
	}
	return ReportPeriod{kind: KindCustom, start: start, end: end}, nil
}

func (p ReportPeriod) Kind() Kind       { return p.kind }
func (p ReportPeriod) Start() time.Time { return p.start }
func (p ReportPeriod) End() time.Time   { return p.end }

func (p ReportPeriod) IsZero() bool { return p.kind == "" }

func (p ReportPeriod) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.start) && !t.After(p.end)
}

// Label renders the period for report headers, e.g. "2026-03", "Q1 2026",
// "2026", or "2026-01-15 to 2026-02-20".
func (p ReportPeriod) Label() string {
	switch p.kind {
	case KindMonth:
		return p.start.Format("2006-01")
	case KindQuarter:
		return fmt.Sprintf("Q%d %d", int(p.start.Month()-1)/3+1, p.start.Year())
	case KindYear:
		return p.start.Format("2006")
	default:
		return fmt.Sprintf("%s to %s", p.start.Format("2006-01-02"), p.end.Format("2006-01-02"))
	}
}

type periodJSON struct {
	Kind  Kind      `json:"kind"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p ReportPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodJSON{Kind: p.kind, Start: p.start, End: p.end})
}

func (p *ReportPeriod) UnmarshalJSON(data []byte) error {
	var raw periodJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.End.Before(raw.Start) {
		return newValidationError("end", "precedes start")
	}
	p.kind = raw.Kind
	if p.kind == "" {
		p.kind = KindCustom
	}
	p.start = raw.Start.UTC()
	p.end = raw.End.UTC()
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
