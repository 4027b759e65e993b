package tasks

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Schedule yields run times from an RFC 5545 recurrence rule such as
// "FREQ=MINUTELY;INTERVAL=5"
type Schedule struct {
	rule *rrule.RRule
}

// ParseSchedule parses rule with start as the first occurrence
func ParseSchedule(rule string, start time.Time) (*Schedule, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", rule, err)
	}
	r.DTStart(start)
	return &Schedule{rule: r}, nil
}

// Next returns the first occurrence strictly after t, or the zero time once the rule is exhausted
func (s *Schedule) Next(t time.Time) time.Time {
	return s.rule.After(t, false)
}
