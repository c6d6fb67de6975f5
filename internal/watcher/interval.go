package watcher

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is the wait between two cycles, in minutes. Only the values
// returned by Intervals are valid.
type Interval int

const (
	Interval5   Interval = 5
	Interval30  Interval = 30
	Interval60  Interval = 60
	Interval120 Interval = 120
)

const DefaultInterval = Interval5

// Intervals lists the selectable intervals in display order.
func Intervals() []Interval {
	return []Interval{Interval5, Interval30, Interval60, Interval120}
}

// IntervalLabels returns the labels shown in the interval selector.
func IntervalLabels() []string {
	all := Intervals()
	labels := make([]string, len(all))
	for i, iv := range all {
		labels[i] = iv.String()
	}
	return labels
}

func (i Interval) Valid() bool {
	for _, iv := range Intervals() {
		if i == iv {
			return true
		}
	}
	return false
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i) * time.Minute
}

func (i Interval) String() string {
	return fmt.Sprintf("%d min", int(i))
}

// ParseInterval accepts a label ("30 min") or a bare number of minutes ("30").
func ParseInterval(s string) (Interval, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "min"))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	iv := Interval(n)
	if !iv.Valid() {
		return 0, fmt.Errorf("unsupported interval %q, choose one of %s", s, strings.Join(IntervalLabels(), ", "))
	}
	return iv, nil
}
