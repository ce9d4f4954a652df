package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/headline-goat/goatchart/internal/dataset"
)

// Granularity is the time bucket size of an aggregated series.
type Granularity string

const (
	Day  Granularity = "day"
	Week Granularity = "week"
)

var ErrUnknownGranularity = errors.New("unknown granularity")

// ParseGranularity parses "day" or "week" (case-insensitive).
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case Day:
		return Day, nil
	case Week:
		return Week, nil
	}
	return "", fmt.Errorf("%w: %q (must be 'day' or 'week')", ErrUnknownGranularity, s)
}

// Point is one period on the timeline with a conversion rate per requested variation.
type Point struct {
	Date  string
	Rates map[string]float64
}

// Rate returns the rate for id and whether the point carries one.
func (p Point) Rate(id string) (float64, bool) {
	r, ok := p.Rates[id]
	return r, ok
}

// MarshalJSON flattens rates into "var_<id>" keys next to "date".
func (p Point) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Rates)+1)
	m["date"] = p.Date
	for id, r := range p.Rates {
		m[SeriesKey(id)] = r
	}
	return json.Marshal(m)
}

// SeriesKey is the field name a variation's rate is published under.
func SeriesKey(id string) string {
	return "var_" + id
}

// ConversionRate returns conversions/visits as a percentage, or 0 when there were no visits.
func ConversionRate(conversions, visits int) float64 {
	if visits == 0 {
		return 0
	}
	return float64(conversions) / float64(visits) * 100
}

// Aggregate converts daily records into one point per period for the selected variations.
func Aggregate(records []dataset.DailyRecord, ids []string, g Granularity) []Point {
	if g == Week {
		return Weekly(records, ids)
	}
	return Daily(records, ids)
}

// Daily emits one point per record in input order.
func Daily(records []dataset.DailyRecord, ids []string) []Point {
	return Points(DailyBuckets(records, ids), ids)
}

// Weekly sums counts per Monday-start week and computes rates from the sums.
// Output is sorted by period label.
func Weekly(records []dataset.DailyRecord, ids []string) []Point {
	return Points(WeeklyBuckets(records, ids), ids)
}

// Counts are the summed visits and conversions of one variation in one period.
type Counts struct {
	Visits      int
	Conversions int
}

// Rate is the conversion rate of c.
func (c Counts) Rate() float64 {
	return ConversionRate(c.Conversions, c.Visits)
}

// Bucket is one period with the raw counts behind its rates.
type Bucket struct {
	Date   string
	Counts map[string]Counts
}

// Buckets groups records into periods at granularity g, in the same order
// Aggregate emits points.
func Buckets(records []dataset.DailyRecord, ids []string, g Granularity) []Bucket {
	if g == Week {
		return WeeklyBuckets(records, ids)
	}
	return DailyBuckets(records, ids)
}

func DailyBuckets(records []dataset.DailyRecord, ids []string) []Bucket {
	buckets := make([]Bucket, len(records))
	for i, rec := range records {
		counts := make(map[string]Counts, len(ids))
		for _, id := range ids {
			counts[id] = Counts{Visits: rec.VisitsFor(id), Conversions: rec.ConversionsFor(id)}
		}
		buckets[i] = Bucket{Date: rec.Date, Counts: counts}
	}
	return buckets
}

func WeeklyBuckets(records []dataset.DailyRecord, ids []string) []Bucket {
	byWeek := make(map[string]map[string]Counts)

	for _, rec := range records {
		label := WeekStart(rec.Date)
		week, ok := byWeek[label]
		if !ok {
			week = make(map[string]Counts, len(ids))
			byWeek[label] = week
		}
		for _, id := range ids {
			c := week[id]
			c.Visits += rec.VisitsFor(id)
			c.Conversions += rec.ConversionsFor(id)
			week[id] = c
		}
	}

	buckets := make([]Bucket, 0, len(byWeek))
	for label, week := range byWeek {
		buckets = append(buckets, Bucket{Date: label, Counts: week})
	}

	// yyyy-MM-dd labels compare lexically in chronological order
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

// Points computes the rate of every id in every bucket. Ids absent from a
// bucket rate as zero.
func Points(buckets []Bucket, ids []string) []Point {
	points := make([]Point, len(buckets))
	for i, b := range buckets {
		rates := make(map[string]float64, len(ids))
		for _, id := range ids {
			rates[id] = b.Counts[id].Rate()
		}
		points[i] = Point{Date: b.Date, Rates: rates}
	}
	return points
}

// Sum adds up the counts of id across buckets.
func Sum(buckets []Bucket, id string) Counts {
	var total Counts
	for _, b := range buckets {
		c := b.Counts[id]
		total.Visits += c.Visits
		total.Conversions += c.Conversions
	}
	return total
}

// WeekStart returns the Monday on or before date, formatted yyyy-MM-dd.
// Unparseable dates are returned unchanged so they still form their own bucket.
func WeekStart(date string) string {
	t, err := dataset.ParseDate(date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(dataset.DateLayout)
}

// Labels returns the period labels of points in order.
func Labels(points []Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Date
	}
	return out
}

// LabelTime parses a point label back into a time, for axis rendering.
func LabelTime(label string) (time.Time, bool) {
	t, err := dataset.ParseDate(label)
	return t, err == nil
}
