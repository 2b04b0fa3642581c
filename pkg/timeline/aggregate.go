package timeline

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// bucket is a half-open interval [start, end) of the series.
type bucket struct {
	label  string
	start  time.Time
	end    time.Time
	future bool
}

// Aggregate builds the cumulative series of records for window as of now.
// Records need not be sorted. Bucket boundaries follow the calendar of
// now's location.
func Aggregate(window Window, records []Record, now time.Time) ([]Point, error) {
	switch window {
	case WindowQuarter:
		return Quarterly(records, now), nil
	case WindowYear:
		return TrailingMonths(records, now), nil
	case WindowFiveYears:
		return TrailingYears(records, now), nil
	case WindowAllTime:
		return AllTime(records, now), nil
	default:
		_, err := ParseWindow(string(window))
		return nil, err
	}
}

// Quarterly buckets the current calendar year into Q1 to Q4. Quarters after
// the current one are reported as absent. The series starts with an origin
// point.
func Quarterly(records []Record, now time.Time) []Point {
	loc := now.Location()
	current := quarterOf(now)

	buckets := make([]bucket, 0, 4)
	for q := 1; q <= 4; q++ {
		start := time.Date(now.Year(), time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, loc)
		buckets = append(buckets, bucket{
			label:  "Q" + strconv.Itoa(q),
			start:  start,
			end:    start.AddDate(0, 3, 0),
			future: q > current,
		})
	}

	return append([]Point{origin()}, fold(records, buckets)...)
}

// TrailingMonths buckets the 12 calendar months ending with the current month,
// oldest first. Donations before the first month do not contribute.
func TrailingMonths(records []Record, now time.Time) []Point {
	first := time.Date(now.Year(), now.Month()-11, 1, 0, 0, 0, 0, now.Location())

	buckets := make([]bucket, 0, 12)
	for i := 0; i < 12; i++ {
		start := first.AddDate(0, i, 0)
		buckets = append(buckets, bucket{
			label: start.Format("Jan 2006"),
			start: start,
			end:   start.AddDate(0, 1, 0),
		})
	}

	return fold(records, buckets)
}

// TrailingYears buckets the 5 calendar years ending with the current year.
// A year without donations repeats the previous cumulative value.
func TrailingYears(records []Record, now time.Time) []Point {
	return fold(records, yearBuckets(now.Year()-4, now))
}

// AllTime buckets every calendar year from the first donation to the current
// year. The series starts with an origin point; without records it is empty.
func AllTime(records []Record, now time.Time) []Point {
	sorted := sortRecords(records)
	if len(sorted) == 0 {
		return []Point{}
	}

	firstYear := sorted[0].DonatedAt.In(now.Location()).Year()
	if firstYear > now.Year() {
		firstYear = now.Year()
	}

	return append([]Point{origin()}, foldSorted(sorted, yearBuckets(firstYear, now))...)
}

func yearBuckets(from int, now time.Time) []bucket {
	loc := now.Location()
	buckets := make([]bucket, 0, now.Year()-from+1)
	for y := from; y <= now.Year(); y++ {
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		buckets = append(buckets, bucket{
			label: strconv.Itoa(y),
			start: start,
			end:   start.AddDate(1, 0, 0),
		})
	}
	return buckets
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// fold sorts records and folds them into buckets.
func fold(records []Record, buckets []bucket) []Point {
	return foldSorted(sortRecords(records), buckets)
}

// foldSorted walks records once, adding each record that falls inside a bucket
// to the running totals and emitting the totals at the end of every bucket.
// Records outside all buckets are skipped.
func foldSorted(sorted []Record, buckets []bucket) []Point {
	points := make([]Point, 0, len(buckets))
	var running totals

	i := 0
	for _, b := range buckets {
		if b.future {
			points = append(points, absent(b.label))
			continue
		}

		for i < len(sorted) && sorted[i].DonatedAt.Before(b.start) {
			i++
		}
		for i < len(sorted) && sorted[i].DonatedAt.Before(b.end) {
			running.add(sorted[i])
			i++
		}

		points = append(points, running.point(b.label))
	}

	return points
}

// sortRecords returns a copy of records ordered by donation date, without
// records that carry no date.
func sortRecords(records []Record) []Record {
	sorted := make([]Record, 0, len(records))
	for _, r := range records {
		if r.DonatedAt.IsZero() {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DonatedAt.Before(sorted[j].DonatedAt)
	})
	return sorted
}

// Label returns a readable description of window, e.g. for email summaries.
func Label(window Window, now time.Time) string {
	switch window {
	case WindowQuarter:
		return fmt.Sprintf("%d by quarter", now.Year())
	case WindowYear:
		return "the last 12 months"
	case WindowFiveYears:
		return fmt.Sprintf("%d to %d", now.Year()-4, now.Year())
	default:
		return "all time"
	}
}
