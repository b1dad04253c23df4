package rollup

import (
	"math"
	"time"
)

// Sample is one rank observation feeding the rollup. A nil BSR means the
// scrape saw no rank that day; such samples count toward neither the sum nor
// the divisor.
type Sample struct {
	Date time.Time
	BSR  *int
}

// Stat is one computed rollup: trailing means for the 7, 30 and 90 day
// windows ending on Date. A nil average means the window held no usable
// samples.
type Stat struct {
	ProductID int64     `json:"product_id"`
	Date      time.Time `json:"date"`
	AvgBSR7   *int      `json:"avg_bsr_7"`
	AvgBSR30  *int      `json:"avg_bsr_30"`
	AvgBSR90  *int      `json:"avg_bsr_90"`
}

// truncateDay floors a timestamp to its UTC calendar day.
func truncateDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// windowMean averages the non-nil samples whose day falls inside
// [end-(span-1), end]. Both bounds are inclusive calendar days.
func windowMean(samples []Sample, end time.Time, span int) *int {
	start := end.AddDate(0, 0, -(span - 1))
	sum := 0
	count := 0
	for _, sample := range samples {
		if sample.BSR == nil {
			continue
		}
		day := truncateDay(sample.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		sum += *sample.BSR
		count++
	}
	if count == 0 {
		return nil
	}
	mean := int(math.Round(float64(sum) / float64(count)))
	return &mean
}

// compute derives the three trailing means for one product and day.
func compute(productID int64, date time.Time, samples []Sample) Stat {
	day := truncateDay(date)
	stat := Stat{ProductID: productID, Date: day}
	stat.AvgBSR7 = windowMean(samples, day, 7)
	stat.AvgBSR30 = windowMean(samples, day, 30)
	stat.AvgBSR90 = windowMean(samples, day, 90)
	return stat
}
