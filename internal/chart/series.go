// Package chart generates the date-stamped price/volume series shared by
// the home summary chart and the weekly/monthly market charts.
//
// The generator is deterministic within a calendar day: the pseudo-random
// offsets are derived from today's date and the point index, never from a
// random source, so repeated calls with the same inputs return identical
// series until the date rolls over.
package chart

import (
	"fmt"
	"math"
	"sort"
	"time"

	"soraifarm/internal/models"
)

const (
	// DefaultBasePrice and DefaultBaseVolume back charts that have no
	// live data at all.
	DefaultBasePrice  = 2500
	DefaultBaseVolume = 100

	// minVolume is the floor applied to every generated point.
	minVolume = 50
)

var shortDays = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

var shortMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

var longMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// DateRange returns days consecutive calendar days ending today inclusive,
// in ascending order. Each date is normalized to 12:00 local time so that
// timezone boundaries cannot shift a point onto a neighbouring day.
func DateRange(days int) []time.Time {
	return dateRangeFrom(time.Now(), days)
}

func dateRangeFrom(now time.Time, days int) []time.Time {
	today := noon(now)
	dates := make([]time.Time, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, today.AddDate(0, 0, -i))
	}
	return dates
}

func noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// FormatLabel renders a chart axis label, with the short day name included
// for fine-grained (weekly) series.
func FormatLabel(date time.Time, includeDayName bool) string {
	day := date.Day()
	month := shortMonths[int(date.Month())-1]
	if includeDayName {
		return fmt.Sprintf("%s %d %s", shortDays[int(date.Weekday())], day, month)
	}
	return fmt.Sprintf("%d %s", day, month)
}

// FormatFullDate renders the long display date, e.g. "28 Agustus 2026".
func FormatFullDate(date time.Time) string {
	return fmt.Sprintf("%d %s %d", date.Day(), longMonths[int(date.Month())-1], date.Year())
}

// Generate produces exactly days points for the days consecutive calendar
// dates ending today, with reproducible-per-day fluctuations and a mild
// upward drift. Day-name labels are used for spans of 7 days or fewer.
func Generate(days int, basePrice, baseVolume float64) []models.ChartPoint {
	return generateAt(time.Now(), days, basePrice, baseVolume)
}

func generateAt(now time.Time, days int, basePrice, baseVolume float64) []models.ChartPoint {
	dates := dateRangeFrom(now, days)
	points := make([]models.ChartPoint, 0, days)

	// Seed from today's date: stable within a day, shifts as days pass.
	seed := now.Day() + (int(now.Month())-1)*31

	for index, date := range dates {
		h := (seed + index) * 17
		priceOffset := float64(h%200 - 100)
		volumeOffset := float64(h%40 - 20)
		trend := float64(index) * 0.5

		price := math.Round(basePrice + priceOffset + trend)
		volume := math.Max(minVolume, math.Round(baseVolume+volumeOffset+trend*0.3))

		points = append(points, models.ChartPoint{
			Label:     FormatLabel(date, days <= 7),
			Price:     price,
			Volume:    volume,
			FullDate:  FormatFullDate(date),
			DateValue: date.UnixMilli(),
		})
	}
	return points
}

// FromAPIRows maps market API rows onto chart points. Rows carrying a
// YYYY-MM-DD date keep it (anchored at noon); rows without one fall back to
// the generated date for their index. Empty input degrades to a generated
// series. Output is sorted ascending by date.
func FromAPIRows(rows []models.MarketRecord, days int) []models.ChartPoint {
	if len(rows) == 0 {
		return Generate(days, DefaultBasePrice, DefaultBaseVolume)
	}

	dates := DateRange(days)
	points := make([]models.ChartPoint, 0, len(rows))

	for index, row := range rows {
		var date time.Time
		if parsed, err := time.ParseInLocation("2006-01-02", row.Date, time.Local); err == nil {
			date = noon(parsed)
		} else {
			di := index
			if di >= len(dates) {
				di = len(dates) - 1
			}
			date = dates[di]
		}

		price := row.AveragePrice
		if price == 0 {
			price = DefaultBasePrice
		}
		volume := row.SalesVolume
		if volume == 0 {
			volume = DefaultBaseVolume
		}

		points = append(points, models.ChartPoint{
			Label:     FormatLabel(date, days <= 7),
			Price:     price,
			Volume:    volume,
			FullDate:  FormatFullDate(date),
			DateValue: date.UnixMilli(),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].DateValue < points[j].DateValue
	})
	return points
}
