package services

import (
	"math"
	"time"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
)

// Pure aggregation functions over rows fetched through TaskRepository.
// Bucketing happens here rather than in SQL so the results are identical
// across stores and directly unit-testable.

const dateLayout = "2006-01-02"

// StatusCounts holds per-status task counts. Total is the sum of the three
// recognized buckets.
type StatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
}

// DateCount is one day of a gap-filled time series.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// HourCount is one hour-of-day bucket.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// HourlyProductivity is the completed-task distribution across hours 0-23.
type HourlyProductivity struct {
	HourlyData         []HourCount `json:"hourlyData"`
	MostProductiveHour HourCount   `json:"mostProductiveHour"`
}

// DayOfWeekCount is one day-of-week bucket (1=Sunday .. 7=Saturday).
type DayOfWeekCount struct {
	DayOfWeek int    `json:"dayOfWeek"`
	DayName   string `json:"dayName"`
	Count     int    `json:"count"`
}

// WeekdayProductivity is the completed-task distribution across weekdays.
type WeekdayProductivity struct {
	DailyData         []DayOfWeekCount `json:"dailyData"`
	MostProductiveDay DayOfWeekCount   `json:"mostProductiveDay"`
}

// TurnoverRates summarizes completion throughput for the current week.
type TurnoverRates struct {
	AverageCompletionTimeHours float64 `json:"averageCompletionTimeHours"`
	CompletedTaskCount         int64   `json:"completedTaskCount"`
	WeeklyCompletionRate       float64 `json:"weeklyCompletionRate"`
	TasksCompletedThisWeek     int64   `json:"tasksCompletedThisWeek"`
	TasksCreatedThisWeek       int64   `json:"tasksCreatedThisWeek"`
}

// CompletionTimeSummary reports completion durations in milliseconds.
type CompletionTimeSummary struct {
	AverageTime float64 `json:"averageTime"`
	FastestTime int64   `json:"fastestTime"`
	SlowestTime int64   `json:"slowestTime"`
	TotalTasks  int64   `json:"totalTasks"`
}

// DistributionBucket is one completion-duration bucket.
type DistributionBucket struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// NewStatusCounts shapes a status->count map into StatusCounts. Unrecognized
// statuses are ignored; Total is defined as the sum of the three buckets.
func NewStatusCounts(counts map[models.TaskStatus]int64) StatusCounts {
	sc := StatusCounts{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	sc.Total = sc.Pending + sc.InProgress + sc.Completed
	return sc
}

// CompletionRate returns completed/total as a percentage rounded to two
// decimal places, 0 when there are no tasks.
func CompletionRate(counts StatusCounts) float64 {
	if counts.Total == 0 {
		return 0
	}
	return roundTwo(float64(counts.Completed) / float64(counts.Total) * 100)
}

// BucketByDate groups instants into calendar days and gap-fills every day in
// [start, end] inclusive, ascending. Callers can plot the result directly.
func BucketByDate(times []time.Time, start, end time.Time) []DateCount {
	byDay := make(map[string]int)
	for _, t := range times {
		byDay[t.Local().Format(dateLayout)]++
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	series := []DateCount{}
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		series = append(series, DateCount{Date: key, Count: byDay[key]})
	}
	return series
}

// ProductivityByHour groups completion instants by hour of day across all
// history. Ties break toward the earliest hour; with no data the most
// productive hour is {0, 0}.
func ProductivityByHour(completions []time.Time) HourlyProductivity {
	var buckets [24]int
	for _, t := range completions {
		buckets[t.Local().Hour()]++
	}

	hourly := make([]HourCount, 24)
	best := HourCount{Hour: 0, Count: 0}
	for h := 0; h < 24; h++ {
		hourly[h] = HourCount{Hour: h, Count: buckets[h]}
		if buckets[h] > best.Count {
			best = hourly[h]
		}
	}

	return HourlyProductivity{HourlyData: hourly, MostProductiveHour: best}
}

// ProductivityByDayOfWeek groups completion instants by weekday, 1=Sunday,
// gap-filled for all seven days with the same ascending tie-break.
func ProductivityByDayOfWeek(completions []time.Time) WeekdayProductivity {
	var buckets [7]int
	for _, t := range completions {
		buckets[int(t.Local().Weekday())]++
	}

	daily := make([]DayOfWeekCount, 7)
	best := DayOfWeekCount{DayOfWeek: 1, DayName: dayNames[0], Count: 0}
	for d := 0; d < 7; d++ {
		daily[d] = DayOfWeekCount{DayOfWeek: d + 1, DayName: dayNames[d], Count: buckets[d]}
		if buckets[d] > best.Count {
			best = daily[d]
		}
	}

	return WeekdayProductivity{DailyData: daily, MostProductiveDay: best}
}

// NewTurnoverRates computes the average completion duration in hours over
// all completed tasks plus the current-week completion/creation ratio.
func NewTurnoverRates(spans []repository.CompletionSpan, completedThisWeek, createdThisWeek int64) TurnoverRates {
	rates := TurnoverRates{
		CompletedTaskCount:     int64(len(spans)),
		TasksCompletedThisWeek: completedThisWeek,
		TasksCreatedThisWeek:   createdThisWeek,
	}

	if len(spans) > 0 {
		var totalHours float64
		for _, s := range spans {
			totalHours += s.CompletedAt.Sub(s.CreatedAt).Hours()
		}
		rates.AverageCompletionTimeHours = roundTwo(totalHours / float64(len(spans)))
	}

	if createdThisWeek > 0 {
		rates.WeeklyCompletionRate = roundTwo(float64(completedThisWeek) / float64(createdThisWeek) * 100)
	}

	return rates
}

// NewCompletionTimeSummary reports average, fastest and slowest completion
// durations in milliseconds. All fields are zero with no completed tasks.
func NewCompletionTimeSummary(spans []repository.CompletionSpan) CompletionTimeSummary {
	summary := CompletionTimeSummary{TotalTasks: int64(len(spans))}
	if len(spans) == 0 {
		return summary
	}

	var total int64
	fastest := int64(math.MaxInt64)
	slowest := int64(0)
	for _, s := range spans {
		ms := s.CompletedAt.Sub(s.CreatedAt).Milliseconds()
		total += ms
		if ms < fastest {
			fastest = ms
		}
		if ms > slowest {
			slowest = ms
		}
	}

	summary.AverageTime = roundTwo(float64(total) / float64(len(spans)))
	summary.FastestTime = fastest
	summary.SlowestTime = slowest
	return summary
}

// CompletionTimeDistribution sorts completion durations into three fixed
// half-open buckets: [0,1h), [1h,24h), [24h,inf).
func CompletionTimeDistribution(spans []repository.CompletionSpan) []DistributionBucket {
	buckets := []DistributionBucket{
		{Category: "fast", Label: "< 1 hour", Count: 0},
		{Category: "medium", Label: "1-24 hours", Count: 0},
		{Category: "slow", Label: "> 24 hours", Count: 0},
	}

	for _, s := range spans {
		d := s.CompletedAt.Sub(s.CreatedAt)
		switch {
		case d < time.Hour:
			buckets[0].Count++
		case d < 24*time.Hour:
			buckets[1].Count++
		default:
			buckets[2].Count++
		}
	}

	return buckets
}

// StartOfWeek returns Sunday 00:00:00 of the week containing t, local time.
func StartOfWeek(t time.Time) time.Time {
	t = t.Local()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth returns the first day of the month containing t, local time.
func StartOfMonth(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
