package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidDate      = errors.New("invalid date")
)

// Named time ranges accepted by the overview endpoint.
const (
	TimeRange7Days     = "7days"
	TimeRange30Days    = "30days"
	TimeRangeThisMonth = "thisMonth"
)

// StatsService computes derived metrics over the task collection. All
// operations are read-only; independent sub-aggregations within a request
// run concurrently and the response is assembled once all complete.
type StatsService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(taskRepo repository.TaskRepository) *StatsService {
	return &StatsService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// OverviewStats is the top-level dashboard payload.
type OverviewStats struct {
	TimeRange             string                `json:"timeRange"`
	StatusCounts          StatusCounts          `json:"statusCounts"`
	CompletionRate        float64               `json:"completionRate"`
	TimeSeries            []DateCount           `json:"timeSeries"`
	Productivity          HourlyProductivity    `json:"productivity"`
	AverageCompletionTime CompletionTimeSummary `json:"averageCompletionTime"`
}

// CompletionTimeStats pairs the duration summary with its distribution.
type CompletionTimeStats struct {
	Average      CompletionTimeSummary `json:"average"`
	Distribution []DistributionBucket  `json:"distribution"`
}

// ProductivityStats groups the hour, weekday and turnover breakdowns.
type ProductivityStats struct {
	ByHour      HourlyProductivity  `json:"byHour"`
	ByDayOfWeek WeekdayProductivity `json:"byDayOfWeek"`
	Turnover    TurnoverRates       `json:"turnover"`
}

// DateRange is the resolved interval echoed back on time-series responses.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TimeSeriesStats carries gap-filled created and completed series.
type TimeSeriesStats struct {
	TimeRange DateRange `json:"timeRange"`
	Series    struct {
		Created   []DateCount `json:"created"`
		Completed []DateCount `json:"completed"`
	} `json:"series"`
}

// Overview assembles the aggregate dashboard for a named time range
// (default 7days). The sub-aggregations have no data dependency on one
// another, so they are fanned out and joined before composing the payload.
func (s *StatsService) Overview(ctx context.Context, timeRange string) (*OverviewStats, error) {
	now := s.now()
	start, err := s.resolveTimeRange(timeRange, now)
	if err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = TimeRange7Days
	}

	var (
		counts     StatusCounts
		rangeSpans []repository.CompletionSpan
		allSpans   []repository.CompletionSpan
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		byStatus, err := s.taskRepo.CountByStatus()
		if err != nil {
			return fmt.Errorf("failed to count tasks by status: %w", err)
		}
		counts = NewStatusCounts(byStatus)
		return nil
	})
	g.Go(func() error {
		spans, err := s.taskRepo.CompletionSpans(&start, &now)
		if err != nil {
			return fmt.Errorf("failed to fetch completions in range: %w", err)
		}
		rangeSpans = spans
		return nil
	})
	g.Go(func() error {
		spans, err := s.taskRepo.CompletionSpans(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch completion history: %w", err)
		}
		allSpans = spans
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OverviewStats{
		TimeRange:             timeRange,
		StatusCounts:          counts,
		CompletionRate:        CompletionRate(counts),
		TimeSeries:            BucketByDate(completionTimes(rangeSpans), start, now),
		Productivity:          ProductivityByHour(completionTimes(allSpans)),
		AverageCompletionTime: NewCompletionTimeSummary(allSpans),
	}, nil
}

// CompletionTime reports the completion-duration summary and distribution
// over all completed tasks.
func (s *StatsService) CompletionTime(ctx context.Context) (*CompletionTimeStats, error) {
	spans, err := s.taskRepo.CompletionSpans(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completion history: %w", err)
	}

	return &CompletionTimeStats{
		Average:      NewCompletionTimeSummary(spans),
		Distribution: CompletionTimeDistribution(spans),
	}, nil
}

// Productivity reports hour-of-day and day-of-week breakdowns plus weekly
// turnover rates.
func (s *StatsService) Productivity(ctx context.Context) (*ProductivityStats, error) {
	now := s.now()
	weekStart := StartOfWeek(now)

	var (
		spans             []repository.CompletionSpan
		completedThisWeek int64
		createdThisWeek   int64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		all, err := s.taskRepo.CompletionSpans(nil, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch completion history: %w", err)
		}
		spans = all
		return nil
	})
	g.Go(func() error {
		n, err := s.taskRepo.CountCompletedSince(weekStart)
		if err != nil {
			return fmt.Errorf("failed to count weekly completions: %w", err)
		}
		completedThisWeek = n
		return nil
	})
	g.Go(func() error {
		n, err := s.taskRepo.CountCreatedSince(weekStart)
		if err != nil {
			return fmt.Errorf("failed to count weekly creations: %w", err)
		}
		createdThisWeek = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	times := completionTimes(spans)
	return &ProductivityStats{
		ByHour:      ProductivityByHour(times),
		ByDayOfWeek: ProductivityByDayOfWeek(times),
		Turnover:    NewTurnoverRates(spans, completedThisWeek, createdThisWeek),
	}, nil
}

// TimeSeries reports gap-filled created and completed counts for an explicit
// inclusive date range.
func (s *StatsService) TimeSeries(ctx context.Context, dateFrom, dateTo string) (*TimeSeriesStats, error) {
	from, err := parseDate(dateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: dateFrom %q", ErrInvalidDate, dateFrom)
	}
	to, err := parseDate(dateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: dateTo %q", ErrInvalidDate, dateTo)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: dateTo precedes dateFrom", ErrInvalidDate)
	}

	// The inclusive range covers the whole of dateTo's calendar day.
	queryTo := to.AddDate(0, 0, 1).Add(-time.Nanosecond)

	var (
		created   []time.Time
		completed []repository.CompletionSpan
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		times, err := s.taskRepo.CreatedTimesBetween(from, queryTo)
		if err != nil {
			return fmt.Errorf("failed to fetch creations in range: %w", err)
		}
		created = times
		return nil
	})
	g.Go(func() error {
		spans, err := s.taskRepo.CompletionSpans(&from, &queryTo)
		if err != nil {
			return fmt.Errorf("failed to fetch completions in range: %w", err)
		}
		completed = spans
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &TimeSeriesStats{
		TimeRange: DateRange{From: from.Format(dateLayout), To: to.Format(dateLayout)},
	}
	result.Series.Created = BucketByDate(created, from, to)
	result.Series.Completed = BucketByDate(completionTimes(completed), from, to)
	return result, nil
}

// resolveTimeRange maps a named range onto its inclusive start instant.
func (s *StatsService) resolveTimeRange(timeRange string, now time.Time) (time.Time, error) {
	switch timeRange {
	case "", TimeRange7Days:
		return now.AddDate(0, 0, -7), nil
	case TimeRange30Days:
		return now.AddDate(0, 0, -30), nil
	case TimeRangeThisMonth:
		return StartOfMonth(now), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, timeRange)
	}
}

func completionTimes(spans []repository.CompletionSpan) []time.Time {
	times := make([]time.Time, len(spans))
	for i, s := range spans {
		times[i] = s.CompletedAt
	}
	return times
}

// parseDate accepts plain ISO dates and full RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
