package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"devnest/internal/models"
	"devnest/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	reportedPostsLimit = 20
	directoryLimit     = 200
)

// DashboardService aggregates the admin dashboard: total counts, reported
// posts, an account directory, dense per-day series for registrations and
// posts over a trailing window, and derived heuristics.
type DashboardService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	notifRepo   repository.NotificationRepository

	windowDays int
	now        func() time.Time
}

// NewDashboardService builds a DashboardService. A non-positive window is a
// programming error and is rejected here.
func NewDashboardService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	notifRepo repository.NotificationRepository,
	windowDays int,
) (*DashboardService, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("dashboard window must be positive, got %d days", windowDays)
	}
	return &DashboardService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		notifRepo:   notifRepo,
		windowDays:  windowDays,
		now:         time.Now,
	}, nil
}

// Build assembles a complete dashboard snapshot. The underlying queries are
// independent reads and run concurrently; any failure aborts the whole build.
// Partial dashboards are never returned.
func (s *DashboardService) Build(ctx context.Context) (*models.DashboardSnapshot, error) {
	start := windowStart(s.now(), s.windowDays)

	var snap models.DashboardSnapshot
	var rawUsersByDay, rawPostsByDay []models.DayCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Users, err = s.userRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Posts, err = s.postRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Comments, err = s.commentRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Notifications, err = s.notifRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.ReportedPosts, err = s.postRepo.ListReported(gctx, reportedPostsLimit)
		return err
	})
	g.Go(func() error {
		var err error
		snap.UserList, err = s.userRepo.Directory(gctx, directoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		rawUsersByDay, err = s.userRepo.CountCreatedByDay(gctx, start)
		return err
	})
	g.Go(func() error {
		var err error
		rawPostsByDay, err = s.postRepo.CountCreatedByDay(gctx, start)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snap.ReportedPosts == nil {
		snap.ReportedPosts = []*models.Post{}
	}
	if snap.UserList == nil {
		snap.UserList = []models.UserDirectoryEntry{}
	}

	snap.UsersByDay = denseSeries(rawUsersByDay, start, s.windowDays)
	snap.PostsByDay = denseSeries(rawPostsByDay, start, s.windowDays)
	snap.Analysis = models.DashboardAnalysis{
		AvgPostsPerUser: avgPostsPerUser(snap.Posts, snap.Users),
		PeakUserDay:     peakDay(snap.UsersByDay),
		PeakPostDay:     peakDay(snap.PostsByDay),
	}

	return &snap, nil
}

// windowStart returns 00:00 UTC of the first day of a trailing window of days
// calendar days ending on now's UTC date.
func windowStart(now time.Time, days int) time.Time {
	utc := now.UTC()
	today := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -(days - 1))
}

// denseSeries expands sparse per-day aggregation output into a gap-free series
// covering every calendar day of the window, in ascending date order. Days
// absent from raw contribute a zero count. Consumers rely on the fixed length;
// sparse output must never escape this function.
func denseSeries(raw []models.DayCount, start time.Time, days int) []models.DayCount {
	byDay := make(map[string]int64, len(raw))
	for _, dc := range raw {
		byDay[dc.Date] = dc.Count
	}

	series := make([]models.DayCount, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, models.DayCount{Date: date, Count: byDay[date]})
	}
	return series
}

// peakDay returns the entry with the highest count. Ties keep the earliest
// entry: only a strictly greater count replaces the running maximum.
func peakDay(series []models.DayCount) models.DayCount {
	if len(series) == 0 {
		return models.DayCount{}
	}
	peak := series[0]
	for _, dc := range series[1:] {
		if dc.Count > peak.Count {
			peak = dc
		}
	}
	return peak
}

// avgPostsPerUser is total posts per account, rounded to two decimals, zero
// when there are no accounts.
func avgPostsPerUser(posts, users int64) float64 {
	if users == 0 {
		return 0
	}
	return math.Round(float64(posts)/float64(users)*100) / 100
}
