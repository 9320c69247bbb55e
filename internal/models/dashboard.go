package models

// DayCount is one bucket of a daily time series: a UTC calendar date
// (YYYY-MM-DD) and the number of events on that day.
type DayCount struct {
	Date  string `gorm:"column:day" json:"date"`
	Count int64  `gorm:"column:count" json:"count"`
}

// DashboardAnalysis holds the derived heuristics computed from the dashboard's
// dense daily series.
type DashboardAnalysis struct {
	AvgPostsPerUser float64  `json:"avg_posts_per_user"`
	PeakUserDay     DayCount `json:"peak_user_day"`
	PeakPostDay     DayCount `json:"peak_post_day"`
}

// DashboardSnapshot is the full admin dashboard payload. It is built
// atomically: a snapshot is either complete or the build fails.
type DashboardSnapshot struct {
	Users         int64                `json:"users"`
	Posts         int64                `json:"posts"`
	Comments      int64                `json:"comments"`
	Notifications int64                `json:"notifications"`
	ReportedPosts []*Post              `json:"reported_posts"`
	UserList      []UserDirectoryEntry `json:"user_list"`
	UsersByDay    []DayCount           `json:"users_by_day"`
	PostsByDay    []DayCount           `json:"posts_by_day"`
	Analysis      DashboardAnalysis    `json:"analysis"`
}
