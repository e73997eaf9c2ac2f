package service

import (
	"sort"
	"time"

	"artfolio/backend/common"
	"artfolio/backend/model"
)

// TrafficReport is the aggregate view behind the admin analytics
// screen.
type TrafficReport struct {
	Period        string           `json:"period"`
	TotalRequests int64            `json:"total_requests"`
	AvgDurationMs int64            `json:"avg_duration_ms"`
	StatusBuckets map[string]int64 `json:"status_buckets"`
	Daily         []DailyCount     `json:"daily"`
	TopPaths      []PathCount      `json:"top_paths"`
	Countries     map[string]int64 `json:"countries"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

const topPathLimit = 20

// periodCutoff maps a period keyword to the oldest unix timestamp to
// include. Unknown keywords mean no cutoff.
func periodCutoff(period string, now time.Time) int64 {
	switch period {
	case "24h":
		return now.Add(-24 * time.Hour).Unix()
	case "7d":
		return now.AddDate(0, 0, -7).Unix()
	case "30d":
		return now.AddDate(0, 0, -30).Unix()
	default:
		return 0
	}
}

// cleanPath drops a two-letter language prefix so /en/gallery and
// /zh/gallery aggregate as one page.
func cleanPath(path string) string {
	if len(path) >= 3 && path[0] == '/' &&
		isLowerAlpha(path[1]) && isLowerAlpha(path[2]) &&
		(len(path) == 3 || path[3] == '/') {
		rest := path[3:]
		if rest == "" {
			return "/"
		}
		return rest
	}
	return path
}

func isLowerAlpha(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// BuildTrafficReport aggregates the stored request logs for the given
// period, skipping traffic from the given user ids (staff accounts).
func BuildTrafficReport(period string, excludeUsers map[int64]bool) (*TrafficReport, error) {
	logs, err := model.AllRequestLogs()
	if err != nil {
		return nil, err
	}

	cutoff := periodCutoff(period, time.Now())
	report := &TrafficReport{
		Period:        period,
		StatusBuckets: map[string]int64{"2xx": 0, "3xx": 0, "4xx": 0, "5xx": 0},
		Countries:     map[string]int64{},
	}

	dailyCounts := map[string]int64{}
	pathCounts := map[string]int64{}
	var durationTotal int64

	for _, entry := range logs {
		if cutoff > 0 && entry.LoggedAt < cutoff {
			continue
		}
		if excludeUsers[entry.UserId] {
			continue
		}
		report.TotalRequests++
		durationTotal += entry.DurationMs

		switch {
		case entry.Status >= 200 && entry.Status < 300:
			report.StatusBuckets["2xx"]++
		case entry.Status >= 300 && entry.Status < 400:
			report.StatusBuckets["3xx"]++
		case entry.Status >= 400 && entry.Status < 500:
			report.StatusBuckets["4xx"]++
		case entry.Status >= 500:
			report.StatusBuckets["5xx"]++
		}

		day := time.Unix(entry.LoggedAt, 0).UTC().Format("2006-01-02")
		dailyCounts[day]++
		pathCounts[cleanPath(entry.Path)]++
		if entry.Country != "" {
			report.Countries[entry.Country]++
		}
	}

	if report.TotalRequests > 0 {
		report.AvgDurationMs = durationTotal / report.TotalRequests
	}

	days := make([]string, 0, len(dailyCounts))
	for day := range dailyCounts {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		report.Daily = append(report.Daily, DailyCount{Date: day, Count: dailyCounts[day]})
	}

	for path, count := range pathCounts {
		report.TopPaths = append(report.TopPaths, PathCount{Path: path, Count: count})
	}
	sort.Slice(report.TopPaths, func(i, j int) bool {
		if report.TopPaths[i].Count != report.TopPaths[j].Count {
			return report.TopPaths[i].Count > report.TopPaths[j].Count
		}
		return report.TopPaths[i].Path < report.TopPaths[j].Path
	})
	if len(report.TopPaths) > topPathLimit {
		report.TopPaths = report.TopPaths[:topPathLimit]
	}

	return report, nil
}

// StaffUserIds returns the ids of admin and root accounts, keyed for
// fast exclusion in traffic reports.
func StaffUserIds() map[int64]bool {
	var ids []int
	model.DB.Model(&model.User{}).Where("role >= ?", common.RoleAdminUser).Pluck("id", &ids)
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[int64(id)] = true
	}
	return out
}
