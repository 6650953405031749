package stats

import (
	"fmt"
	"io"
	"time"
)

// Render writes the statistics report as Markdown.
func Render(w io.Writer, s *Stats, now time.Time) error {
	m := s.Derive(now)

	fmt.Fprintf(w, "# Vault Statistics\n\n")
	fmt.Fprintf(w, "Generated on: %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "## Overview\n")
	fmt.Fprintf(w, "- Total Notes: %d\n", s.TotalNotes)
	fmt.Fprintf(w, "- Active Projects: %d\n", s.ActiveProjects)
	fmt.Fprintf(w, "- Daily Logs: %d\n", s.DailyLogs)
	fmt.Fprintf(w, "- Archived Items: %d\n\n", s.ArchivedItems)

	fmt.Fprintf(w, "## Activity Metrics\n")
	fmt.Fprintf(w, "- Current Streak: %d days\n", m.CurrentStreak)
	fmt.Fprintf(w, "- Activity Ratio: %.2f%%\n", m.ActivityRatio*100)
	fmt.Fprintf(w, "- Connection Density: %.2f links per note\n\n", m.ConnectionDensity)

	fmt.Fprintf(w, "## Popular Tags\n")
	for _, tc := range s.TopTags(10) {
		fmt.Fprintf(w, "- #%s (%d uses)\n", tc.Tag, tc.Count)
	}

	if s.FileCount > 0 {
		avg := float64(s.TotalBytes) / float64(s.FileCount)
		fmt.Fprintf(w, "\n## File Statistics\n")
		fmt.Fprintf(w, "- Average File Size: %.1f KB\n", avg/1024)
		fmt.Fprintf(w, "- Total Files: %d\n", s.FileCount)
	}

	if len(s.ActivityByDay) > 0 {
		fmt.Fprintf(w, "\n## Recent Activity\n")
		fmt.Fprintf(w, "Last 7 days of activity:\n")
		for i := range 7 {
			day := now.AddDate(0, 0, -i)
			count := s.ActivityByDay[day.Format(dayFormat)]
			unit := "files"
			if count == 1 {
				unit = "file"
			}
			fmt.Fprintf(w, "- %s: %d %s modified\n", day.Format(dayFormat), count, unit)
		}
	}

	fmt.Fprintf(w, "\n## Recommendations\n")
	for i, rec := range s.Recommendations(m) {
		fmt.Fprintf(w, "%d. %s\n", i+1, rec)
	}
	return nil
}
