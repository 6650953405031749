// Package stats computes vault-wide usage statistics and health metrics:
// note and tag counts, link density, modification activity, and rule-based
// recommendations.
package stats

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cognetkb/cognet/pkg/note"
)

// dayFormat keys activity maps by civil date.
const dayFormat = "2006-01-02"

// Options locates the vault areas that classify notes.
type Options struct {
	Root        string
	DailyDir    string
	ProjectsDir string
	ArchiveDir  string
}

// Stats is the raw tally over one vault scan.
type Stats struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalNotes     int `json:"total_notes"`
	ActiveProjects int `json:"active_projects"`
	DailyLogs      int `json:"daily_logs"`
	ArchivedItems  int `json:"archived_items"`

	TotalLinks int            `json:"total_links"`
	TagCounts  map[string]int `json:"tag_counts"`

	FileCount  int   `json:"file_count"`
	TotalBytes int64 `json:"total_bytes"`

	// ActivityByDay counts files last modified on each civil date.
	ActivityByDay map[string]int `json:"activity_by_day"`
}

// Metrics are derived health numbers.
type Metrics struct {
	// ActivityRatio is the share of days with at least one modification
	// over the span between the oldest and newest modification.
	ActivityRatio float64 `json:"activity_ratio"`

	// CurrentStreak counts consecutive days ending today with activity.
	CurrentStreak int `json:"current_streak"`

	// ConnectionDensity is outbound links per note.
	ConnectionDensity float64 `json:"connection_density"`
}

// Collect tallies statistics for the given notes. File sizes and
// modification times are read from disk relative to opts.Root; notes whose
// files have vanished since the scan are skipped from the file tallies.
func Collect(notes []*note.Note, opts Options, now time.Time) *Stats {
	s := &Stats{
		GeneratedAt:   now,
		TagCounts:     make(map[string]int),
		ActivityByDay: make(map[string]int),
	}

	projects := make(map[string]bool)
	for _, n := range notes {
		dir := topDir(n.Path)
		switch {
		case n.Archived || (opts.ArchiveDir != "" && dir == opts.ArchiveDir):
			s.ArchivedItems++
		case opts.DailyDir != "" && dir == opts.DailyDir:
			s.DailyLogs++
		default:
			s.TotalNotes++
		}
		if opts.ProjectsDir != "" && dir == opts.ProjectsDir {
			if sub := secondDir(n.Path); sub != "" {
				projects[sub] = true
			}
		}

		for _, t := range n.Tags {
			s.TagCounts[t]++
		}
		s.TotalLinks += len(n.Links)

		if info, err := os.Stat(filepath.Join(opts.Root, n.Path)); err == nil {
			s.FileCount++
			s.TotalBytes += info.Size()
			s.ActivityByDay[info.ModTime().Format(dayFormat)]++
		}
	}
	s.ActiveProjects = len(projects)
	return s
}

// Derive computes health metrics from raw tallies.
func (s *Stats) Derive(now time.Time) Metrics {
	var m Metrics

	if len(s.ActivityByDay) > 0 {
		var minDay, maxDay time.Time
		for day := range s.ActivityByDay {
			t, err := time.Parse(dayFormat, day)
			if err != nil {
				continue
			}
			if minDay.IsZero() || t.Before(minDay) {
				minDay = t
			}
			if t.After(maxDay) {
				maxDay = t
			}
		}
		span := int(maxDay.Sub(minDay).Hours()/24) + 1
		if span > 0 {
			m.ActivityRatio = float64(len(s.ActivityByDay)) / float64(span)
		}

		day := now
		for s.ActivityByDay[day.Format(dayFormat)] > 0 {
			m.CurrentStreak++
			day = day.AddDate(0, 0, -1)
		}
	}

	if s.TotalNotes > 0 {
		m.ConnectionDensity = float64(s.TotalLinks) / float64(s.TotalNotes)
	}
	return m
}

// TopTags returns the n most used tags, most frequent first. Ties break
// alphabetically so output is stable.
func (s *Stats) TopTags(n int) []TagCount {
	out := make([]TagCount, 0, len(s.TagCounts))
	for tag, count := range s.TagCounts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// TagCount pairs a tag with its usage count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Recommendations returns rule-based suggestions: one about corpus health,
// one about activity, one about organization.
func (s *Stats) Recommendations(m Metrics) []string {
	var health string
	switch {
	case s.ArchivedItems > s.TotalNotes/2 && s.TotalNotes > 0:
		health = "Review archived items for potential restoration or deletion"
	case s.TotalNotes > 100 && len(s.TagCounts)*10 < s.TotalNotes*3:
		health = "Add more tags to improve note discoverability"
	default:
		health = "Corpus appears healthy, maintain current practices"
	}

	var activity string
	switch {
	case m.ActivityRatio < 0.3:
		activity = "Increase usage frequency to keep the knowledge base alive"
	case m.CurrentStreak < 3:
		activity = "Build a daily note-taking habit"
	default:
		activity = "Good activity level, focus on deepening note connections"
	}

	var organization string
	switch {
	case s.ActiveProjects > 10 && s.ArchivedItems*5 < s.ActiveProjects:
		organization = "Review and archive completed or inactive projects"
	case m.ConnectionDensity < 0.5:
		organization = "Create more connections between related notes"
	default:
		organization = "Organization is good, focus on content quality"
	}

	return []string{health, activity, organization}
}

// topDir returns the first path segment of a vault-relative path, or ""
// for notes at the vault root.
func topDir(path string) string {
	path = filepath.ToSlash(path)
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

// secondDir returns the second path segment, the project folder for notes
// under the projects directory.
func secondDir(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) >= 3 {
		return parts[1]
	}
	return ""
}
