package stats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cognetkb/cognet/pkg/note"
)

var testOpts = Options{
	DailyDir:    "daily",
	ProjectsDir: "projects",
	ArchiveDir:  "archive",
}

func TestCollectClassifiesNotes(t *testing.T) {
	notes := []*note.Note{
		{ID: "a", Path: "notes/a.md", Tags: []string{"go", "reading"}},
		{ID: "b", Path: "notes/b.md", Tags: []string{"go"}, Links: []note.Link{{Target: "a"}}},
		{ID: "log", Path: "daily/2026-08-20.md"},
		{ID: "plan", Path: "projects/site-redesign/plan.md"},
		{ID: "notes2", Path: "projects/site-redesign/notes.md"},
		{ID: "old", Path: "archive/old.md"},
		{ID: "flagged", Path: "notes/flagged.md", Archived: true},
	}
	s := Collect(notes, testOpts, time.Now())

	if s.TotalNotes != 4 {
		t.Errorf("TotalNotes = %d, want 4", s.TotalNotes)
	}
	if s.DailyLogs != 1 {
		t.Errorf("DailyLogs = %d, want 1", s.DailyLogs)
	}
	if s.ArchivedItems != 2 {
		t.Errorf("ArchivedItems = %d, want 2", s.ArchivedItems)
	}
	if s.ActiveProjects != 1 {
		t.Errorf("ActiveProjects = %d, want 1", s.ActiveProjects)
	}
	if s.TagCounts["go"] != 2 || s.TagCounts["reading"] != 1 {
		t.Errorf("TagCounts = %v", s.TagCounts)
	}
	if s.TotalLinks != 1 {
		t.Errorf("TotalLinks = %d, want 1", s.TotalLinks)
	}
}

func TestCollectReadsFileInfo(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("hello world\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	notes := []*note.Note{
		{ID: "a", Path: "a.md"},
		{ID: "ghost", Path: "gone.md"}, // vanished since the scan
	}
	opts := testOpts
	opts.Root = root
	s := Collect(notes, opts, time.Now())

	if s.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", s.FileCount)
	}
	if s.TotalBytes != 12 {
		t.Errorf("TotalBytes = %d, want 12", s.TotalBytes)
	}
	today := time.Now().Format(dayFormat)
	if s.ActivityByDay[today] != 1 {
		t.Errorf("ActivityByDay[%s] = %d, want 1", today, s.ActivityByDay[today])
	}
}

func TestDeriveMetrics(t *testing.T) {
	now, _ := time.Parse(dayFormat, "2026-08-24")
	s := &Stats{
		TotalNotes: 4,
		TotalLinks: 6,
		ActivityByDay: map[string]int{
			"2026-08-24": 2,
			"2026-08-23": 1,
			"2026-08-20": 1, // gap on the 21st and 22nd
		},
	}
	m := s.Derive(now)

	if m.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", m.CurrentStreak)
	}
	// 3 active days over a 5-day span.
	if m.ActivityRatio != 0.6 {
		t.Errorf("ActivityRatio = %g, want 0.6", m.ActivityRatio)
	}
	if m.ConnectionDensity != 1.5 {
		t.Errorf("ConnectionDensity = %g, want 1.5", m.ConnectionDensity)
	}
}

func TestDeriveEmpty(t *testing.T) {
	s := &Stats{ActivityByDay: map[string]int{}}
	m := s.Derive(time.Now())
	if m.CurrentStreak != 0 || m.ActivityRatio != 0 || m.ConnectionDensity != 0 {
		t.Errorf("empty metrics = %+v, want zeros", m)
	}
}

func TestTopTags(t *testing.T) {
	s := &Stats{TagCounts: map[string]int{
		"go":      3,
		"reading": 3,
		"ideas":   1,
		"zettel":  5,
	}}
	got := s.TopTags(3)
	want := []TagCount{{"zettel", 5}, {"go", 3}, {"reading", 3}}
	if len(got) != len(want) {
		t.Fatalf("TopTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TopTags()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		stats   *Stats
		metrics Metrics
		want    []string
	}{
		{
			name:    "archive heavy",
			stats:   &Stats{TotalNotes: 10, ArchivedItems: 8, TagCounts: map[string]int{}},
			metrics: Metrics{ActivityRatio: 0.9, CurrentStreak: 5, ConnectionDensity: 2},
			want: []string{
				"Review archived items",
				"Good activity level",
				"Organization is good",
			},
		},
		{
			name:    "low activity and sparse links",
			stats:   &Stats{TotalNotes: 10, TagCounts: map[string]int{"a": 1}},
			metrics: Metrics{ActivityRatio: 0.1, ConnectionDensity: 0.2},
			want: []string{
				"Corpus appears healthy",
				"Increase usage frequency",
				"Create more connections",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stats.Recommendations(tt.metrics)
			if len(got) != 3 {
				t.Fatalf("Recommendations() returned %d entries", len(got))
			}
			for i, prefix := range tt.want {
				if !strings.HasPrefix(got[i], prefix) {
					t.Errorf("recommendation %d = %q, want prefix %q", i, got[i], prefix)
				}
			}
		})
	}
}

func TestRender(t *testing.T) {
	now, _ := time.Parse(dayFormat, "2026-08-24")
	s := &Stats{
		GeneratedAt:   now,
		TotalNotes:    2,
		TotalLinks:    3,
		TagCounts:     map[string]int{"go": 2},
		FileCount:     2,
		TotalBytes:    2048,
		ActivityByDay: map[string]int{"2026-08-24": 2},
	}
	var buf bytes.Buffer
	if err := Render(&buf, s, now); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Vault Statistics",
		"- Total Notes: 2",
		"- Connection Density: 1.50 links per note",
		"- #go (2 uses)",
		"- Average File Size: 1.0 KB",
		"- 2026-08-24: 2 files modified",
		"## Recommendations",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
