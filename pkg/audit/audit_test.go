package audit

import (
	"reflect"
	"testing"

	"github.com/cognetkb/cognet/pkg/corpus"
	"github.com/cognetkb/cognet/pkg/note"
)

func mk(id string, links []string, tags ...string) *note.Note {
	n := &note.Note{ID: id, Path: id + ".md", Tags: tags, HasFrontmatter: true}
	for _, l := range links {
		n.Links = append(n.Links, note.Link{Target: l, Raw: l})
	}
	return n
}

func findByKind(findings []Finding, kind Kind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func TestOrphanDetection(t *testing.T) {
	notes := []*note.Note{
		mk("a", []string{"b"}),
		mk("b", []string{"a"}),
		mk("c", nil), // no inbound, no outbound
	}
	cfg := DefaultConfig()
	cfg.EntryPointTypes = nil

	findings := Run(corpus.Build(notes), nil, cfg)
	orphans := findByKind(findings, KindOrphan)

	if len(orphans) != 1 || orphans[0].ID != "c" {
		t.Fatalf("orphans = %+v, want exactly one for c", orphans)
	}
}

func TestOrphanAllowList(t *testing.T) {
	notes := []*note.Note{
		mk("a", []string{"b"}),
		mk("b", nil),
		mk("c", nil),
	}
	cfg := DefaultConfig()
	cfg.EntryPointTypes = nil
	cfg.EntryPoints = []string{"c"}

	findings := Run(corpus.Build(notes), nil, cfg)
	if orphans := findByKind(findings, KindOrphan); len(orphans) != 0 {
		t.Errorf("orphans = %+v, want none with c allow-listed", orphans)
	}
}

func TestOrphanEntryPointType(t *testing.T) {
	daily := mk("2026-08-24", nil, "daily")
	daily.Type = "daily-log"
	findings := Run(corpus.Build([]*note.Note{daily}), nil, DefaultConfig())
	if orphans := findByKind(findings, KindOrphan); len(orphans) != 0 {
		t.Errorf("orphans = %+v, daily-log notes should be exempt", orphans)
	}
}

func TestBrokenLinkRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	// Target present: no broken-link finding.
	withTarget := corpus.Build([]*note.Note{
		mk("src", []string{"target"}),
		mk("target", []string{"src"}),
	})
	if broken := findByKind(Run(withTarget, nil, cfg), KindBrokenLink); len(broken) != 0 {
		t.Errorf("broken = %+v, want none while target exists", broken)
	}

	// Target removed: exactly one broken-link finding naming it.
	withoutTarget := corpus.Build([]*note.Note{
		mk("src", []string{"target"}),
	})
	broken := findByKind(Run(withoutTarget, nil, cfg), KindBrokenLink)
	if len(broken) != 1 {
		t.Fatalf("broken = %+v, want exactly one", broken)
	}
	if broken[0].ID != "src" || broken[0].Target != "target" {
		t.Errorf("broken link = %+v, want src -> target", broken[0])
	}
}

func TestUnusedTagThreshold(t *testing.T) {
	notes := []*note.Note{
		mk("n1", []string{"n2"}, "idea"),
		mk("n2", []string{"n3"}, "idea"),
		mk("n3", []string{"n1"}, "idea", "draft"),
	}
	cfg := DefaultConfig()
	cfg.UnusedTagThreshold = 1

	unused := findByKind(Run(corpus.Build(notes), nil, cfg), KindUnusedTag)
	if len(unused) != 1 || unused[0].Tag != "draft" {
		t.Fatalf("unused = %+v, want only draft flagged", unused)
	}
}

func TestDuplicateTagDetection(t *testing.T) {
	tests := []struct {
		name     string
		tags     [][]string
		wantPair [2]string
	}{
		{
			name:     "CaseVariants",
			tags:     [][]string{{"Golang"}, {"golang"}},
			wantPair: [2]string{"Golang", "golang"},
		},
		{
			name:     "SingularPlural",
			tags:     [][]string{{"idea"}, {"ideas"}},
			wantPair: [2]string{"idea", "ideas"},
		},
		{
			name:     "NearDuplicate",
			tags:     [][]string{{"productivity"}, {"productivty"}},
			wantPair: [2]string{"productivity", "productivty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := []*note.Note{
				mk("a", []string{"b"}, tt.tags[0]...),
				mk("b", []string{"a"}, tt.tags[1]...),
			}
			cfg := DefaultConfig()
			cfg.UnusedTagThreshold = 0 // quiet the unused-tag noise

			dups := findByKind(Run(corpus.Build(notes), nil, cfg), KindDuplicateTag)
			if len(dups) != 1 {
				t.Fatalf("duplicate tags = %+v, want exactly one pair", dups)
			}
			got := [2]string{dups[0].Tag, dups[0].Target}
			if got != tt.wantPair {
				t.Errorf("pair = %v, want %v", got, tt.wantPair)
			}
		})
	}
}

func TestUnrelatedTagsNotFlagged(t *testing.T) {
	notes := []*note.Note{
		mk("a", []string{"b"}, "cooking"),
		mk("b", []string{"a"}, "kubernetes"),
	}
	cfg := DefaultConfig()
	cfg.UnusedTagThreshold = 0

	if dups := findByKind(Run(corpus.Build(notes), nil, cfg), KindDuplicateTag); len(dups) != 0 {
		t.Errorf("duplicate tags = %+v, want none", dups)
	}
}

func TestDuplicateIdentifierPolicy(t *testing.T) {
	first := mk("note-a", nil)
	second := mk("note-a", nil)
	second.Path = "03-Projects/note-a.md"
	// Keep both linked so neither shows up as an orphan.
	other := mk("other", []string{"note-a"})
	first.Links = []note.Link{{Target: "other", Raw: "other"}}

	idx := corpus.Build([]*note.Note{first, second, other})
	findings := Run(idx, nil, DefaultConfig())

	dups := findByKind(findings, KindDuplicateID)
	if len(dups) != 1 || dups[0].ID != "note-a" {
		t.Fatalf("duplicate-identifier findings = %+v, want exactly one for note-a", dups)
	}
	if idx.NoteCount() != 2 {
		t.Errorf("NoteCount() = %d, want 2 (first-seen kept)", idx.NoteCount())
	}
}

func TestParseFailuresBecomeFindings(t *testing.T) {
	failures := []ParseFailure{{Path: "bad.md", Message: "bad delimiter"}}
	findings := Run(corpus.Build(nil), failures, DefaultConfig())

	parseErrs := findByKind(findings, KindParseError)
	if len(parseErrs) != 1 || parseErrs[0].Path != "bad.md" {
		t.Fatalf("parse errors = %+v, want one for bad.md", parseErrs)
	}
}

func TestMissingMetadata(t *testing.T) {
	bare := mk("bare", []string{"linked"})
	bare.HasFrontmatter = false
	findings := Run(corpus.Build([]*note.Note{bare, mk("linked", []string{"bare"})}), nil, DefaultConfig())

	missing := findByKind(findings, KindMissingMetadata)
	if len(missing) != 1 || missing[0].ID != "bare" {
		t.Errorf("missing-metadata = %+v, want one for bare", missing)
	}
}

func TestRunIdempotent(t *testing.T) {
	notes := []*note.Note{
		mk("a", []string{"ghost"}, "Idea", "ideas"),
		mk("b", nil),
		mk("c", []string{"a"}),
	}
	bare := mk("d", nil)
	bare.HasFrontmatter = false
	notes = append(notes, bare)

	idx := corpus.Build(notes)
	cfg := DefaultConfig()
	failures := []ParseFailure{{Path: "x.md", Message: "boom"}}

	first := Run(idx, failures, cfg)
	second := Run(idx, failures, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Error("Run() is not deterministic across invocations")
	}
}

func TestSortStableGrouping(t *testing.T) {
	findings := []Finding{
		{Kind: KindUnusedTag, Tag: "zz"},
		{Kind: KindBrokenLink, ID: "b", Target: "y"},
		{Kind: KindBrokenLink, ID: "b", Target: "x"},
		{Kind: KindBrokenLink, ID: "a", Target: "z"},
		{Kind: KindParseError, ID: "p.md"},
	}
	Sort(findings)

	wantKinds := []Kind{KindParseError, KindBrokenLink, KindBrokenLink, KindBrokenLink, KindUnusedTag}
	for i, f := range findings {
		if f.Kind != wantKinds[i] {
			t.Fatalf("position %d kind = %s, want %s", i, f.Kind, wantKinds[i])
		}
	}
	if findings[1].ID != "a" || findings[2].Target != "x" || findings[3].Target != "y" {
		t.Errorf("within-kind ordering wrong: %+v", findings[1:4])
	}
}
