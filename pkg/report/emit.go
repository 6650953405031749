package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cognetkb/cognet/pkg/audit"
	"github.com/cognetkb/cognet/pkg/errors"
)

// Format selects an output encoding.
type Format string

// Supported output formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q (want text, markdown, or json)", s)
}

// Emit writes the report to w in the given format.
func Emit(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText:
		return emitText(w, r)
	case FormatMarkdown:
		return emitMarkdown(w, r)
	case FormatJSON:
		return emitJSON(w, r)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q", format)
}

func emitJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func emitText(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "Vault check: %s\n", r.Vault)
	fmt.Fprintf(w, "%d notes, %d links, %d tags\n", r.NoteCount, r.LinkCount, r.TagCount)
	if r.Healthy() {
		fmt.Fprintln(w, "No issues found.")
		return nil
	}
	fmt.Fprintf(w, "%d issue(s) found.\n", len(r.Findings))

	for _, kind := range audit.Kinds() {
		group := r.ByKind(kind)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", kind.Title(), len(group))
		for _, f := range group {
			fmt.Fprintf(w, "  - %s\n", findingLine(f))
			if f.Context != "" {
				fmt.Fprintf(w, "      %s\n", f.Context)
			}
		}
	}
	return nil
}

func emitMarkdown(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "# Vault Check Report\n\n")
	fmt.Fprintf(w, "- **Vault:** %s\n", r.Vault)
	fmt.Fprintf(w, "- **Generated:** %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "- **Run:** %s\n", r.RunID)
	fmt.Fprintf(w, "- **Corpus:** %d notes, %d links, %d tags\n\n", r.NoteCount, r.LinkCount, r.TagCount)

	if r.Healthy() {
		fmt.Fprintln(w, "No issues found.")
		return nil
	}
	fmt.Fprintf(w, "%d issue(s) found.\n", len(r.Findings))

	for _, kind := range audit.Kinds() {
		group := r.ByKind(kind)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n## %s (%d)\n\n", kind.Title(), len(group))
		for _, f := range group {
			fmt.Fprintf(w, "- %s\n", findingLine(f))
			if f.Context != "" {
				fmt.Fprintf(w, "  > %s\n", f.Context)
			}
		}
	}
	return nil
}

// findingLine renders one finding as a single line shared by the text and
// Markdown emitters.
func findingLine(f audit.Finding) string {
	var b strings.Builder
	b.WriteString(f.Subject())
	if f.Target != "" {
		b.WriteString(" -> " + f.Target)
	}
	if f.Detail != "" {
		b.WriteString(": " + f.Detail)
	}
	if f.Path != "" && f.Path != f.Subject() {
		b.WriteString(" (" + f.Path + ")")
	}
	return b.String()
}
