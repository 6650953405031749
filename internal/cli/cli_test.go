package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(&buf, log.InfoLevel), &buf
}

func TestRootCommandStructure(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}

	want := []string{"check", "stats", "index", "archive", "watch", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c, buf := newTestCLI(t)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should pass after SetLogLevel")
	}
}

func TestCheckCommandHealthyVault(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"a.md": "---\ntitle: A\n---\n[[b]]\n",
		"b.md": "---\ntitle: B\n---\n[[a]]\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	c, _ := newTestCLI(t)
	cmd := c.RootCommand()
	cmd.SetArgs([]string{"check", "--vault", root, "--no-cache", "--format", "json"})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("check on healthy vault failed: %v", err)
	}
}

func TestCheckCommandFailsOnFindings(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("[[missing]]\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, _ := newTestCLI(t)
	cmd := c.RootCommand()
	cmd.SetArgs([]string{"check", "--vault", root, "--no-cache", "--format", "json"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("check should fail when findings exist")
	}
	if !strings.Contains(err.Error(), "issue") {
		t.Errorf("error = %v, want issue count", err)
	}

	// --no-fail suppresses the failure exit.
	cmd2 := c.RootCommand()
	cmd2.SetArgs([]string{"check", "--vault", root, "--no-cache", "--format", "json", "--no-fail"})
	cmd2.SetOut(&bytes.Buffer{})
	if err := cmd2.Execute(); err != nil {
		t.Errorf("check --no-fail should succeed, got %v", err)
	}
}

func TestCheckCommandRejectsBadFormat(t *testing.T) {
	c, _ := newTestCLI(t)
	cmd := c.RootCommand()
	cmd.SetArgs([]string{"check", "--vault", t.TempDir(), "--format", "yaml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("check should reject unknown formats")
	}
}
