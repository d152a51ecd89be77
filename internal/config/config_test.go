package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesBreakpointsAndDebugFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mipsrun.yaml")
	contents := "log_file: run.log\ndebug: true\nbreakpoints: [0x400020, 0x400040]\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.LogFile != "run.log" || !c.Debug {
		t.Fatalf("got %+v", c)
	}
	if len(c.Breakpoints) != 2 || c.Breakpoints[0] != 0x400020 || c.Breakpoints[1] != 0x400040 {
		t.Fatalf("breakpoints = %v", c.Breakpoints)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/mipsrun.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestDefaultHasNoBreakpoints(t *testing.T) {
	c := Default()
	if len(c.Breakpoints) != 0 || c.Debug || c.LogFile != "" {
		t.Fatalf("got %+v, want zero value", c)
	}
}
