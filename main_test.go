package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskprogress/internal/progress"
)

func TestRunDemoRaw(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("spinner:\n  preset: line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "run.log")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--config", cfgPath,
		"--log-file", logPath,
		"--steps", "4",
		"--step", "1ms",
		"--summary",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"[starting] Building Main",
		"[Main] waiting on Logging",
		"[DONE] Fetching dependencies",
		"[DONE] Building Logging",
		"[DONE] Building Main",
		"We're halfway there",
		"3 tasks: 3 done",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output is missing %q:\n%s", want, got)
		}
	}

	logs, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logs), "run finished") {
		t.Errorf("log file is missing the run record:\n%s", logs)
	}
}

func TestRunDemoRejectsBadSteps(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--steps", "0"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("zero steps accepted")
	}
}

func TestOptionsApply(t *testing.T) {
	opts := &options{raw: true, autoClose: true, noMessages: true, noFinished: true}
	f := opts.apply(progress.DefaultFormat())
	want := progress.Format{
		Output:    progress.OutputRaw,
		AutoClose: true,
		Color:     progress.ColorAuto,
	}
	if f != want {
		t.Fatalf("apply = %+v, want %+v", f, want)
	}

	if f := (&options{}).apply(progress.DefaultFormat()); f != progress.DefaultFormat() {
		t.Fatalf("no flags changed the format to %+v", f)
	}
}
