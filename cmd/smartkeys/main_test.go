package main

import (
	"testing"

	"github.com/kobzarvs/smartkeys/internal/app"
)

func TestRootCommandFlags(t *testing.T) {
	var gotArgs []string
	var gotOpts app.Options
	cmd := newRootCommand(func(args []string, opts app.Options) error {
		gotArgs, gotOpts = args, opts
		return nil
	})
	cmd.SetArgs([]string{"--config", "/tmp/c.yaml", "--debug", "--language", "jsonc", "a.json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "a.json" {
		t.Fatalf("args = %v, want [a.json]", gotArgs)
	}
	want := app.Options{ConfigPath: "/tmp/c.yaml", Debug: true, Language: "jsonc"}
	if gotOpts != want {
		t.Fatalf("opts = %+v, want %+v", gotOpts, want)
	}
}

func TestRootCommandRejectsExtraArgs(t *testing.T) {
	cmd := newRootCommand(func([]string, app.Options) error { return nil })
	cmd.SetArgs([]string{"a", "b"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("Execute with two files = nil error")
	}
}
