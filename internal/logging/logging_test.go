package logging

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRunTagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := WithRun(zap.New(core), "check")
	logger.Info("first")
	logger.Info("second")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	var runIDs []string
	for _, e := range entries {
		fields := e.ContextMap()
		if fields["command"] != "check" {
			t.Errorf("command = %v, want check", fields["command"])
		}
		id, _ := fields["run_id"].(string)
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("run_id %q is not a uuid: %v", id, err)
		}
		runIDs = append(runIDs, id)
	}
	if runIDs[0] != runIDs[1] {
		t.Errorf("entries from one run carry different ids: %v", runIDs)
	}
}

func TestWithRunFreshIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	WithRun(zap.New(core), "fix").Info("a")
	WithRun(zap.New(core), "fix").Info("b")

	entries := logs.All()
	if entries[0].ContextMap()["run_id"] == entries[1].ContextMap()["run_id"] {
		t.Error("separate runs share a run_id")
	}
}

func TestNewLevels(t *testing.T) {
	quiet, err := New("check", false)
	if err != nil {
		t.Fatal(err)
	}
	if quiet.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled without debug")
	}
	if !quiet.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn disabled without debug")
	}

	verbose, err := New("check", true)
	if err != nil {
		t.Fatal(err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug disabled with debug set")
	}
}
