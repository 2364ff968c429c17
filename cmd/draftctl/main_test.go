package main

import (
	"testing"

	"nestor-draft/internal/app"
	"nestor-draft/internal/draft"
)

func TestReplayLine(t *testing.T) {
	state := app.NewState()
	d := draft.New(state, nil)

	steps := []Step{
		{Op: "start", Tool: "line"},
		{Op: "point", X: 0, Y: 0},
		{Op: "move", X: 5, Y: 5},
		{Op: "point", X: 10, Y: 0},
	}
	if err := replay(d, steps); err != nil {
		t.Fatalf("replay: %v", err)
	}

	sc := state.Scenes.Ensure(state.ActiveLevel())
	if len(sc.Entities) != 1 {
		t.Fatalf("entities = %d, want 1", len(sc.Entities))
	}
	if sc.Entities[0].Type != "line" {
		t.Fatalf("type = %s, want line", sc.Entities[0].Type)
	}
}

func TestReplayRejectsUnknownOp(t *testing.T) {
	state := app.NewState()
	d := draft.New(state, nil)

	if err := replay(d, []Step{{Op: "teleport"}}); err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestReplayRejectsUnknownTool(t *testing.T) {
	state := app.NewState()
	d := draft.New(state, nil)

	if err := replay(d, []Step{{Op: "start", Tool: "laser"}}); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
