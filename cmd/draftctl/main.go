// Command draftctl is a headless companion to the drafting app: it
// replays recorded click scripts through the drawing engine and
// inspects project files, without opening a window.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"nestor-draft/internal/app"
	"nestor-draft/internal/draft"
	"nestor-draft/internal/project"
	"nestor-draft/internal/tool"
	"nestor-draft/internal/version"
	"nestor-draft/pkg/geometry"

	"github.com/spf13/cobra"
)

// Step is one scripted action for the replay command.
type Step struct {
	Op   string  `json:"op"` // start, point, move, finish, cancel, undo-point, flip, radius
	Tool string  `json:"tool,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	R    float64 `json:"r,omitempty"`
}

func main() {
	root := &cobra.Command{
		Use:          "draftctl",
		Short:        "Headless tools for Nestor Draft drawings",
		SilenceUsage: true,
	}
	root.AddCommand(newReplayCmd(), newInfoCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newReplayCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "replay <script.json>",
		Short: "Replay a click script through the drawing engine",
		Long: "Replay reads a JSON array of steps (start/point/move/finish/" +
			"cancel/undo-point/flip/radius), drives the drafting engine with " +
			"them, and writes the resulting scene as JSON.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var steps []Step
			if err := json.Unmarshal(data, &steps); err != nil {
				return fmt.Errorf("parse script: %w", err)
			}

			state := app.NewState()
			d := draft.New(state, nil)
			if err := replay(d, steps); err != nil {
				return err
			}

			sc := state.Scenes.Ensure(state.ActiveLevel())
			out, err := json.MarshalIndent(sc, "", "  ")
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			return os.WriteFile(output, out, 0644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "scene output path (- for stdout)")
	return cmd
}

// replay drives the drafter with the script, stopping on malformed
// steps. Guard-rejected steps are silent no-ops, matching the
// interactive behavior.
func replay(d *draft.Drafter, steps []Step) error {
	for i, s := range steps {
		switch s.Op {
		case "start":
			t := tool.Tool(s.Tool)
			if !d.Start(t) {
				return fmt.Errorf("step %d: unknown tool %q", i, s.Tool)
			}
		case "point":
			d.Point(geometry.Point2D{X: s.X, Y: s.Y})
		case "move":
			d.MoveCursor(geometry.Point2D{X: s.X, Y: s.Y})
		case "finish":
			d.Finish()
		case "cancel":
			d.Cancel()
		case "undo-point":
			d.UndoLastPoint()
		case "flip":
			d.FlipDirection()
		case "radius":
			d.SetRadius(s.R)
		default:
			return fmt.Errorf("step %d: unknown op %q", i, s.Op)
		}
	}
	return nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <project.ndraft>",
		Short: "Summarize a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:         %s\n", proj.Name)
			fmt.Fprintf(out, "Version:      %d\n", proj.Version)
			fmt.Fprintf(out, "Active level: %s\n", proj.ActiveLevel)
			fmt.Fprintf(out, "Levels:       %d\n", len(proj.Levels))
			for id, level := range proj.Levels {
				entities := 0
				layers := 0
				if level.Scene != nil {
					entities = len(level.Scene.Entities)
					layers = len(level.Scene.Layers)
				}
				fmt.Fprintf(out, "  %s: %d entities, %d layers", id, entities, layers)
				if level.UnderlayPath != "" {
					fmt.Fprintf(out, ", underlay %s", level.UnderlayPath)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "draftctl %s\n", version.String())
		},
	}
}
