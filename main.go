// Package main provides the entry point for the Nestor Draft
// application.
package main

import (
	"log"
	"os"

	"nestor-draft/internal/app"
	"nestor-draft/internal/project"
	"nestor-draft/internal/version"
	"nestor-draft/ui/mainwindow"
	"nestor-draft/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Nestor Draft"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.nestor.draft")

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// Open a project given on the command line.
	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		proj, err := project.Load(projectPath)
		if err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		} else {
			proj.Apply(appState, projectPath)
		}
	}

	win.Show()
	fyneApp.Run()

	if err := appPrefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}
