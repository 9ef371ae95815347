package build

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// State carries mutable state across pipeline stages. Stages communicate
// exclusively through it.
type State struct {
	Config *config.Config
	Engine *markdown.Engine
	Model  *site.Model
	Report *Report

	SourceDir string
	OutputDir string // final output location
	StageDir  string // staging directory stages write into

	start time.Time
}

func newState(cfg *config.Config, engine *markdown.Engine, report *Report) *State {
	return &State{
		Config:    cfg,
		Engine:    engine,
		Report:    report,
		SourceDir: cfg.Build.Source,
		OutputDir: cfg.Build.Output,
		start:     time.Now(),
	}
}
