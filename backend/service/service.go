package service

import (
	"artfolio/backend/library/imaging"
	"artfolio/backend/library/storage"
	"artfolio/backend/library/tasks"
)

// Package-wide handles wired at startup.
var (
	Store     storage.Backend
	Sanitizer imaging.Sanitizer
	Tasks     *tasks.Runner
)

func Init(store storage.Backend, sanitizer imaging.Sanitizer, runner *tasks.Runner) {
	Store = store
	Sanitizer = sanitizer
	Tasks = runner
}
