package ui

import (
	"mazflix/internal/catalog"
	"mazflix/internal/media"
	"mazflix/internal/playback"
)

type view int

const (
	browseView view = iota
	detailView
	playerView
	streamingView
)

type moviesMsg struct {
	query string
	page  *catalog.Page
}
type moviesErrMsg struct {
	query string
	err   error
}

type openDetailMsg struct{ id int }
type detailMsg struct{ detail *media.MovieDetail }
type detailErrMsg struct {
	id  int
	err error
}

type playMsg struct {
	title  string
	source media.VideoSource
}

// snapshotMsg and playerClosedMsg carry the generation of the player
// mount they belong to, so messages from a closed player are dropped.
type snapshotMsg struct {
	gen  int
	snap playback.Snapshot
}
type playerClosedMsg struct{ gen int }

type externalDoneMsg struct{ err error }
