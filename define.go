package main

import (
	"embed"
	"errors"
	"time"
)

var (
	//go:embed rsc/icon.png
	iconFile embed.FS

	version = "dev"

	ErrNoData = errors.New("no spectra to export")
)

const (
	appID            = "io.github.speview"
	prefFigureFormat = "figureFormat"

	// figure size in pixels when saving to a file
	saveWidth  = 1280
	saveHeight = 800

	minCanvasWidth  = 640
	minCanvasHeight = 400

	// quiet time before the file list is rescanned after a directory change
	watchSettle = 300 * time.Millisecond
)
