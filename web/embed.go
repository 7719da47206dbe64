package web

import "embed"

// Static embeds static assets.
//
//go:embed static/**/*
var Static embed.FS
