// Package web embeds the static dashboard assets for single-binary distribution.
package web

import "embed"

// Assets contains the dashboard files served on unmatched routes.
//
//go:embed all:static
var Assets embed.FS
