// Package web holds the page templates and static assets compiled into the
// binary.
package web

import "embed"

// TemplatesFS holds the page and its partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds app.css and app.js.
//
//go:embed static/*
var StaticFS embed.FS
