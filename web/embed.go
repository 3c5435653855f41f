// Package web embeds the Listenfy page templates and stylesheet.
package web

import "embed"

// TemplatesFS holds the layouts, pages and partials under templates/.
//
//go:embed all:templates
var TemplatesFS embed.FS

// StaticFS holds the files served under /static/.
//
//go:embed all:static
var StaticFS embed.FS
