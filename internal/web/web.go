// Package web embeds the dashboard's templates and stylesheet.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var files embed.FS

// Templates parses every page template. The entry point is "index".
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}

// Static is the /static file tree.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
