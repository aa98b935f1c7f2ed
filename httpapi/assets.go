package httpapi

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed assets/* templates/*
var embeddedAssets embed.FS

var assetsFS fs.FS

var pageTemplate = template.Must(template.ParseFS(embeddedAssets, "templates/index.html"))

func init() {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		assetsFS = embeddedAssets
		return
	}
	assetsFS = sub
}
