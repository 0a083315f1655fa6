package folio

import (
	"embed"
	"io/fs"
)

// StaticAssets holds the stylesheet and other files served under /static/.
//
//go:embed static/*
var StaticAssets embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(StaticAssets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
