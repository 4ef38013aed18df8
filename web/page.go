// Package web holds the browser side of the game: the page and the static
// script that renders whatever the server pushes over the websocket.
package web

import (
	"context"
	"embed"
	"io"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
)

const StaticPrefix = "/static/"

//go:embed static
var staticFS embed.FS

type PageOptions struct {
	Title  string
	Socket string
}

// Page renders the game shell: status message, prompt, the grid container
// and the hidden finish button.
func Page(opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		for _, piece := range []string{
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`,
			templ.EscapeString(opts.Title),
			`</title><link rel="stylesheet" href="` + StaticPrefix + `game.css"></head>`,
			`<body data-socket="`,
			templ.EscapeString(opts.Socket),
			`"><h1>`,
			templ.EscapeString(opts.Title),
			`</h1><p id="OBJprompt"></p><p id="OBJmessage"></p><div id="imageGrid"></div>`,
			`<button id="finishButton" type="button">Finish</button>`,
			`<script src="` + StaticPrefix + `game.js"></script></body></html>`,
		} {
			if _, err := io.WriteString(w, piece); err != nil {
				return err
			}
		}
		return nil
	})
}

func PageHandler(opts PageOptions) http.Handler {
	return templ.Handler(Page(opts))
}

func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(StaticPrefix, http.FileServer(http.FS(sub)))
}
