/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

//go:embed assets/home.html
var homeHTML []byte

//go:embed assets/room.html
var roomHTML []byte

//go:embed assets/app.css
var roomCSS []byte

//go:embed assets/app.js
var roomJS []byte

// renderRoomPage inlines the stored room configuration into the embedded
// client so it can render before the websocket is up.
func renderRoomPage(room Room) ([]byte, error) {
	blob, err := json.Marshal(room)
	if err != nil {
		return nil, err
	}

	return bytes.Replace(roomHTML, []byte("__ROOM_JSON__"), blob, 1), nil
}

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write(homeHTML)
	}
}

func getCssHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(roomCSS)
	}
}

func getJsHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(roomJS)
	}
}

func registerAssetHandlers(cfg *Config, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/assets/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/app.js", getJsHandler(cfg))
}
