package main

import (
	"github.com/matryer/way"

	"github.com/zucenko/iconhunt/web"
)

const (
	URI_PAGE   = "/"
	URI_STATIC = web.StaticPrefix + "..."
	URI_WS     = "/play"
	URI_HEALTH = "/healthz"
)

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.Handle("GET", URI_PAGE, web.PageHandler(web.PageOptions{Title: "Find the object", Socket: URI_WS}))
	s.router.Handle("GET", URI_STATIC, web.StaticHandler())
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_HEALTH, s.GameServer.HandleHealth())
}
