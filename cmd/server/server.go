package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/iconhunt/assets"
	"github.com/zucenko/iconhunt/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func NewServer(cfg Config) (*Server, error) {
	catalog, err := server.Load(cfg.CatalogPath, cfg.IconDir)
	if err != nil {
		return nil, err
	}
	source, err := assets.NewSource(cfg.AssetBase)
	if err != nil {
		return nil, err
	}
	s := &Server{
		GameServer: server.NewGameServer(catalog, assets.NewLoader(catalog, source), cfg.Seed),
	}
	s.routes()
	return s, nil
}

func main() {
	cfg, err := ParseConfig()
	if err != nil {
		log.Fatalln(err)
	}
	if err := configureLogging(cfg, os.Stderr); err != nil {
		log.Fatalln(err)
	}

	s, err := NewServer(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go s.GameServer.Loop(ctx)

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: s.router}
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	log.Printf("listening on port %s", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}
