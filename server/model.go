package server

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/zucenko/iconhunt/model"
)

type GameServer struct {
	GameSessions map[int64]*GameSession
	GameRequests chan GameRequest
	GameOvers    chan int64
	StatsQueries chan chan Stats
	Upgrader     *websocket.Upgrader

	Catalog *model.Catalog
	Loader  IconLoader
	// non-zero makes session rand sources reproducible
	Seed uint64

	nextId int64
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_ERR
	GS_OVER
)

type GameSession struct {
	Id                    int64
	State                 GameSessionState
	Game                  *Game
	Player                *PlayerSession
	Errors                chan int64
	Events                chan PlayerEvent
	Icons                 chan IconLoaded
	PlayerConnectRequests chan PlayerConnectRequest

	over chan<- int64
	done chan struct{}
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int64
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage
	writerDone     chan struct{}

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
