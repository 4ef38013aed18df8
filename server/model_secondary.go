package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/zucenko/iconhunt/model"
)

type ResponseCode int

const (
	GAME_READY ResponseCode = iota
	GAME_UNAVAILABLE
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case GAME_READY:
		return http.StatusOK
	case GAME_UNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		panic(h)
	}
}

func (gss GameSessionState) Name() string {
	switch gss {
	case GS_NEW:
		return "GS_NEW"
	case GS_PLAY:
		return "GS_PLAY"
	case GS_ERR:
		return "GS_ERR"
	case GS_OVER:
		return "GS_OVER"
	default:
		return fmt.Sprintf("n/a:%d", gss)
	}
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_ERR:
		return "ERR"
	default:
		return "N/A"
	}
}

type GameContextAwaiting struct {
	ResponseCode ResponseCode
	GameSession  *GameSession
}

type GameRequest struct {
	// buffered, the hub never waits on a handler that gave up
	GameContextAwaiting chan GameContextAwaiting
}

type PlayerConnectRequest struct {
	Con      *websocket.Conn
	GameOver chan struct{}
}

type PlayerEvent struct {
	Player int64
	Click  *model.Click
	Finish bool
}

type Stats struct {
	Sessions int `json:"sessions"`
}
