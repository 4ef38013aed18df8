package server

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/iconhunt/model"
)

const (
	handoffTimeout = 2 * time.Second
	connectTimeout = 10 * time.Second
	outboxSize     = 128
)

// writeTimeout bounds every frame written to a browser.
var writeTimeout = 10 * time.Second

func NewGameServer(catalog *model.Catalog, loader IconLoader, seed uint64) *GameServer {
	return &GameServer{
		GameSessions: make(map[int64]*GameSession),
		GameRequests: make(chan GameRequest),
		GameOvers:    make(chan int64),
		StatsQueries: make(chan chan Stats),
		Upgrader:     &websocket.Upgrader{},
		Catalog:      catalog,
		Loader:       loader,
		Seed:         seed,
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("HandleHttpCall - connection received")

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
		case <-time.After(handoffTimeout):
			log.Warn("HandleHttpCall GameRequests TIMEOUTED")
			w.WriteHeader(http.StatusRequestTimeout)
			return
		case <-r.Context().Done():
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			if gca.ResponseCode != GAME_READY {
				log.Warnf("HandleHttpCall response code:%d", gca.ResponseCode)
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			}
		case <-time.After(handoffTimeout):
			log.Warn("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(http.StatusRequestTimeout)
			return
		case <-r.Context().Done():
			// the hub still answers, a session it made for us must not linger
			go abandon(gcas)
			return
		}
		gs := gca.GameSession

		// Upgrade replies to the client itself on failure
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			gs.fail()
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gs.PlayerConnectRequests <- PlayerConnectRequest{Con: con, GameOver: gameOver}:
		case <-time.After(handoffTimeout):
			log.Warn("HandleHttpCall PlayerConnectRequests TIMEOUTED")
			gs.fail()
			return
		}

		log.WithField("session", gs.Id).Debug("HandleHttpCall wait for gameover")
		<-gameOver
	}
}

func (s *GameServer) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan Stats, 1)
		var stats Stats
		select {
		case s.StatsQueries <- reply:
			stats = <-reply
		case <-time.After(handoffTimeout):
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(struct {
			Status string `json:"status"`
			Stats
		}{Status: "ok", Stats: stats})
		if err != nil {
			log.Warnf("HandleHealth cant encode %v", err)
		}
	}
}

func abandon(gcas <-chan GameContextAwaiting) {
	gca := <-gcas
	if gca.GameSession != nil {
		gca.GameSession.fail()
	}
}

func (s *GameServer) Loop(ctx context.Context) {
	log.Info("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			gs, err := s.newGameSession()
			if err != nil {
				log.Errorf("GameServer.Loop cant create session: %v", err)
				gameReq.GameContextAwaiting <- GameContextAwaiting{ResponseCode: GAME_UNAVAILABLE}
				continue
			}
			s.GameSessions[gs.Id] = gs
			go gs.Loop(ctx)
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		case id := <-s.GameOvers:
			delete(s.GameSessions, id)
			log.WithFields(log.Fields{"session": id, "sessions": len(s.GameSessions)}).Info("GameServer.Loop session over")
		case reply := <-s.StatsQueries:
			reply <- Stats{Sessions: len(s.GameSessions)}
		case <-ctx.Done():
			log.Info("GameServer.Loop stopped")
			return
		}
	}
}

func (s *GameServer) newGameSession() (*GameSession, error) {
	s.nextId++
	r, err := s.newRand(s.nextId)
	if err != nil {
		return nil, err
	}
	icons := make(chan IconLoaded, 16)
	gs := &GameSession{
		Id:                    s.nextId,
		State:                 GS_NEW,
		Errors:                make(chan int64),
		Events:                make(chan PlayerEvent),
		Icons:                 icons,
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		over:                  s.GameOvers,
		done:                  make(chan struct{}),
	}
	gs.Game = &Game{
		Catalog: s.Catalog,
		Rand:    r,
		Loader:  s.Loader,
		Loaded:  icons,
	}
	return gs, nil
}

func (s *GameServer) newRand(id int64) (*rand.Rand, error) {
	if s.Seed != 0 {
		return rand.New(rand.NewPCG(s.Seed, uint64(id))), nil
	}
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))), nil
}

// Loop owns the session's Game. Everything that touches it arrives here.
func (gs *GameSession) Loop(ctx context.Context) {
	logger := log.WithField("session", gs.Id)
	logger.Info("GameSession.Loop start")

	sessionCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		close(gs.done)
		if gs.Player != nil {
			close(gs.Player.GameOver)
		}
		select {
		case gs.over <- gs.Id:
		case <-ctx.Done():
		}
		logger.Infof("GameSession.Loop ended state:%s", gs.State.Name())
	}()

	connectDeadline := time.After(connectTimeout)
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			if gs.Player != nil {
				logger.Warn("GameSession.Loop second player refused")
				close(pcr.GameOver)
				continue
			}
			gs.addPlayer(pcr.Con, pcr.GameOver)
			connectDeadline = nil
			gs.State = GS_PLAY
			gs.Player.State = PS_PLAY
			gs.Game.Presenter = gs.Player
			gs.Game.NewRound(sessionCtx)
		case <-connectDeadline:
			logger.Warn("GameSession.Loop no player connected")
			gs.State = GS_ERR
			return
		case <-gs.Errors:
			logger.Info("GameSession.Loop killing GS")
			gs.State = GS_ERR
			if gs.Player != nil {
				gs.Player.State = PS_ERR
			}
			return
		case pe := <-gs.Events:
			switch {
			case pe.Click != nil:
				res := gs.Game.Click(sessionCtx, pe.Click.Generation, pe.Click.Cell, pe.Click.Quadrant)
				logger.Debugf("GameSession.Loop click cell:%d quadrant:%s -> %s", pe.Click.Cell, pe.Click.Quadrant.Name(), res.Name())
			case pe.Finish:
				if !gs.Game.Finish(sessionCtx) {
					logger.Debug("GameSession.Loop finish before win ignored")
				}
			}
		case ev := <-gs.Icons:
			gs.Game.PlaceIcon(ev)
		case <-ctx.Done():
			gs.State = GS_OVER
			return
		}
	}
}

// fail ends the session from outside its loop.
func (gs *GameSession) fail() {
	select {
	case gs.Errors <- gs.Id:
	case <-gs.done:
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) {
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             gs.Id,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, outboxSize),
		writerDone:     make(chan struct{}),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			var ne net.Error
			if err == websocket.ErrCloseSent {
				return nil
			} else if errors.As(err, &ne) && ne.Timeout() {
				return nil
			}
			return err
		})
	// start processing input from the browser
	go ps.LoopChannelRead()
	// start sending from server
	go ps.LoopChannelWrite()
	gs.Player = ps
}

func (ps *PlayerSession) LoopChannelRead() {
	logger := log.WithField("session", ps.Id)
	logger.Debug("LoopChannelRead STARTED")
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			logger.Debugf("LoopChannelRead err reading message from Conn %v", err)
			break loop
		}
		cm := &model.ClientMessage{}
		if err := json.NewDecoder(r).Decode(cm); err != nil {
			logger.Warnf("LoopChannelRead cant decode %v", err)
			break loop
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Player: ps.Id, Click: cm.Click, Finish: cm.Finish}:
		case <-ps.GameSession.done:
			break loop
		}
	}
	ps.GameSession.fail()
	logger.Debug("LoopChannelRead ENDED")
}

// LoopChannelWrite only consumes, a full outbox cannot stall it.
func (ps *PlayerSession) LoopChannelWrite() {
	logger := log.WithField("session", ps.Id)
	logger.Debug("LoopChannelWrite STARTED")
	err := ps.drain()
	// unblock the session loop before reporting to it
	close(ps.writerDone)
	if err != nil {
		logger.Warnf("LoopChannelWrite %v", err)
		ps.GameSession.fail()
	}
	logger.Debug("LoopChannelWrite ENDED")
}

func (ps *PlayerSession) drain() error {
	for {
		select {
		case mes := <-ps.MessagesToSend:
			if err := ps.write(mes); err != nil {
				return err
			}
			ps.DebugOutMessages++
		case <-ps.GameSession.done:
			return nil
		}
	}
}

func (ps *PlayerSession) write(mes model.ServerMessage) error {
	if err := ps.Conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("cant set deadline: %w", err)
	}
	w, err := ps.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return fmt.Errorf("cant get writer: %w", err)
	}
	if err := json.NewEncoder(w).Encode(mes); err != nil {
		w.Close()
		return fmt.Errorf("cant encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("cant flush: %w", err)
	}
	return nil
}

func (ps *PlayerSession) send(mes model.ServerMessage) {
	select {
	case ps.MessagesToSend <- mes:
	case <-ps.writerDone:
	}
}

func (ps *PlayerSession) ShowMessage(text string) {
	ps.send(model.ServerMessage{Message: &text})
}

func (ps *PlayerSession) ShowPrompt(text string) {
	ps.send(model.ServerMessage{Prompt: &text})
}

func (ps *PlayerSession) ShowFinishAffordance(visible bool) {
	ps.send(model.ServerMessage{Finish: &model.FinishState{Visible: visible}})
}

func (ps *PlayerSession) ShowGrid(generation int, cells []string) {
	ps.send(model.ServerMessage{Setup: []model.Setup{{Generation: generation, Cells: cells}}})
}

func (ps *PlayerSession) ShowIcon(generation, cell int, q model.Quadrant, markup string) {
	ps.send(model.ServerMessage{Icons: []model.IconReady{{
		Generation: generation,
		Cell:       cell,
		Quadrant:   q,
		Markup:     markup,
	}}})
}

func (ps *PlayerSession) ShowResolved(generation, cell int, correct bool) {
	ps.send(model.ServerMessage{Resolved: []model.CellResolved{{
		Generation: generation,
		Cell:       cell,
		Correct:    correct,
	}}})
}

func (ps *PlayerSession) ShowCongratulations(text string) {
	ps.send(model.ServerMessage{Congratulations: &text})
}
