package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/types/known/structpb"

	. "BotShooter/internal/game"
	"BotShooter/internal/scores"
)

const (
	StatusSaving     = "Saving score..."
	StatusSaved      = "Score Saved!"
	StatusSaveFailed = "Error saving score"
	StatusNetwork    = "Network Error"

	simStep          = time.Second / SimHz
	pushStep         = time.Second / UpdateRateHz
	gameOverFailsafe = 2000 * time.Millisecond
	writeWait        = 5 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = pongWait * 9 / 10
)

var errUnknownType = errors.New("unknown message type")

func errInvalidPayload(kind string, err error) error {
	return fmt.Errorf("invalid %s payload: %w", kind, err)
}

func errUnknownMessage(kind string) error {
	return fmt.Errorf("%w: %q", errUnknownType, kind)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type inputDTO struct {
	MoveX  float64 `json:"moveX"`
	MoveY  float64 `json:"moveY"`
	AimX   float64 `json:"aimX"`
	AimY   float64 `json:"aimY"`
	Fire   bool    `json:"fire"`
	Rocket bool    `json:"rocket"`
}

type pauseDTO struct {
	Paused bool `json:"paused"`
}

type settingsDTO struct {
	Initials *string `json:"initials"`
	SFX      *bool   `json:"sfx"`
	Music    *bool   `json:"music"`
}

type viewportDTO struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// streamParams are the query options of a /ws request.
type streamParams struct {
	Profile string
	Proto   bool
	ViewW   float64
	ViewH   float64
	Seed    int64
}

func parseFloatParam(values url.Values, key string, fallback float64) float64 {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}

func parseStreamParams(values url.Values) streamParams {
	p := streamParams{
		Profile: values.Get("profile"),
		Proto:   strings.EqualFold(values.Get("format"), "proto"),
		ViewW:   parseFloatParam(values, "w", DefaultViewW),
		ViewH:   parseFloatParam(values, "h", DefaultViewH),
		Seed:    time.Now().UnixNano(),
	}
	if raw := values.Get("seed"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			p.Seed = seed
		}
	}
	return p
}

// submitStatus maps a store result to the status line shown to the player.
func submitStatus(err error) string {
	switch {
	case err == nil:
		return StatusSaved
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return StatusNetwork
	}
	return StatusSaveFailed
}

// liveConn serialises writes to one socket.
type liveConn struct {
	conn  *websocket.Conn
	proto bool
	mu    sync.Mutex
}

func (lc *liveConn) writeState(msg stateMsg) error {
	if lc.proto {
		st, err := stateToProto(msg)
		if err != nil {
			return err
		}
		return lc.writeBinary(st)
	}
	return lc.writeJSON(msg)
}

func (lc *liveConn) writeGameOver(msg gameOverMsg) error {
	if lc.proto {
		st, err := gameOverToProto(msg)
		if err != nil {
			return err
		}
		return lc.writeBinary(st)
	}
	return lc.writeJSON(msg)
}

func (lc *liveConn) writeJSON(v any) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return lc.conn.WriteJSON(v)
}

func (lc *liveConn) writeBinary(st *structpb.Struct) error {
	data, err := encodeProto(st)
	if err != nil {
		return err
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return lc.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (lc *liveConn) ping() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (a *App) serveWS(w http.ResponseWriter, r *http.Request) {
	params := parseStreamParams(r.URL.Query())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	lc := &liveConn{conn: conn, proto: params.Proto}

	prefs, err := a.Prefs.Load(params.Profile)
	if err != nil {
		log.Printf("prefs: %v (using defaults)", err)
	}
	id := uuid.NewString()
	sess := a.Hub.Create(id, prefs.Context(), params.Seed)
	sess.Mu.Lock()
	sess.SetViewport(params.ViewW, params.ViewH)
	sess.Mu.Unlock()
	log.Printf("session %s started (profile %q, seed %d)", id, params.Profile, params.Seed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.readLoop(ctx, cancel, conn, sess, params.Profile)

	gameOver := make(chan int, 1)
	go func() {
		ticker := time.NewTicker(simStep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if rep := sess.Tick(); rep.GameOver {
					gameOver <- rep.FinalScore
					return
				}
			}
		}
	}()

	a.sendLoop(ctx, lc, sess, gameOver)

	cancel()
	sess.Close()
	conn.Close()
	log.Printf("session %s closed", id)
}

func (a *App) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *Session, profile string) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			log.Printf("session %s: unsupported frame type %d", sess.ID, msgType)
			continue
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			log.Printf("invalid JSON message: %v", err)
			continue
		}
		if err := a.handleInbound(sess, profile, inbound); err != nil {
			log.Printf("session %s: %v", sess.ID, err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (a *App) handleInbound(sess *Session, profile string, in inboundMessage) error {
	switch in.Type {
	case "input":
		var p inputDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return errInvalidPayload(in.Type, err)
		}
		sess.Mu.Lock()
		sess.SetInput(PlayerInput{
			Move:   Vec2{X: p.MoveX, Y: p.MoveY},
			Aim:    Vec2{X: p.AimX, Y: p.AimY},
			Fire:   p.Fire,
			Rocket: p.Rocket,
		})
		sess.Mu.Unlock()
	case "pause":
		var p pauseDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return errInvalidPayload(in.Type, err)
		}
		sess.Mu.Lock()
		sess.SetPaused(p.Paused)
		sess.Mu.Unlock()
	case "viewport":
		var p viewportDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return errInvalidPayload(in.Type, err)
		}
		sess.Mu.Lock()
		sess.SetViewport(p.W, p.H)
		sess.Mu.Unlock()
	case "settings":
		var p settingsDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return errInvalidPayload(in.Type, err)
		}
		return a.applySettings(sess, profile, p)
	default:
		return errUnknownMessage(in.Type)
	}
	return nil
}

func (a *App) applySettings(sess *Session, profile string, p settingsDTO) error {
	prefs, err := a.Prefs.Load(profile)
	if err != nil {
		log.Printf("prefs: %v (using defaults)", err)
	}
	if p.Initials != nil {
		prefs.Initials = scores.NormalizeInitials(*p.Initials)
	}
	if p.SFX != nil {
		prefs.SFXMuted = !*p.SFX
	}
	if p.Music != nil {
		prefs.MusicMuted = !*p.Music
	}
	sess.Mu.Lock()
	sess.Context = prefs.Context()
	sess.Mu.Unlock()
	return a.Prefs.Save(profile, prefs)
}

func (a *App) sendLoop(ctx context.Context, lc *liveConn, sess *Session, gameOver <-chan int) {
	sendTick := time.NewTicker(pushStep)
	defer sendTick.Stop()
	pingTick := time.NewTicker(pingPeriod)
	defer pingTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pingTick.C:
			if err := lc.ping(); err != nil {
				return
			}
		case <-sendTick.C:
			if err := a.pushState(lc, sess); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		case final := <-gameOver:
			// Last state frame carries the fatal hit and the game over cue.
			if err := a.pushState(lc, sess); err != nil {
				log.Printf("send error: %v", err)
				return
			}
			a.finishSession(ctx, lc, sess, final)
			return
		}
	}
}

func (a *App) pushState(lc *liveConn, sess *Session) error {
	sess.Mu.Lock()
	snap := sess.Snapshot()
	rep := sess.Drain()
	sess.Mu.Unlock()
	return lc.writeState(buildStateMsg(sess.ID, snap, rep))
}

// finishSession submits the final score without blocking the socket on the
// store. The player gets a final status when the submission resolves or the
// failsafe fires, whichever comes first.
func (a *App) finishSession(ctx context.Context, lc *liveConn, sess *Session, final int) {
	sess.Mu.Lock()
	initials := sess.Context.DisplayName
	sess.Mu.Unlock()

	if err := lc.writeGameOver(gameOverMsg{Type: "game_over", Score: final, Status: StatusSaving}); err != nil {
		log.Printf("send game over: %v", err)
		return
	}

	result := make(chan string, 1)
	go func() {
		submitCtx, cancel := context.WithTimeout(context.Background(), gameOverFailsafe)
		defer cancel()
		_, err := a.Scores.Insert(submitCtx, scores.NormalizeInitials(initials), int64(final))
		if err != nil {
			log.Printf("session %s: submit score: %v", sess.ID, err)
		}
		result <- submitStatus(err)
	}()

	status := StatusSaving
	failsafe := time.NewTimer(gameOverFailsafe)
	defer failsafe.Stop()
	select {
	case status = <-result:
	case <-failsafe.C:
		log.Printf("session %s: score submission still pending after %v", sess.ID, gameOverFailsafe)
	case <-ctx.Done():
		return
	}
	if err := lc.writeGameOver(gameOverMsg{Type: "game_over", Score: final, Status: status, Final: true}); err != nil {
		log.Printf("send game over: %v", err)
	}
}
