package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	. "BotShooter/internal/game"
	"BotShooter/internal/scores"
)

type recordingStore struct {
	mu      sync.Mutex
	entries []scores.Entry
	err     error
}

func (r *recordingStore) Top(context.Context, int) ([]scores.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]scores.Entry(nil), r.entries...), nil
}

func (r *recordingStore) Insert(_ context.Context, initials string, score int64) (scores.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return scores.Entry{}, r.err
	}
	e := scores.Entry{ID: int64(len(r.entries) + 1), Initials: initials, Score: score}
	r.entries = append(r.entries, e)
	return e, nil
}

func startTestServer(t *testing.T, store ScoreStore) (*App, string) {
	t.Helper()
	app := &App{Hub: NewHub(DefaultTuning()), Scores: store, Prefs: NewPrefsStore(nil)}
	srv := httptest.NewServer(app.routes())
	t.Cleanup(srv.Close)
	return app, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads JSON frames until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame map[string]any
		require.NoError(t, json.Unmarshal(data, &frame))
		if match(frame) {
			return frame
		}
	}
}

func onlySession(t *testing.T, hub *Hub) *Session {
	t.Helper()
	var sess *Session
	require.Eventually(t, func() bool {
		hub.Mu.Lock()
		defer hub.Mu.Unlock()
		for _, s := range hub.Sessions {
			sess = s
		}
		return sess != nil
	}, 2*time.Second, 10*time.Millisecond)
	return sess
}

func sendFrame(t *testing.T, conn *websocket.Conn, kind string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(inboundMessage{Type: kind, Payload: raw}))
}

func TestStreamSendsState(t *testing.T) {
	_, url := startTestServer(t, &recordingStore{})
	conn := dial(t, url+"?profile=tst&seed=7&w=800&h=600")

	frame := readUntil(t, conn, func(f map[string]any) bool { return f["type"] == "state" })
	me := frame["me"].(map[string]any)
	assert.EqualValues(t, 500, me["hp"])
	assert.EqualValues(t, 200, me["ammo"])
	assert.EqualValues(t, 10, me["rpg_ammo"])
	require.NotNil(t, frame["objective"])
	assert.Equal(t, "guarded", frame["objective"].(map[string]any)["state"])
	assert.EqualValues(t, 10, frame["difficulty"].(map[string]any)["max_enemies"])
}

func TestStreamPauseAndSettings(t *testing.T) {
	app, url := startTestServer(t, &recordingStore{})
	conn := dial(t, url+"?profile=ace")
	sess := onlySession(t, app.Hub)

	sendFrame(t, conn, "pause", pauseDTO{Paused: true})
	off := false
	initials := "ace"
	sendFrame(t, conn, "settings", settingsDTO{Initials: &initials, SFX: &off})

	frame := readUntil(t, conn, func(f map[string]any) bool {
		if f["type"] != "state" || f["paused"] != true {
			return false
		}
		ctx := f["context"].(map[string]any)
		return ctx["initials"] == "ACE" && ctx["sfx"] == false
	})
	assert.Equal(t, true, frame["context"].(map[string]any)["music"])

	sess.Mu.Lock()
	ticks := sess.Ticks
	sess.Mu.Unlock()
	time.Sleep(100 * time.Millisecond)
	sess.Mu.Lock()
	assert.Equal(t, ticks, sess.Ticks, "paused session must not advance")
	sess.Mu.Unlock()

	prefs, err := app.Prefs.Load("ace")
	require.NoError(t, err)
	assert.Equal(t, Preferences{Initials: "ACE", SFXMuted: true}, prefs)
}

func TestStreamGameOverSubmitsScore(t *testing.T) {
	store := &recordingStore{}
	app, url := startTestServer(t, store)
	conn := dial(t, url+"?profile=zed")
	sess := onlySession(t, app.Hub)
	readUntil(t, conn, func(f map[string]any) bool { return f["type"] == "state" })

	initials := "zed"
	sendFrame(t, conn, "settings", settingsDTO{Initials: &initials})
	readUntil(t, conn, func(f map[string]any) bool {
		return f["type"] == "state" && f["context"].(map[string]any)["initials"] == "ZED"
	})

	sess.Mu.Lock()
	sess.Score = 310
	sess.DamagePlayer(10000, 0, "test")
	sess.Mu.Unlock()

	saving := readUntil(t, conn, func(f map[string]any) bool { return f["type"] == "game_over" })
	assert.Equal(t, StatusSaving, saving["status"])
	assert.EqualValues(t, 310, saving["score"])

	final := readUntil(t, conn, func(f map[string]any) bool { return f["type"] == "game_over" && f["final"] == true })
	assert.Equal(t, StatusSaved, final["status"])

	rows, err := store.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, scores.Entry{ID: 1, Initials: "ZED", Score: 310}, rows[0])

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "server closes the socket after the final status")
}

func TestStreamProtoFrames(t *testing.T) {
	_, url := startTestServer(t, &recordingStore{})
	conn := dial(t, url+"?format=proto")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, msgType)

	var st structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &st))
	fields := st.AsMap()
	assert.Equal(t, "state", fields["type"])
	assert.EqualValues(t, 500, fields["me"].(map[string]any)["hp"])
}

func TestParseStreamParams(t *testing.T) {
	p := parseStreamParams(map[string][]string{
		"profile": {"ace"}, "format": {"PROTO"}, "w": {"-5"}, "h": {"900"}, "seed": {"12"},
	})
	assert.Equal(t, "ace", p.Profile)
	assert.True(t, p.Proto)
	assert.Equal(t, DefaultViewW, p.ViewW)
	assert.Equal(t, 900.0, p.ViewH)
	assert.EqualValues(t, 12, p.Seed)
}

func TestStreamTickerPeriods(t *testing.T) {
	assert.Equal(t, 16666666*time.Nanosecond, simStep)
	assert.Equal(t, 50*time.Millisecond, pushStep)
}

func TestSubmitStatus(t *testing.T) {
	assert.Equal(t, StatusSaved, submitStatus(nil))
	assert.Equal(t, StatusNetwork, submitStatus(context.DeadlineExceeded))
	assert.Equal(t, StatusSaveFailed, submitStatus(scores.ErrNoDatabase))
}
