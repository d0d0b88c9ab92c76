package game

import (
	"math/rand"
	"sync"
)

// SessionContext is the per-session replacement for global preferences.
type SessionContext struct {
	SFXEnabled   bool
	MusicEnabled bool
	DisplayName  string
}

// Session is one play-through: a player, the encounter director state and a
// world. All mutation happens under Mu from the tick loop or the socket
// reader.
type Session struct {
	ID         string
	Ticks      uint64
	Now        float64
	World      *World
	Tuning     *Tuning
	Context    SessionContext
	Camera     Camera
	Difficulty *Difficulty
	Spawner    *SpawnPointSelector
	Loot       *LootResolver
	Objectives ObjectiveCycle
	Events     *Scheduler
	Player     EntityID
	Score      int
	Paused     bool
	Mu         sync.Mutex

	spawnTable    SpawnTable
	rng           *rand.Rand
	lastSpawnTick uint64
	nextSpawnTick uint64
	spawnMissed   bool
	over          bool
	closed        bool
	report        TickReport
	backlog       TickReport
}

// NewSession builds a session with the player at the world origin and the
// first objective placed.
func NewSession(id string, tuning *Tuning, ctx SessionContext, seed int64) *Session {
	if tuning == nil {
		t := SanitizeTuning(DefaultTuning())
		tuning = &t
	}
	rng := rand.New(rand.NewSource(seed))
	s := &Session{
		ID:         id,
		World:      newWorld(),
		Tuning:     tuning,
		Context:    ctx,
		Camera:     Camera{ViewW: DefaultViewW, ViewH: DefaultViewH},
		Difficulty: NewDifficulty(tuning.Difficulty),
		Spawner:    NewSpawnPointSelector(WorldRect(), tuning.SpawnRing, rng),
		Loot:       NewLootResolver(tuning.Loot, rng.Float64),
		Events:     NewScheduler(),
		spawnTable: tuning.SpawnTable(),
		rng:        rng,
	}
	s.Player = s.spawnPlayer(Vec2{})
	s.nextSpawnTick = ticksFor(s.Difficulty.SpawnIntervalMs)
	s.spawnObjectiveOrRetry()
	return s
}

// Tick advances the session by one fixed step and returns what happened.
func (s *Session) Tick() TickReport {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.step()
}

func (s *Session) step() TickReport {
	if s.Paused || s.over {
		return s.flush()
	}
	s.Ticks++
	s.Now = float64(s.Ticks) / SimHz

	if s.Difficulty.Advance(1000/SimHz) > 0 {
		s.nextSpawnTick = s.lastSpawnTick + ticksFor(s.Difficulty.SpawnIntervalMs)
	}
	if s.Ticks >= s.nextSpawnTick {
		s.spawnMissed = false
		s.trySpawnEnemy()
		if s.spawnMissed {
			s.nextSpawnTick = s.Ticks + 1
		} else {
			s.lastSpawnTick = s.Ticks
			s.nextSpawnTick = s.Ticks + ticksFor(s.Difficulty.SpawnIntervalMs)
		}
	}

	s.runDueEvents()
	if s.over {
		return s.flush()
	}
	s.updatePlayer()
	s.updateEnemies()
	s.integrate(Dt)
	if !s.resolveContacts() {
		return s.flush()
	}
	s.maintainObjective()
	if pos, ok := s.playerPos(); ok {
		s.Camera.Center = pos
	}

	return s.flush()
}

// flush hands over what was reported since the last step, including damage
// applied outside the tick loop.
func (s *Session) flush() TickReport {
	out := s.report
	s.report = TickReport{}
	s.backlog.merge(out)
	return out
}

func (s *Session) runDueEvents() {
	for _, ev := range s.Events.PopDue(s.Ticks) {
		switch ev.Kind {
		case EvMeleeStrike, EvAttackEnd, EvRangedPauseEnd, EvHurtEnd, EvHitFlashEnd, EvStrafeFlip, EvEnemyDestroy:
			s.handleEnemyEvent(ev)
		case EvObjectiveDestroy, EvObjectiveRespawn:
			s.handleObjectiveEvent(ev)
		case EvInvulnerabilityEnd, EvBuffExpire:
			s.handlePlayerEvent(ev)
		}
	}
}

func (s *Session) cue(name string) {
	if s.Context.SFXEnabled {
		s.report.Cues = append(s.report.Cues, name)
	}
}

func (s *Session) endSession() {
	if s.over {
		return
	}
	s.over = true
	s.report.GameOver = true
	s.report.FinalScore = s.Score
	s.cue("game_over")
}

// Over reports whether the player has died.
func (s *Session) Over() bool { return s.over }

// Drain returns everything reported since the previous drain.
func (s *Session) Drain() TickReport {
	out := s.backlog
	s.backlog = TickReport{}
	return out
}

func (s *Session) SetPaused(paused bool) { s.Paused = paused }

// SetViewport updates the camera extents used by the spawn ring.
func (s *Session) SetViewport(w, h float64) {
	if w > 0 {
		s.Camera.ViewW = w
	}
	if h > 0 {
		s.Camera.ViewH = h
	}
}

// Close marks the session as abandoned so the hub can drop it.
func (s *Session) Close() {
	s.Mu.Lock()
	s.closed = true
	s.Mu.Unlock()
}

type Hub struct {
	Sessions map[string]*Session
	Tuning   *Tuning
	Mu       sync.Mutex
}

func NewHub(tuning Tuning) *Hub {
	t := SanitizeTuning(tuning)
	return &Hub{Sessions: map[string]*Session{}, Tuning: &t}
}

// Create registers a new session under id, replacing any previous one.
func (h *Hub) Create(id string, ctx SessionContext, seed int64) *Session {
	s := NewSession(id, h.Tuning, ctx, seed)
	h.Mu.Lock()
	h.Sessions[id] = s
	h.Mu.Unlock()
	return s
}

func (h *Hub) Get(id string) *Session {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.Sessions[id]
}

func (h *Hub) Remove(id string) {
	h.Mu.Lock()
	delete(h.Sessions, id)
	h.Mu.Unlock()
}

// CleanupEnded drops sessions that are over or abandoned and returns how
// many were removed.
func (h *Hub) CleanupEnded() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	removed := 0
	for id, s := range h.Sessions {
		s.Mu.Lock()
		done := s.closed || s.over
		s.Mu.Unlock()
		if done {
			delete(h.Sessions, id)
			removed++
		}
	}
	return removed
}
