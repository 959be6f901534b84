package game

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
)

// reseedStream selects the PCG stream used to derive a new round's seed.
const reseedStream = 0x9e3779b97f4a7c15

// Engine runs the session state machine. It holds only immutable
// configuration, so one Engine may drive any number of sessions.
type Engine struct {
	entity   config.EntityConfig
	physics  Physics
	gen      Generator
	collider Collider
	scaler   config.Scaler
	delay    time.Duration
	seed     uint64
}

// NewEngine creates an engine. seed fixes the obstacle layout of the first
// round; later rounds derive their seeds from it.
func NewEngine(cfg config.Config, seed uint64) *Engine {
	return &Engine{
		entity:   cfg.Entity,
		physics:  NewPhysics(cfg.Physics),
		gen:      NewGenerator(cfg.Obstacles),
		collider: NewCollider(cfg.Entity.HitboxInset),
		scaler:   config.NewScaler(cfg.Difficulty),
		delay:    cfg.Physics.ActivationDelay,
		seed:     seed,
	}
}

// Collider returns the collision detector used by the engine.
func (e *Engine) Collider() Collider {
	return e.collider
}

// NewState returns a session waiting for a player name.
func (e *Engine) NewState(width, height float64) State {
	s := State{
		Phase:     PhaseAwaitingIdentity,
		Playfield: Playfield{Width: width, Height: height},
		Seed:      e.seed,
	}
	return e.freshRound(s)
}

// Step applies one input and returns the next state together with the
// events the host should act on. Inputs that are not valid in the current
// phase leave the state unchanged and produce no events.
func (e *Engine) Step(s State, in Input) (State, []Event) {
	switch in.Action {
	case core.ActionTick:
		return e.tick(s, in)
	case core.ActionActivate:
		if s.Phase == PhasePlaying {
			return e.jump(s, in)
		}
		return e.start(s, in)
	case core.ActionStart:
		return e.start(s, in)
	case core.ActionJump:
		return e.jump(s, in)
	case core.ActionIdentify:
		return e.identify(s, in)
	case core.ActionReset:
		if s.Phase != PhaseTerminated {
			return s, nil
		}
		return e.reset(s), []Event{EventReset{}}
	case core.ActionChangePlayer:
		return e.changePlayer(s)
	case core.ActionResize:
		return e.resize(s, in), nil
	case core.ActionSubmitSucceeded:
		if s.Submit == SubmitPending {
			s.Submit = SubmitDone
		}
		return s, nil
	case core.ActionSubmitFailed:
		if s.Submit == SubmitPending {
			s.Submit = SubmitFailed
		}
		return s, nil
	case core.ActionRetrySubmit:
		if s.Submit != SubmitFailed {
			return s, nil
		}
		s.Submit = SubmitPending
		return s, []Event{EventSubmitScore{Record: s.Submitted}}
	}
	return s, nil
}

func (e *Engine) identify(s State, in Input) (State, []Event) {
	if s.Phase != PhaseAwaitingIdentity {
		return s, nil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return s, []Event{EventNameRequired{}}
	}

	switch in.Check {
	case NameTaken:
		return s, []Event{EventNameConflict{Name: name}}
	case NameCheckFailed:
		return s, []Event{EventNameCheckFailed{Name: name}}
	}

	s.PlayerName = name
	s.Phase = PhaseIdle
	return s, []Event{EventIdentified{Name: name}}
}

func (e *Engine) start(s State, in Input) (State, []Event) {
	switch s.Phase {
	case PhaseAwaitingIdentity:
		return s, []Event{EventNameRequired{}}
	case PhaseTerminated:
		s = e.reset(s)
	case PhaseIdle:
		if s.Armed {
			return s, nil
		}
	default:
		return s, nil
	}

	s.Armed = true
	s.ArmedUntil = in.Now.Add(e.delay)
	s.Entity = e.physics.Centered(s.Entity, s.Playfield.Height)
	return s, []Event{EventArmed{Until: s.ArmedUntil}}
}

func (e *Engine) jump(s State, in Input) (State, []Event) {
	if s.Phase != PhasePlaying {
		return s, nil
	}
	ent, ok := e.physics.Impulse(s.Entity, in.Now, s.LastImpulse)
	if ok {
		s.Entity = ent
		s.LastImpulse = in.Now
	}
	return s, nil
}

func (e *Engine) tick(s State, in Input) (State, []Event) {
	switch s.Phase {
	case PhaseAwaitingIdentity, PhaseIdle:
		s.Frame++
		if !s.Armed {
			s.Entity = e.physics.Advance(s.Entity, false, s.Frame, s.Playfield.Height)
			return s, nil
		}
		s.Entity = e.physics.Centered(s.Entity, s.Playfield.Height)
		if in.Now.Before(s.ArmedUntil) {
			return s, nil
		}
		s.Armed = false
		s.Phase = PhasePlaying
		return s, []Event{EventStarted{}}
	case PhasePlaying:
		s.Frame++
		return e.play(s, in)
	}
	return s, nil
}

// play advances a live round by one tick.
func (e *Engine) play(s State, in Input) (State, []Event) {
	var events []Event
	s.Tick++

	// Full slice expression forces append to copy instead of writing into
	// the caller's backing array.
	obs := s.Obstacles[:len(s.Obstacles):len(s.Obstacles)]
	if o, ok := e.gen.MaybeSpawn(s.Seed, s.Tick, s.Difficulty.SpawnInterval, s.Playfield, s.Difficulty.GapSize); ok {
		obs = append(obs, o)
	}

	s.Entity = e.physics.Advance(s.Entity, true, s.Frame, s.Playfield.Height)

	obs, passed := AdvanceObstacles(obs, s.Difficulty.Speed, s.Entity.X)
	s.Obstacles = obs

	if passed > 0 {
		s.Score += passed
		s.Best = max(s.Best, s.Score)
		s.Difficulty = e.scaler.Scale(s.Score)
		events = append(events, EventScored{Score: s.Score, Best: s.Best})
	}

	if e.collider.Collides(s.Entity, s.Obstacles, s.Playfield.Height) {
		s.Phase = PhaseTerminated
		s.Entity.Velocity = 0
		events = append(events, EventTerminated{Score: s.Score, Best: s.Best})

		if s.Submit == SubmitNone && s.Score > 0 && s.PlayerName != "" {
			s.Submit = SubmitPending
			s.Submitted = Record{Name: s.PlayerName, Score: s.Score, Date: in.Now}
			events = append(events, EventSubmitScore{Record: s.Submitted})
		}
	}

	return s, events
}

// reset prepares a new round, keeping the player and their best score.
func (e *Engine) reset(s State) State {
	next := State{
		Phase:      PhaseIdle,
		PlayerName: s.PlayerName,
		Best:       s.Best,
		Playfield:  s.Playfield,
		Frame:      s.Frame,
		Seed:       rand.New(rand.NewPCG(s.Seed, reseedStream)).Uint64(),
	}
	return e.freshRound(next)
}

func (e *Engine) changePlayer(s State) (State, []Event) {
	if s.Phase != PhaseIdle && s.Phase != PhaseTerminated {
		return s, nil
	}
	next := e.reset(s)
	next.Phase = PhaseAwaitingIdentity
	next.PlayerName = ""
	next.Best = 0
	return next, []Event{EventPlayerCleared{}}
}

func (e *Engine) resize(s State, in Input) State {
	if in.Width <= 0 || in.Height <= 0 {
		return s
	}
	s.Playfield = Playfield{Width: in.Width, Height: in.Height}
	s.Entity = e.physics.Centered(s.Entity, s.Playfield.Height)
	return s
}

// freshRound sizes and centres the entity and zeroes the difficulty.
func (e *Engine) freshRound(s State) State {
	w, h := e.entity.Width, e.entity.Height
	if s.Playfield.Width < e.entity.SmallDeviceWidth {
		w, h = e.entity.SmallWidth, e.entity.SmallHeight
	}
	s.Entity = e.physics.Centered(Entity{X: e.entity.X, Width: w, Height: h}, s.Playfield.Height)
	s.Difficulty = e.scaler.Initial()
	return s
}
