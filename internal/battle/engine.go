// Package battle resolves a fight between two assembled rosters, one action
// at a time, and records every turn for replay.
package battle

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

type unitRef struct {
	side  models.Side
	index int
}

// Engine owns one battle. It is not safe for concurrent use.
type Engine struct {
	id            string
	state         models.BattleState
	rng           Rand
	logger        *zap.Logger
	decay         troops.DecayConfig
	casualtySides map[models.Side]bool
	focus         string
	maxActions    int
	// owedHealth is health a captain lost that has not yet cost a whole troop
	owedHealth map[string]int

	queue   []unitRef
	pos     int
	actions int

	turns   []models.BattleTurn
	current *models.BattleTurn
}

// Option configures an Engine
type Option func(*Engine)

// WithRand injects the random source
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds the default random source
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = NewRand(seed) }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCasualtySides selects the sides whose captains lose troops when hurt.
// Allies only by default.
func WithCasualtySides(sides ...models.Side) Option {
	return func(e *Engine) {
		e.casualtySides = make(map[models.Side]bool, len(sides))
		for _, s := range sides {
			e.casualtySides[s] = true
		}
	}
}

// WithDecayConfig sets the tuning used when troop bonuses are recomputed
func WithDecayConfig(cfg troops.DecayConfig) Option {
	return func(e *Engine) { e.decay = cfg }
}

// WithFocus sets a standing focus target for allied actors
func WithFocus(unitID string) Option {
	return func(e *Engine) { e.focus = unitID }
}

// WithMaxActions ends the battle as a draw once n actions have been resolved.
// 0 (the default) runs until one side is wiped out.
func WithMaxActions(n int) Option {
	return func(e *Engine) { e.maxActions = max(n, 0) }
}

// New starts a battle. Both rosters are copied; every unit starts at full
// health. Units without an ID, or sharing one, get a fresh ID.
func New(allies, enemies []models.BattleUnit, opts ...Option) *Engine {
	e := &Engine{
		id:            uuid.NewString(),
		logger:        zap.NewNop(),
		decay:         troops.DefaultDecayConfig(),
		casualtySides: map[models.Side]bool{models.Allies: true},
		owedHealth:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newTimeRand()
	}

	seen := make(map[string]bool, len(allies)+len(enemies))
	e.state = models.BattleState{
		Allies:      prepareRoster(allies, models.Allies, seen),
		Enemies:     prepareRoster(enemies, models.Enemies, seen),
		CurrentTurn: 1,
	}
	e.buildQueue()
	e.checkEnd()

	e.logger.Debug("battle started",
		zap.String("battle", e.id),
		zap.Int("allies", len(e.state.Allies)),
		zap.Int("enemies", len(e.state.Enemies)),
	)
	return e
}

func prepareRoster(units []models.BattleUnit, side models.Side, seen map[string]bool) []models.BattleUnit {
	out := make([]models.BattleUnit, len(units))
	for i := range units {
		u := units[i].Clone()
		u.Side = side
		u.MaxHealth = max(u.MaxHealth, 0)
		u.CurrentHealth = u.MaxHealth
		u.IsAlive = u.MaxHealth > 0
		if u.ID == "" || seen[u.ID] {
			u.ID = uuid.NewString()
		}
		seen[u.ID] = true
		out[i] = u
	}
	return out
}

// ID identifies the battle
func (e *Engine) ID() string { return e.id }

func (e *Engine) unit(ref unitRef) *models.BattleUnit {
	if ref.side == models.Enemies {
		return &e.state.Enemies[ref.index]
	}
	return &e.state.Allies[ref.index]
}

// buildQueue orders the living units of both sides by speed, fastest first.
// Equal speeds keep roster order, allies before enemies.
func (e *Engine) buildQueue() {
	e.queue = e.queue[:0]
	for i := range e.state.Allies {
		if e.state.Allies[i].IsAlive {
			e.queue = append(e.queue, unitRef{side: models.Allies, index: i})
		}
	}
	for i := range e.state.Enemies {
		if e.state.Enemies[i].IsAlive {
			e.queue = append(e.queue, unitRef{side: models.Enemies, index: i})
		}
	}
	sort.SliceStable(e.queue, func(i, j int) bool {
		return e.unit(e.queue[i]).Attributes.Speed > e.unit(e.queue[j]).Attributes.Speed
	})
	e.pos = 0
}

// QueueOrder returns the unit IDs of the current pass in acting order
func (e *Engine) QueueOrder() []string {
	ids := make([]string, len(e.queue))
	for i, ref := range e.queue {
		ids[i] = e.unit(ref).ID
	}
	return ids
}

// skipDead moves the queue pointer to the next living actor
func (e *Engine) skipDead() {
	for e.pos < len(e.queue) && !e.unit(e.queue[e.pos]).IsAlive {
		e.pos++
	}
}

func (e *Engine) openTurn() {
	if e.current != nil {
		return
	}
	e.current = &models.BattleTurn{
		Number: e.state.CurrentTurn,
		Before: e.state.Clone(),
	}
}

func (e *Engine) closeTurn() {
	if e.current == nil {
		return
	}
	e.current.After = e.state.Clone()
	e.turns = append(e.turns, *e.current)
	e.current = nil
}

// endPass closes the running turn and starts the next pass over the queue
func (e *Engine) endPass() {
	e.closeTurn()
	e.state.CurrentTurn++
	e.buildQueue()
}

func (e *Engine) finish(winner models.Side) {
	e.state.IsFinished = true
	e.state.Winner = winner
	e.closeTurn()
	e.logger.Debug("battle finished",
		zap.String("battle", e.id),
		zap.Stringer("winner", winner),
		zap.Int("turn", e.state.CurrentTurn),
		zap.Int("actions", e.actions),
	)
}

// checkEnd finishes the battle once a side has no living units
func (e *Engine) checkEnd() {
	if e.state.IsFinished {
		return
	}
	alliesUp := e.state.Living(models.Allies) > 0
	enemiesUp := e.state.Living(models.Enemies) > 0
	switch {
	case !alliesUp && !enemiesUp:
		e.finish(models.SideNone)
	case !alliesUp:
		e.finish(models.Enemies)
	case !enemiesUp:
		e.finish(models.Allies)
	}
}

// selectTarget returns the living opponent with the lowest current health,
// or the focused unit when an allied actor names one that is still alive.
func (e *Engine) selectTarget(actor *models.BattleUnit, focusID string) *models.BattleUnit {
	opponents := e.state.Enemies
	if actor.Side == models.Enemies {
		opponents = e.state.Allies
	}

	if actor.Side == models.Allies && focusID != "" {
		for i := range opponents {
			if opponents[i].ID == focusID && opponents[i].IsAlive {
				return &opponents[i]
			}
		}
	}

	var target *models.BattleUnit
	for i := range opponents {
		u := &opponents[i]
		if !u.IsAlive {
			continue
		}
		if target == nil || u.CurrentHealth < target.CurrentHealth {
			target = u
		}
	}
	return target
}

// applyDamage removes health from target and returns how much was lost.
// Captains on a casualty side shed troops in proportion.
func (e *Engine) applyDamage(target *models.BattleUnit, damage int) int {
	lost := min(max(damage, 0), target.CurrentHealth)
	target.CurrentHealth -= lost
	if target.CurrentHealth <= 0 {
		target.CurrentHealth = 0
		target.IsAlive = false
	}

	if lost > 0 && target.Troops != nil && e.casualtySides[target.Side] {
		owed := e.owedHealth[target.ID] + lost
		remaining, losses := troops.ApplyCasualties(*target.Troops, owed)
		if losses.IsEmpty() {
			// chip damage adds up until it kills a troop
			e.owedHealth[target.ID] = owed
		} else {
			delete(e.owedHealth, target.ID)
			target.Troops = &remaining
			target.TroopBonus = troops.Aggregate(remaining, troops.ModeFor(target.Side), e.decay).Attributes
			e.logger.Debug("troop casualties",
				zap.String("captain", target.Name),
				zap.Int("health_lost", owed),
				zap.Int("lost", losses.Total()),
				zap.Int("remaining", remaining.Total()),
			)
		}
	}

	e.checkUnit(target)
	return lost
}

func (e *Engine) checkUnit(u *models.BattleUnit) {
	if u.CurrentHealth < 0 || u.CurrentHealth > u.MaxHealth {
		e.logger.DPanic("health out of bounds",
			zap.String("unit", u.ID),
			zap.Int("health", u.CurrentHealth),
			zap.Int("max", u.MaxHealth),
		)
	}
	if u.IsAlive != (u.CurrentHealth > 0) {
		e.logger.DPanic("alive flag disagrees with health",
			zap.String("unit", u.ID),
			zap.Bool("alive", u.IsAlive),
			zap.Int("health", u.CurrentHealth),
		)
	}
}

func describe(actor, target *models.BattleUnit, out Outcome) string {
	verb := "attacks"
	if actor.Role == models.Magical {
		verb = "casts at"
	}
	switch {
	case !out.Hit:
		return fmt.Sprintf("%s %s %s and misses", actor.Name, verb, target.Name)
	case out.Critical:
		return fmt.Sprintf("%s %s %s for %d damage (critical)", actor.Name, verb, target.Name, out.Damage)
	default:
		return fmt.Sprintf("%s %s %s for %d damage", actor.Name, verb, target.Name, out.Damage)
	}
}

// ExecuteSingleAction lets the next unit in the queue act. focusID, when set,
// overrides target selection for allied actors; empty falls back to the
// engine's standing focus. Returns false once the battle is finished,
// including when an action limit set by WithMaxActions ends it as a draw.
func (e *Engine) ExecuteSingleAction(focusID string) (models.BattleAction, bool) {
	if e.state.IsFinished {
		return models.BattleAction{}, false
	}
	if e.maxActions > 0 && e.actions >= e.maxActions {
		e.logger.Warn("action limit reached, ending in a draw",
			zap.String("battle", e.id),
			zap.Int("actions", e.actions),
		)
		e.finish(models.SideNone)
		return models.BattleAction{}, false
	}
	if focusID == "" {
		focusID = e.focus
	}

	e.skipDead()
	if e.pos >= len(e.queue) {
		e.endPass()
		e.skipDead()
		if e.pos >= len(e.queue) {
			e.checkEnd()
			return models.BattleAction{}, false
		}
	}

	e.openTurn()
	actor := e.unit(e.queue[e.pos])
	if !actor.IsAlive {
		e.logger.DPanic("dead unit selected to act", zap.String("unit", actor.ID))
	}

	target := e.selectTarget(actor, focusID)
	if target == nil {
		e.checkEnd()
		return models.BattleAction{}, false
	}

	out := Resolve(actor.Role, actor.Attributes, target.Attributes, e.rng)
	if out.Hit {
		e.applyDamage(target, out.Damage)
	}

	action := models.BattleAction{
		Turn:        e.state.CurrentTurn,
		Type:        models.ActionTypeFor(actor.Role),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorSide:   actor.Side,
		TargetID:    target.ID,
		TargetName:  target.Name,
		Damage:      out.Damage,
		Hit:         out.Hit,
		Critical:    out.Critical,
		TargetDied:  out.Hit && !target.IsAlive,
		Description: describe(actor, target, out),
	}
	e.current.Actions = append(e.current.Actions, action)
	e.actions++
	e.pos++

	e.logger.Debug("action",
		zap.Int("turn", action.Turn),
		zap.String("actor", action.ActorName),
		zap.String("target", action.TargetName),
		zap.Bool("hit", action.Hit),
		zap.Bool("critical", action.Critical),
		zap.Int("damage", action.Damage),
	)

	e.checkEnd()
	if !e.state.IsFinished {
		e.skipDead()
		if e.pos >= len(e.queue) {
			e.endPass()
		}
	}
	return action, true
}

// ExecuteTurn runs actions until the current pass over the queue is done
// and returns its record. A finished battle returns an empty turn.
func (e *Engine) ExecuteTurn() models.BattleTurn {
	if e.state.IsFinished {
		return models.BattleTurn{}
	}
	closed := len(e.turns)
	for len(e.turns) == closed && !e.state.IsFinished {
		if _, ok := e.ExecuteSingleAction(""); !ok {
			break
		}
	}
	if len(e.turns) == closed {
		return models.BattleTurn{}
	}
	return e.turns[len(e.turns)-1]
}

// ExecuteBattle runs the battle to completion. Every hit deals at least 1
// damage and hit chances never reach 0, so it terminates without a limit.
func (e *Engine) ExecuteBattle() models.BattleResult {
	for !e.state.IsFinished {
		if _, ok := e.ExecuteSingleAction(""); !ok {
			break
		}
	}
	return e.Result()
}

// IsFinished reports whether the battle has a final outcome
func (e *Engine) IsFinished() bool { return e.state.IsFinished }

// State returns a snapshot of the battle
func (e *Engine) State() models.BattleState { return e.state.Clone() }

// Turns returns the completed turns
func (e *Engine) Turns() []models.BattleTurn {
	out := make([]models.BattleTurn, len(e.turns))
	copy(out, e.turns)
	return out
}

// Actions returns how many actions have been resolved
func (e *Engine) Actions() int { return e.actions }
