package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/napolitain/battle-lnk/internal/assembly"
	"github.com/napolitain/battle-lnk/internal/battle"
	"github.com/napolitain/battle-lnk/internal/config"
	"github.com/napolitain/battle-lnk/internal/loader"
	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

const (
	maxBodyBytes = 1 << 20
	writeWait    = 10 * time.Second
)

// server resolves battles over HTTP. Every request builds its own engine;
// the catalog and scenarios are read-only after startup.
type server struct {
	cfg       config.Config
	catalog   *assembly.Catalog
	scenarios map[string]*models.BattleConfig
	logger    *zap.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// unitView is a catalog entry with the troop capacity its rating grants per level
type unitView struct {
	models.UnitDefinition
	TroopsPerLevel int `json:"troops_per_level"`
}

// streamMessage is one websocket frame of a streamed battle
type streamMessage struct {
	Type   string               `json:"type"`
	Turn   *models.BattleTurn   `json:"turn,omitempty"`
	Result *models.BattleResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.MethodNotAllowedHandler = s.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
	}))
	r.NotFoundHandler = s.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
	}))

	// Routes hang off the root router: a subrouter reports method mismatches as 404.
	r.HandleFunc("/api/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/units", s.handleUnits).Methods(http.MethodGet)
	r.HandleFunc("/api/units/{name}", s.handleUnit).Methods(http.MethodGet)
	r.HandleFunc("/api/scenarios", s.handleScenarios).Methods(http.MethodGet)
	r.HandleFunc("/api/scenarios/{name}", s.handleRunScenario).Methods(http.MethodPost)
	r.HandleFunc("/api/battles", s.handleBattle).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"units":     s.catalog.Len(),
		"scenarios": len(s.scenarios),
	})
}

func view(def models.UnitDefinition) unitView {
	return unitView{UnitDefinition: def, TroopsPerLevel: troops.MaxTroops(1, def.Rarity)}
}

func (s *server) handleUnits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var preds []func(models.UnitDefinition) bool

	if v := q.Get("rarity"); v != "" {
		rarity, err := models.ParseRating(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		preds = append(preds, func(d models.UnitDefinition) bool { return d.Rarity == rarity })
	}
	if v := q.Get("role"); v != "" {
		role, err := models.ParseCombatRole(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		preds = append(preds, func(d models.UnitDefinition) bool { return d.Role == role })
	}
	for _, bound := range []struct {
		param string
		keep  func(level, limit int) bool
	}{
		{"min_level", func(level, limit int) bool { return level >= limit }},
		{"max_level", func(level, limit int) bool { return level <= limit }},
	} {
		v := q.Get(bound.param)
		if v == "" {
			continue
		}
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %w", bound.param, err))
			return
		}
		keep := bound.keep
		preds = append(preds, func(d models.UnitDefinition) bool { return keep(d.Level, limit) })
	}

	defs := s.catalog.Filter(func(d models.UnitDefinition) bool {
		for _, p := range preds {
			if !p(d) {
				return false
			}
		}
		return true
	})
	units := make([]unitView, 0, len(defs))
	for _, d := range defs {
		units = append(units, view(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"units": units, "count": len(units)})
}

func (s *server) handleUnit(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	def, ok := s.catalog.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unit %q not in catalog", name))
		return
	}
	writeJSON(w, http.StatusOK, view(def))
}

func (s *server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	type scenarioView struct {
		Name    string `json:"name"`
		Allies  int    `json:"allies"`
		Enemies int    `json:"enemies"`
	}
	out := make([]scenarioView, 0, len(s.scenarios))
	for _, name := range loader.SortedNames(s.scenarios) {
		cfg := s.scenarios[name]
		out = append(out, scenarioView{Name: name, Allies: len(cfg.Allies), Enemies: len(cfg.Enemies)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": out})
}

// seedOption reads an optional ?seed= override
func seedOption(r *http.Request) ([]battle.Option, error) {
	v := r.URL.Query().Get("seed")
	if v == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return []battle.Option{battle.WithSeed(seed)}, nil
}

// newEngine builds an engine for cfg with the service defaults underneath
func (s *server) newEngine(cfg *models.BattleConfig, opts ...battle.Option) (*battle.Engine, error) {
	base := []battle.Option{battle.WithMaxActions(s.cfg.MaxActions)}
	if cfg.Seed == nil && s.cfg.Seed != 0 {
		base = append(base, battle.WithSeed(s.cfg.Seed))
	}
	return battle.FromConfig(cfg, s.catalog, battle.Setup{
		Base:          s.cfg.Decay(),
		CasualtySides: s.cfg.CasualtySides(),
		Logger:        s.logger,
	}, append(base, opts...)...)
}

func (s *server) runAndWrite(w http.ResponseWriter, r *http.Request, cfg *models.BattleConfig) {
	opts, err := seedOption(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	engine, err := s.newEngine(cfg, opts...)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	result := engine.ExecuteBattle()
	s.logger.Info("battle resolved",
		zap.String("battle", result.ID),
		zap.Stringer("winner", result.Winner),
		zap.Int("turns", result.TotalTurns),
	)
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleBattle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	cfg, err := models.ParseBattleConfigJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.runAndWrite(w, r, cfg)
}

func (s *server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cfg, ok := s.scenarios[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", name))
		return
	}
	s.runAndWrite(w, r, cfg)
}

// handleStream reads one battle file from the socket and answers with one
// message per turn followed by the result
func (s *server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	send := func(msg streamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			s.logger.Warn("websocket read failed", zap.Error(err))
		}
		return
	}
	cfg, err := models.ParseBattleConfigJSON(data)
	if err != nil {
		_ = send(streamMessage{Type: "error", Error: err.Error()})
		return
	}
	opts, err := seedOption(r)
	if err != nil {
		_ = send(streamMessage{Type: "error", Error: err.Error()})
		return
	}
	engine, err := s.newEngine(cfg, opts...)
	if err != nil {
		_ = send(streamMessage{Type: "error", Error: err.Error()})
		return
	}

	for !engine.IsFinished() {
		if r.Context().Err() != nil {
			return
		}
		turn := engine.ExecuteTurn()
		if turn.Number == 0 {
			break
		}
		if err := send(streamMessage{Type: "turn", Turn: &turn}); err != nil {
			s.logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}

	result := engine.Result()
	// turns were already streamed
	result.Turns = nil
	if err := send(streamMessage{Type: "result", Result: &result}); err != nil {
		s.logger.Warn("websocket write failed", zap.Error(err))
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func newServer(cfg config.Config, logger *zap.Logger) (*server, error) {
	catalog, err := loader.LoadCatalog(cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}
	scenarios, err := loader.LoadScenarios(cfg.ScenariosDir, logger)
	if err != nil {
		logger.Warn("no scenarios loaded", zap.Error(err))
		scenarios = map[string]*models.BattleConfig{}
	}
	return &server{cfg: cfg, catalog: catalog, scenarios: scenarios, logger: logger}, nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.Int("units", srv.catalog.Len()),
		zap.Int("scenarios", len(srv.scenarios)),
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("battle server listening", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
