// internal/httpserver/server.go
//
// HTTP server wiring for the towers simulator.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", presets.
//   - Stateless endpoints: POST /compile, POST /frame.
//   - Playback sessions (optional auth): /sessions/*.
//   - Leaderboard and auth routes are mounted from their own files.
//
// Notes:
//   - Handlers only copy compiler/sequencer results into JSON; no puzzle logic lives here.
//   - Compile failures are user-input errors: they answer 200 with ok=false.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/akonno/HanoiSimulator/assets"
	"github.com/akonno/HanoiSimulator/internal/auth"
	"github.com/akonno/HanoiSimulator/internal/config"
	"github.com/akonno/HanoiSimulator/internal/hanoi"
	"github.com/akonno/HanoiSimulator/internal/playback"
	"github.com/akonno/HanoiSimulator/internal/records"
	"github.com/akonno/HanoiSimulator/internal/store"
)

const maxBodyBytes = 1 << 20

// Server bundles router, session store, and DB-backed services.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	sessions store.Store
	records  *records.Store
	auth     *auth.Service
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sessions: st,
		records:  records.NewStore(db),
		auth:     auth.NewService(db, cfg.JWTSecret, cfg.TokenLifetime()),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"hanoi-simulator","endpoints":["/health","POST /compile","POST /frame","/sessions/*","/presets","/leaderboard","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.sessions.Len()})
	})

	// Stateless compile/sequence
	s.r.Post("/compile", s.handleCompile)
	s.r.Post("/frame", s.handleFrame)

	// Presets
	s.r.Get("/presets", s.handlePresets)
	s.r.Get("/presets/{name}", s.handlePreset)

	// Sessions: optional auth (guests can play, solves are attributed when signed in)
	s.r.With(s.withOptionalAuth()).Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.sessionCtx)
			r.Get("/", s.handleSessionState)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/compile", s.handleSessionCompile)
			r.Post("/play", s.handlePlay)
			r.Post("/pause", s.handlePause)
			r.Post("/reset", s.handleReset)
			r.Post("/tick", s.handleTick)
		})
	})

	s.mountLeaderboard()
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	lvl := zerolog.DebugLevel
	if status >= http.StatusInternalServerError {
		lvl = zerolog.ErrorLevel
	}
	hlog.FromRequest(r).WithLevel(lvl).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ COMPILE ------------------------------------

// compileReq is shared by /compile, /frame and /sessions.
type compileReq struct {
	Commands string `json:"commands"`
	Disks    *int   `json:"disks"`
	Step     int    `json:"step"`
}

type compileRes struct {
	OK         bool         `json:"ok"`
	Moves      []hanoi.Move `json:"moves"`
	TotalMoves int          `json:"totalMoves"`
	TotalSteps int          `json:"totalSteps"`
	Solved     bool         `json:"solved"`
	Optimal    bool         `json:"optimal"`
}

// compileFailure mirrors hanoi.CompileError for the UI.
type compileFailure struct {
	OK      bool       `json:"ok"`
	Kind    string     `json:"kind"`
	Line    int        `json:"line"`
	Lines   []int      `json:"lines,omitempty"`
	Peg     *hanoi.Peg `json:"peg,omitempty"`
	Disk    *int       `json:"disk,omitempty"`
	Message string     `json:"message"`
}

func newCompileFailure(ce *hanoi.CompileError) compileFailure {
	f := compileFailure{Kind: ce.KindName(), Line: ce.Line, Lines: ce.Lines, Message: ce.Error()}
	switch {
	case errors.Is(ce, hanoi.ErrEmptySource):
		f.Peg = &ce.Peg
	case errors.Is(ce, hanoi.ErrSizeViolation):
		f.Peg, f.Disk = &ce.Peg, &ce.Disk
	}
	return f
}

// writeCompileError answers a failed compile. Only *hanoi.CompileError is a user error.
func writeCompileError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *hanoi.CompileError
	if errors.As(err, &ce) {
		hlog.FromRequest(r).Info().Str("kind", ce.KindName()).Int("line", ce.Line).Msg("compile rejected")
		writeJSON(w, http.StatusOK, newCompileFailure(ce))
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// diskCount resolves an optional requested disk count against config bounds.
func (s *Server) diskCount(req *int) (int, error) {
	if req == nil {
		return s.cfg.Disks, nil
	}
	if *req < 0 || *req > s.cfg.MaxDisks {
		return 0, errors.New("disks_out_of_range")
	}
	return *req, nil
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileReq
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := s.diskCount(req.Disks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := hanoi.Compile(req.Commands, n)
	if err != nil {
		writeCompileError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, compileRes{
		OK:         true,
		Moves:      p.Moves,
		TotalMoves: p.Len(),
		TotalSteps: p.TotalSteps(s.cfg.Geometry.StepsPerPhase),
		Solved:     p.Solved(),
		Optimal:    p.Optimal(),
	})
}

type frameRes struct {
	OK    bool        `json:"ok"`
	Frame hanoi.Frame `json:"frame"`
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var req compileReq
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := s.diskCount(req.Disks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Step < 0 {
		writeError(w, http.StatusBadRequest, "negative_step")
		return
	}
	p, err := hanoi.Compile(req.Commands, n)
	if err != nil {
		writeCompileError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, frameRes{OK: true, Frame: hanoi.Advance(p, req.Step, s.cfg.Geometry)})
}

// ------------------------------ PRESETS ------------------------------------

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	names, err := assets.PresetNames()
	if err != nil {
		log.Error().Err(err).Msg("list presets")
		writeError(w, http.StatusInternalServerError, "presets_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"presets": names})
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	text, err := assets.Preset(name)
	if err != nil {
		if errors.Is(err, assets.ErrUnknownPreset) {
			writeError(w, http.StatusNotFound, "unknown_preset")
			return
		}
		writeError(w, http.StatusInternalServerError, "presets_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name, "commands": text})
}

// ------------------------------ SESSIONS -----------------------------------

type ctxSessionKey struct{}

// sessionCtx loads the {id} session into the request context.
func (s *Server) sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, c)))
	})
}

func sessionFrom(r *http.Request) *playback.Controller {
	c, _ := r.Context().Value(ctxSessionKey{}).(*playback.Controller)
	return c
}

// sessionRes is the UI-facing view of a session.
type sessionRes struct {
	SessionID string          `json:"sessionId"`
	Status    playback.Status `json:"status"`
	Frame     hanoi.Frame     `json:"frame"`
}

func writeSession(w http.ResponseWriter, c *playback.Controller) {
	writeJSON(w, http.StatusOK, sessionRes{SessionID: c.ID, Status: c.Status(), Frame: c.Frame()})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req compileReq
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	n, err := s.diskCount(req.Disks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c := playback.New(n, s.cfg.Geometry)
	if err := s.sessions.Save(r.Context(), c); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Debug().Str("session", c.ID).Int("disks", n).Msg("session created")
	writeJSON(w, http.StatusCreated, sessionRes{SessionID: c.ID, Status: c.Status(), Frame: c.Frame()})
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	writeSession(w, sessionFrom(r))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	if err := s.sessions.Delete(r.Context(), c.ID); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionCompileRes struct {
	sessionRes
	Compile any `json:"compile"`
}

func (s *Server) handleSessionCompile(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	var req compileReq
	if !decodeJSON(w, r, &req) {
		return
	}
	res := sessionCompileRes{}
	sum, err := c.Compile(req.Commands)
	if err != nil {
		var ce *hanoi.CompileError
		if !errors.As(err, &ce) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hlog.FromRequest(r).Info().Str("session", c.ID).Str("kind", ce.KindName()).Int("line", ce.Line).Msg("compile rejected")
		res.Compile = newCompileFailure(ce)
	} else {
		hlog.FromRequest(r).Info().Str("session", c.ID).Int("moves", sum.TotalMoves).Bool("solved", sum.Solved).Msg("compiled")
		res.Compile = struct {
			OK bool `json:"ok"`
			playback.Summary
		}{OK: true, Summary: sum}
	}
	res.sessionRes = sessionRes{SessionID: c.ID, Status: c.Status(), Frame: c.Frame()}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	if err := c.Play(); err != nil {
		writeError(w, http.StatusConflict, "no_program")
		return
	}
	writeSession(w, c)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	c.Pause()
	writeSession(w, c)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	c.Reset()
	writeSession(w, c)
}

type tickReq struct {
	Frames *int `json:"frames"`
}

const maxTickFrames = 1 << 20

// handleTick advances the clock; finishing a solving program records it once.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	var req tickReq
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	frames := 1
	if req.Frames != nil {
		frames = *req.Frames
	}
	if frames < 0 || frames > maxTickFrames {
		writeError(w, http.StatusBadRequest, "frames_out_of_range")
		return
	}
	if c.Tick(frames) {
		s.recordSolve(w, r, c)
	}
	writeSession(w, c)
}

// recordSolve persists a finished solve, best effort.
func (s *Server) recordSolve(w http.ResponseWriter, r *http.Request, c *playback.Controller) {
	p, ok := c.ClaimSolve()
	if !ok || p.DiskCount == 0 {
		return
	}
	solve := records.Solve{DiskCount: p.DiskCount, Moves: p.Len(), Optimal: p.Optimal()}
	if me := userFrom(r); me != nil {
		solve.UserID = me.ID
	} else {
		solve.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.records.Insert(r.Context(), solve); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("session", c.ID).Msg("record solve")
		return
	}
	hlog.FromRequest(r).Info().Str("session", c.ID).Int("disks", solve.DiskCount).Int("moves", solve.Moves).Msg("solve recorded")
}

// ------------------------------- small util --------------------------------

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
