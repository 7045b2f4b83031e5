// internal/httpserver/server.go
//
// HTTP server wiring for the Chomp backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts, CORS).
//   - Browser client: "/", "/styles.css", "/script.js".
//   - Game endpoints: POST /start, GET /get_board_state, POST /remove,
//     POST /computer_move, POST /undo, POST /lost.
//   - Diagnostics: GET /health; finished-game stats under /stats (when a
//     results store is configured).
//   - Session cookie: one live game per browser session.
//
// Notes:
//   - Successful game responses are JSON; failures are plain text with a
//     non-2xx status, which the client shows verbatim.
//   - A panic inside a handler (e.g. a broken board invariant) fails that
//     request with 500 and leaves the process running.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/Shak2000/ChompSolver/assets"
	"github.com/Shak2000/ChompSolver/internal/game"
	"github.com/Shak2000/ChompSolver/internal/results"
	"github.com/Shak2000/ChompSolver/internal/session"
	"github.com/Shak2000/ChompSolver/internal/store"
)

// Options carries the HTTP-facing settings.
type Options struct {
	ClientOrigin   string
	SessionCookie  string
	RequestTimeout time.Duration
	Limits         session.Limits
}

// Server bundles router, session registry, opponent search and results log.
type Server struct {
	r        *chi.Mux
	store    store.Store
	searcher session.Searcher
	results  *results.Store // nil disables recording and /stats
	opts     Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, searcher session.Searcher, res *results.Store, opts Options) *Server {
	if opts.SessionCookie == "" {
		opts.SessionCookie = "chomp_session"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	s := &Server{r: chi.NewRouter(), store: st, searcher: searcher, results: res, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))        // request-scoped logger
	s.r.Use(requestIDLogField)                  // tag it with the chi request id
	s.r.Use(hlog.AccessHandler(accessLog))      // one line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- client ---
	static := assets.Handler()
	s.r.Get("/", static.ServeHTTP)
	s.r.Get("/styles.css", static.ServeHTTP)
	s.r.Get("/script.js", static.ServeHTTP)

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len()})
	})

	// --- game ---
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Post("/start", s.handleStart)
		r.Get("/get_board_state", s.handleBoardState)
		r.Post("/remove", s.handleRemove)
		r.Post("/computer_move", s.handleComputerMove)
		r.Post("/undo", s.handleUndo)
		r.Post("/lost", s.handleLost)
	})

	if res != nil {
		s.mountStats(s.r)
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found: "+r.URL.Path, http.StatusNotFound)
	})
	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on game responses.
// http.Error replaces it with text/plain on failures.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestIDLogField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ session ------------------------------------

// sessionFor returns the caller's session, issuing a session cookie on first
// contact.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	id := s.ensureSessionID(w, r)
	return s.store.GetOrCreate(r.Context(), id, func(id string) *session.Session {
		hlog.FromRequest(r).Info().Str("session", id).Msg("new session")
		return session.New(id, s.searcher, s.opts.Limits)
	})
}

// ensureSessionID returns a valid session cookie value or sets a new one.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.opts.SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// ------------------------------ responses ----------------------------------

// startRes is the POST /start payload.
type startRes struct {
	Success       bool         `json:"success"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	Board         [][]bool     `json:"board"`
	CurrentPlayer game.Player  `json:"current_player"`
	Winner        *game.Player `json:"winner"`
}

// moveRes is the payload of /remove, /computer_move and /undo.
type moveRes struct {
	Success       bool         `json:"success"`
	Board         [][]bool     `json:"board"`
	CurrentPlayer game.Player  `json:"current_player"`
	Winner        *game.Player `json:"winner"`
}

// boardStateRes is the GET /get_board_state payload. Rem is the number of
// cells left, poison included.
type boardStateRes struct {
	Board         [][]bool    `json:"board"`
	Rows          int         `json:"rows"`
	Cols          int         `json:"cols"`
	CurrentPlayer game.Player `json:"current_player"`
	Rem           int         `json:"rem"`
}

func winnerOf(st game.State) *game.Player {
	if st.Winner == game.NoPlayer {
		return nil
	}
	w := st.Winner
	return &w
}

func newMoveRes(st game.State) moveRes {
	return moveRes{
		Success:       true,
		Board:         st.Board.Grid(),
		CurrentPlayer: st.Current,
		Winner:        winnerOf(st),
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrInvalidDimensions):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNothingToUndo),
		errors.Is(err, game.ErrNoMoveAvailable),
		errors.Is(err, game.ErrConcurrentModification),
		errors.Is(err, game.ErrNoGame):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError sends err as a plain-text failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	ev := hlog.FromRequest(r).Debug()
	if code == http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Err(err).Int("status", code).Msg("request failed")
	http.Error(w, err.Error(), code)
}

// intParam parses a required integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("missing query parameter " + name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("query parameter " + name + " must be an integer")
	}
	return n, nil
}

// ------------------------------- GAME --------------------------------------

// handleStart starts a fresh rows × cols game for the session.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	rows, err := intParam(r, "rows")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cols, err := intParam(r, "cols")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := s.sessionFor(w, r)
	st, err := sess.Start(rows, cols)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(startRes{
		Success:       true,
		Rows:          st.Rows(),
		Cols:          st.Cols(),
		Board:         st.Board.Grid(),
		CurrentPlayer: st.Current,
		Winner:        winnerOf(st),
	})
}

// handleBoardState returns the current board without changing it.
func (s *Server) handleBoardState(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessionFor(w, r).State()
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(boardStateRes{
		Board:         st.Board.Grid(),
		Rows:          st.Rows(),
		Cols:          st.Cols(),
		CurrentPlayer: st.Current,
		Rem:           st.Board.Remaining(),
	})
}

// handleRemove applies a human bite at column x, row y.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	col, err := intParam(r, "x")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	row, err := intParam(r, "y")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess := s.sessionFor(w, r)
	st, err := sess.Move(row, col)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.recordIfFinished(r, sess.ID, st)
	_ = json.NewEncoder(w).Encode(newMoveRes(st))
}

// handleComputerMove lets the solver play for the player to move.
func (s *Server) handleComputerMove(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	st, err := sess.ComputerMove(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.recordIfFinished(r, sess.ID, st)
	_ = json.NewEncoder(w).Encode(newMoveRes(st))
}

// handleUndo takes back the last move.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessionFor(w, r).Undo()
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(newMoveRes(st))
}

// handleLost reports whether only the poison square is left.
func (s *Server) handleLost(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.sessionFor(w, r).Lost())
}

// recordIfFinished logs a finished game (best effort, non-fatal if it fails).
func (s *Server) recordIfFinished(r *http.Request, sessionID string, st game.State) {
	if s.results == nil || st.Winner == game.NoPlayer {
		return
	}
	err := s.results.Record(r.Context(), results.Result{
		GameID:     st.GameID,
		SessionID:  sessionID,
		Rows:       st.Rows(),
		Cols:       st.Cols(),
		Winner:     int(st.Winner),
		Moves:      st.Moves,
		FinishedAt: time.Now(),
	})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("game", st.GameID).Msg("record result")
	}
}
