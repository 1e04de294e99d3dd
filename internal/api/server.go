package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// Config configures the REST API server.
type Config struct {
	Addr string
	// Direct is the machine direction used when a request does not set one.
	Direct  bool
	Recipes *cipher.RecipeManager
	Logger  *logging.AuditLogger
}

// Server exposes the cipher machine and operation registry over HTTP.
type Server struct {
	cfg        Config
	recipes    *cipher.RecipeManager
	logger     *logging.AuditLogger
	router     *mux.Router
	httpServer *http.Server
}

// NewServer constructs a REST API server using the provided configuration.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("api address must be provided")
	}
	recipes := cfg.Recipes
	if recipes == nil {
		recipes = cipher.NewRecipeManager("")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:     cfg,
		recipes: recipes,
		logger:  logger.WithComponent("api"),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRequestID)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/vigenere/{action:encrypt|decrypt}", s.handleVigenere).Methods(http.MethodPost)
	v1.HandleFunc("/cipher/operations", s.handleListOperations).Methods(http.MethodGet)
	v1.HandleFunc("/cipher/execute", s.handleCipherExecute).Methods(http.MethodPost)
	v1.HandleFunc("/cipher/pipeline", s.handleCipherPipeline).Methods(http.MethodPost)
	v1.HandleFunc("/cipher/recipes", s.handleRecipeList).Methods(http.MethodGet)
	v1.HandleFunc("/cipher/recipes", s.handleRecipeSave).Methods(http.MethodPost)
	v1.HandleFunc("/cipher/recipes/{name}", s.handleRecipeGet).Methods(http.MethodGet)
	v1.HandleFunc("/cipher/recipes/{name}", s.handleRecipeDelete).Methods(http.MethodDelete)
	v1.HandleFunc("/cipher/recipes/{name}/run", s.handleRecipeRun).Methods(http.MethodPost)
	return r
}

// Run starts the HTTP server and blocks until the provided context is cancelled or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. Cleartext HTTP/2 is accepted
// alongside HTTP/1.1.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           h2c.NewHandler(s.router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.emitLifecycle("listening", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		s.emitLifecycle("stopped", ln.Addr().String())
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) emitLifecycle(state, addr string) {
	_ = s.logger.Emit(logging.AuditEvent{
		EventType: logging.EventServerLifecycle,
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"state": state, "addr": addr},
	})
}

type auditKey struct{}

// withRequestID echoes or assigns X-Request-ID and attaches an audit logger
// tagged with it to the request context.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), auditKey{}, s.logger.WithRequest(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) audit(r *http.Request) *logging.AuditLogger {
	if logger, ok := r.Context().Value(auditKey{}).(*logging.AuditLogger); ok {
		return logger
	}
	return s.logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
