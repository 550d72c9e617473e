package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hinohi/ahc001/internal/engine"
	"github.com/hinohi/ahc001/internal/importer"
	"github.com/hinohi/ahc001/internal/model"
	"github.com/hinohi/ahc001/internal/project"
)

// Config bounds what a single request may ask for.
type Config struct {
	DefaultTimeLimit time.Duration
	MaxTimeLimit     time.Duration
	MaxRounds        int
	IndexDepth       int
	CacheEntries     int64
	CacheTTL         time.Duration
}

// DefaultConfig matches the contest time limit and caches a few thousand
// results for an hour.
func DefaultConfig() Config {
	return Config{
		DefaultTimeLimit: 4950 * time.Millisecond,
		MaxTimeLimit:     30 * time.Second,
		MaxRounds:        100000,
		IndexDepth:       engine.DefaultIndexDepth,
		CacheEntries:     4096,
		CacheTTL:         time.Hour,
	}
}

// OptimizeRequest is the body of POST /v1/optimize.
type OptimizeRequest struct {
	Input       string          `json:"input" binding:"required"`
	Params      json.RawMessage `json:"params,omitempty"`
	Seed        *uint64         `json:"seed,omitempty"`
	Rounds      int             `json:"rounds,omitempty"`
	TimeLimitMs int             `json:"time_limit_ms,omitempty"`
}

// OptimizeResponse is the answer to POST /v1/optimize.
type OptimizeResponse struct {
	ID        string   `json:"id"`
	Score     float64  `json:"score"`
	Points    int64    `json:"points"`
	Rects     [][4]int `json:"rects"`
	ElapsedMs int64    `json:"elapsed_ms"`
	Cached    bool     `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves optimisation jobs over HTTP. Results of round-budget
// requests are deterministic and are cached by request content.
type Server struct {
	cfg    Config
	log    *slog.Logger
	cache  *ristretto.Cache[string, *OptimizeResponse]
	router *gin.Engine
}

// New builds the server and its routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *OptimizeResponse]{
		NumCounters: max(10*cfg.CacheEntries, 100),
		MaxCost:     max(cfg.CacheEntries, 1),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	s := &Server{cfg: cfg, log: logger, cache: cache}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog)
	r.GET("/healthz", s.health)
	r.POST("/v1/optimize", s.optimize)
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close releases the cache.
func (s *Server) Close() { s.cache.Close() }

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("elapsed", time.Since(start)))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	problem, err := importer.ParseInstanceString(req.Input)
	if err != nil {
		badRequest(c, err)
		return
	}
	params := model.DefaultParams()
	if len(req.Params) > 0 && string(req.Params) != "null" {
		if params, err = project.ParseParams(string(req.Params), params); err != nil {
			badRequest(c, err)
			return
		}
	}

	opts, err := s.options(req)
	if err != nil {
		badRequest(c, err)
		return
	}

	key := ""
	if opts.Rounds > 0 {
		key = cacheKey(req.Input, params, opts.Seed, opts.Rounds)
		if hit, ok := s.cache.Get(key); ok {
			resp := *hit
			resp.ID = uuid.New().String()
			resp.Cached = true
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	a, err := engine.New(problem, params, opts)
	if err != nil {
		badRequest(c, err)
		return
	}
	res := a.Run()

	resp := OptimizeResponse{
		ID:        uuid.New().String(),
		Score:     res.MeanScore(),
		Points:    res.Points(),
		Rects:     make([][4]int, len(res.Rects)),
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	for i, r := range res.Rects {
		resp.Rects[i] = [4]int{r.X1, r.Y1, r.X2, r.Y2}
	}
	if key != "" {
		stored := resp
		s.cache.SetWithTTL(key, &stored, 1, s.cfg.CacheTTL)
		s.cache.Wait()
	}
	c.JSON(http.StatusOK, resp)
}

// options turns the request budget into engine options within the
// configured limits.
func (s *Server) options(req OptimizeRequest) (engine.Options, error) {
	opts := engine.DefaultOptions()
	opts.IndexDepth = s.cfg.IndexDepth
	opts.Logger = s.log
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}
	switch {
	case req.Rounds < 0 || req.TimeLimitMs < 0:
		return opts, fmt.Errorf("rounds and time_limit_ms must not be negative: %w", ErrBadJob)
	case req.Rounds > 0:
		if req.Rounds > s.cfg.MaxRounds {
			return opts, fmt.Errorf("rounds %d above the limit of %d: %w", req.Rounds, s.cfg.MaxRounds, ErrBadJob)
		}
		opts.Rounds = req.Rounds
	case req.TimeLimitMs > 0:
		opts.TimeLimit = time.Duration(req.TimeLimitMs) * time.Millisecond
		if opts.TimeLimit > s.cfg.MaxTimeLimit {
			return opts, fmt.Errorf("time limit %s above the limit of %s: %w", opts.TimeLimit, s.cfg.MaxTimeLimit, ErrBadJob)
		}
	default:
		opts.TimeLimit = s.cfg.DefaultTimeLimit
	}
	return opts, nil
}

// cacheKey hashes everything that determines a round-budget result.
func cacheKey(input string, params model.Params, seed uint64, rounds int) string {
	h := sha256.New()
	// Whitespace differences do not change the instance.
	h.Write([]byte(strings.Join(strings.Fields(input), " ")))
	p, _ := json.Marshal(params)
	h.Write(p)
	fmt.Fprintf(h, "|%d|%d", seed, rounds)
	return hex.EncodeToString(h.Sum(nil))
}

// IsBadRequest reports whether err comes from invalid client input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadJob) ||
		errors.Is(err, importer.ErrMalformedInput) ||
		errors.Is(err, model.ErrInvalidParams) ||
		errors.Is(err, model.ErrEmptyProblem) ||
		errors.Is(err, model.ErrLengthMismatch) ||
		errors.Is(err, model.ErrInvalidInitial) ||
		errors.Is(err, model.ErrPointOutOfRange) ||
		errors.Is(err, model.ErrDuplicatePoint) ||
		errors.Is(err, model.ErrInvalidSize)
}
