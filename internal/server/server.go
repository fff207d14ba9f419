// Package server exposes gene browsing and expression profiles over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/seqlab/tpmplot/internal/annotation"
	"github.com/seqlab/tpmplot/internal/counts"
	"github.com/seqlab/tpmplot/internal/geneindex"
	"github.com/seqlab/tpmplot/internal/profile"
)

// Config contains server configuration.
type Config struct {
	Sense       *counts.Matrix
	Antisense   *counts.Matrix
	Annotations map[string]annotation.Record
	CORSOrigins []string
	CacheSize   int
}

// Server serves the core pipeline's outputs as JSON.
type Server struct {
	sense        *counts.Matrix
	antisense    *counts.Matrix
	annotations  map[string]annotation.Record
	index        *geneindex.Index
	profileCache *lru.Cache[string, []byte]
	corsOrigins  []string
	logger       *zap.Logger
}

// New creates a server over the loaded matrices. Either matrix (and the
// annotation map) may be nil; endpoints degrade to partial results.
func New(cfg Config) (*Server, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Server{
		sense:        cfg.Sense,
		antisense:    cfg.Antisense,
		annotations:  cfg.Annotations,
		index:        geneindex.New(cfg.Sense, cfg.Annotations),
		profileCache: cache,
		corsOrigins:  cfg.CORSOrigins,
		logger:       zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for request warnings.
func (s *Server) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Router builds the HTTP router.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/api/genes", s.genesHandler)
	r.Get("/api/conditions", s.conditionsHandler)
	r.Get("/api/profile", s.profileHandler)

	return r
}

// geneEntry is one row of the browsing list.
type geneEntry struct {
	ID       string `json:"id"`
	Product  string `json:"product,omitempty"`
	GeneName string `json:"geneName,omitempty"`
	Biotype  string `json:"biotype,omitempty"`
}

// genesHandler returns at most 100 gene identifiers matching the q
// parameter, ordered by sort/desc.
func (s *Server) genesHandler(w http.ResponseWriter, r *http.Request) {
	cfg := geneindex.SortConfig{
		Key:        geneindex.SortKey(r.URL.Query().Get("sort")),
		Descending: r.URL.Query().Get("desc") == "true",
	}
	switch cfg.Key {
	case geneindex.SortByID, geneindex.SortByName, geneindex.SortByExpression:
	case "":
		cfg.Key = geneindex.SortByID
	default:
		http.Error(w, "unknown sort key: "+string(cfg.Key), http.StatusBadRequest)
		return
	}

	ids := s.index.Browse(r.URL.Query().Get("q"), cfg)
	entries := make([]geneEntry, 0, len(ids))
	for _, id := range ids {
		entry := geneEntry{ID: id}
		if rec, ok := s.index.Annotation(id); ok {
			entry.Product = rec.Product
			entry.GeneName = rec.GeneName
			entry.Biotype = rec.Biotype
		}
		entries = append(entries, entry)
	}
	writeJSON(w, entries)
}

// conditionsHandler returns the naturally sorted condition labels over
// whichever matrices are loaded.
func (s *Server) conditionsHandler(w http.ResponseWriter, r *http.Request) {
	seen := make(map[string]bool)
	conds := []string{}
	for _, m := range []*counts.Matrix{s.sense, s.antisense} {
		if m == nil {
			continue
		}
		for _, c := range m.Conditions {
			if !seen[c] {
				seen[c] = true
				conds = append(conds, c)
			}
		}
	}
	counts.SortNatural(conds)
	writeJSON(w, conds)
}

// profileHandler aggregates the selected genes into per-condition
// points. Responses are cached keyed by the (genes, mode) tuple that
// determines them.
func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	genesParam := strings.TrimSpace(r.URL.Query().Get("genes"))
	if genesParam == "" {
		http.Error(w, "genes parameter required", http.StatusBadRequest)
		return
	}
	genes := strings.Split(genesParam, ",")
	if len(genes) > geneindex.MaxSelection {
		http.Error(w, "at most 7 genes may be selected", http.StatusBadRequest)
		return
	}

	mode := profile.StrandMode(r.URL.Query().Get("mode"))
	switch mode {
	case "":
		mode = profile.ModeSense
	case profile.ModeSense, profile.ModeAntisense:
	case profile.ModeBoth:
		if s.sense == nil || s.antisense == nil {
			http.Error(w, "both mode requires sense and antisense matrices", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "unknown strand mode: "+string(mode), http.StatusBadRequest)
		return
	}

	key := string(mode) + "|" + genesParam
	if body, ok := s.profileCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	points := profile.Aggregate(s.sense, s.antisense, mode, genes)
	if points == nil {
		points = []profile.Point{}
	}
	body, err := json.Marshal(points)
	if err != nil {
		s.logger.Warn("encode profile", zap.Error(err))
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	s.profileCache.Add(key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
