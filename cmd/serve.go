package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/consciouscart/brandcheck/internal/model"
	"github.com/consciouscart/brandcheck/internal/recommend"
	"github.com/consciouscart/brandcheck/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/brands", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			recs, err := env.Store.ListBrands(req.Context(), false)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"brands": recs})
			return
		}

		limit := store.DefaultSearchLimit
		if s := req.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}
		recs, err := env.Store.Search(req.Context(), q, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"brands": recs})
	})

	r.Get("/brands/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		rec, err := env.Store.Lookup(req.Context(), name)
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, eris.Errorf("brand %q not found", name))
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Post("/brands", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Name          string   `json:"name"`
			IsCrueltyFree bool     `json:"is_cruelty_free"`
			ParentCompany string   `json:"parent_company"`
			Explanation   string   `json:"explanation"`
			Sources       []string `json:"sources"`
			Confidence    float64  `json:"confidence"`
			Category      string   `json:"category"`
			PriceTier     string   `json:"price_tier"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
			return
		}
		if in.Name == "" {
			writeError(w, http.StatusBadRequest, eris.New("name is required"))
			return
		}

		rec := model.BrandRecord{
			Name:          in.Name,
			IsCrueltyFree: in.IsCrueltyFree,
			ParentCompany: in.ParentCompany,
			Explanation:   in.Explanation,
			Sources:       in.Sources,
			Confidence:    in.Confidence,
			Category:      model.Category(in.Category),
			PriceTier:     model.PriceTier(in.PriceTier),
		}
		if err := env.Store.Upsert(req.Context(), rec); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "saved", "name": in.Name})
	})

	r.Delete("/brands/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if err := env.Store.Delete(req.Context(), name); err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, eris.Errorf("brand %q not found", name))
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "name": name})
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		stats, err := env.Store.Stats(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Post("/verify", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Brand string `json:"brand"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
			return
		}
		if in.Brand == "" {
			writeError(w, http.StatusBadRequest, eris.New("brand is required"))
			return
		}

		res, err := env.Agent.Verify(req.Context(), in.Brand)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	r.Get("/brands/{name}/alternatives", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		limit := recommend.DefaultLimit
		if s := req.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}
		recs, err := env.Agent.Alternatives(req.Context(), name, limit)
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, eris.Errorf("brand %q not found", name))
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"alternatives": recs})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	zap.L().Warn("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
