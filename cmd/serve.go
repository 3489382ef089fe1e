package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/company-search/internal/model"
	"github.com/sells-group/company-search/internal/pipeline"
)

var servePort int

// jobSearcher runs one pipeline execution.
type jobSearcher interface {
	Run(ctx context.Context, query model.JobQuery) *pipeline.Result
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the job search HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := initPipeline(cfg, "serve")
		if err != nil {
			return err
		}

		return startServer(ctx, buildRouter(p), resolvePort(servePort, cfg.Server.Port))
	},
}

// searchRequest is the POST /job_search body. Experience is accepted as a
// string or a number.
type searchRequest struct {
	JobTitle   string         `json:"jobTitle"`
	Location   string         `json:"location"`
	Experience flexibleString `json:"experience"`
	GeminiKey  string         `json:"geminiKey"`
}

// searchResponse keeps the historical "messgae" key so existing clients
// keep working.
type searchResponse struct {
	Message string             `json:"messgae"`
	Data    []model.JobListing `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// flexibleString decodes a JSON string or number. Zero, false and null
// decode to "" so they fail the required-field check.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*f = flexibleString(t)
	case float64:
		if t == 0 {
			*f = ""
		} else {
			*f = flexibleString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case nil, bool:
		*f = ""
	default:
		return eris.Errorf("unsupported value %s", string(b))
	}
	return nil
}

// buildRouter wires the HTTP routes. A nil searcher answers every valid
// search with an empty list.
func buildRouter(searcher jobSearcher) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Company Search "})
	})

	r.Post("/job_search", func(w http.ResponseWriter, r *http.Request) {
		log := zap.L().With(zap.String("request_id", middleware.GetReqID(r.Context())))

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Debug("job_search: invalid body", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
			return
		}

		query := model.JobQuery{
			JobTitle:   req.JobTitle,
			Location:   req.Location,
			Experience: string(req.Experience),
			GeminiKey:  req.GeminiKey,
		}
		if msg := query.MissingField(); msg != "" {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: msg})
			return
		}

		listings := []model.JobListing{}
		if searcher != nil {
			result := searcher.Run(r.Context(), query)
			log.Info("job_search: complete",
				zap.String("run_id", result.RunID),
				zap.String("source", string(result.Source)),
				zap.Int("listings", len(result.Listings)),
			)
			if result.Listings != nil {
				listings = result.Listings
			}
		}

		writeJSON(w, http.StatusOK, searchResponse{Message: "OK", Data: listings})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response", zap.Error(err))
	}
}

// resolvePort prefers the --port flag over config.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves handler until ctx is cancelled, then shuts down.
func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
