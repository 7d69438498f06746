package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report upload server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var st store.Store
		if cfg.Store.Driver != "" {
			var err error
			st, err = openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/optimize", handleOptimize(st))
		r.Get("/runs", handleRuns(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("serve: listening", zap.Int("port", port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return eris.Wrap(err, "serve: shutdown")
			}
			return nil
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return eris.Wrap(err, "serve: listen")
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// handleOptimize accepts a multipart bulksheet upload plus optional client
// settings and responds with the full optimization result.
func handleOptimize(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("report")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "report file is required")
			return
		}
		defer file.Close()

		tmpPath, cleanup, err := spoolUpload(file, header.Filename)
		if err != nil {
			zap.L().Error("serve: spool upload", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "failed to read upload")
			return
		}
		defer cleanup()

		client := clientConfigFromForm(r)
		result, err := runOptimization(r.Context(), tmpPath, client)

		if st != nil {
			saveRun(r.Context(), st, header.Filename, client, result, err)
		}
		if err != nil {
			zap.L().Error("serve: optimization failed",
				zap.String("report", header.Filename),
				zap.Error(err),
			)
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeJSONError(w, http.StatusNotImplemented, "no run store configured")
			return
		}

		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		runs, err := st.ListRuns(r.Context(), store.RunFilter{
			Client: r.URL.Query().Get("client"),
			Limit:  limit,
		})
		if err != nil {
			zap.L().Error("serve: list runs", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "failed to list runs")
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// clientConfigFromForm reads client overrides from multipart form fields.
// Ratio fields are fractions, matching the config file.
func clientConfigFromForm(r *http.Request) model.ClientConfig {
	client := cfg.Client
	if v := r.FormValue("client"); v != "" {
		client.Name = v
	}
	if v, err := strconv.ParseFloat(r.FormValue("target_acos"), 64); err == nil && v > 0 {
		client.TargetACOS = v
	}
	if v, err := strconv.ParseFloat(r.FormValue("min_conversion_rate"), 64); err == nil && v > 0 {
		client.MinConversionRate = v
	}
	if r.FormValue("is_market_leader") == "true" {
		client.IsMarketLeader = true
	}
	if r.FormValue("has_large_inventory") == "true" {
		client.HasLargeInventory = true
	}
	return client
}

// spoolUpload writes the uploaded report to a temp file so the loader can
// open it by path.
func spoolUpload(src io.Reader, filename string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "ppc-upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", nil, eris.Wrap(err, "create temp file")
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, eris.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, eris.Wrap(err, "close temp file")
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
