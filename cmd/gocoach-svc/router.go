package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
	"gocoach/internal/wire"
)

// setupRouter wires every route. CORS wraps the router itself so preflight
// requests are answered even though no route accepts OPTIONS.
func setupRouter(app *wire.Application) http.Handler {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(app.Log))

	router.HandleFunc("/health", healthCheckHandler(app.DB)).Methods(http.MethodGet)
	// The socket authenticates itself; browsers cannot set headers on upgrade.
	router.Handle("/ws", app.Gateway).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(common.AuthMiddleware(app.Verifier))
	app.MeetingHandler.RegisterRoutes(api)
	app.ChatHandler.RegisterRoutes(api)

	return corsMiddleware(router)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status. It passes Hijack through so the
// websocket upgrade keeps working behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

func healthCheckHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbmysql.Ping(ctx, db); err != nil {
			common.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Service: serviceName, Database: "down"})
			return
		}
		common.WriteJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: serviceName, Database: "up"})
	}
}
