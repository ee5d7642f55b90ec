// Package httpserver wraps net/http with graceful shutdown, upload-friendly
// timeouts, health checks and structured logging via slog.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal is
// received, then shuts the server down with http.Server.Shutdown so in-flight
// uploads can finish within the shutdown timeout.
//
// Read and write timeouts are disabled by default because they bound the
// whole request body; ReadHeaderTimeout and MaxHeaderBytes are set instead.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log,
//		httpserver.NamedCheck("mongo", mongo.Healthcheck(client)),
//	))
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps all listen errors with ErrStart, while Shutdown wraps underlying
// shutdown errors with ErrShutdown. Use errors.Is to distinguish them.
package httpserver
