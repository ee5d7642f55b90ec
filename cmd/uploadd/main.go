package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/streamupload/pkg/config"
	"github.com/dmitrymomot/streamupload/pkg/file"
	"github.com/dmitrymomot/streamupload/pkg/httpserver"
	"github.com/dmitrymomot/streamupload/pkg/httpupload"
	"github.com/dmitrymomot/streamupload/pkg/logger"
	"github.com/dmitrymomot/streamupload/pkg/mongo"
	"github.com/dmitrymomot/streamupload/pkg/upload"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestIDExtractor),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	local, err := newLocalSink(cfg.Upload)
	if err != nil {
		return err
	}

	routes := []route{{pattern: "/", sink: local}}
	var (
		checks    []httpserver.Check
		stopHooks []httpserver.Option
	)

	if cfg.Mongo.Enabled() {
		mongoClient, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		bucket, err := mongo.NewGridFSBucket(mongoClient, cfg.Mongo)
		if err != nil {
			return err
		}
		gridfs, err := file.NewGridFSSink(bucket)
		if err != nil {
			return err
		}
		routes = append(routes, route{pattern: "/mongo", sink: gridfs})
		checks = append(checks, httpserver.NamedCheck("mongo", mongo.Healthcheck(mongoClient)))
		stopHooks = append(stopHooks, httpserver.WithStopHook(func(l *slog.Logger) {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				l.Error("failed to disconnect mongo", logger.Error(err))
			}
		}))
	}

	if cfg.S3.Bucket != "" {
		s3, err := file.NewS3Sink(ctx, cfg.S3)
		if err != nil {
			return err
		}
		routes = append(routes, route{pattern: "/s3", sink: s3})
	}

	for _, rt := range routes {
		log.Info("upload route enabled", logger.Route(rt.pattern))
	}

	srv := httpserver.NewFromConfig(cfg.HTTP, append(stopHooks, httpserver.WithLogger(log))...)
	return srv.Run(ctx, newRouter(log, cfg.Upload, routes, checks))
}

// newLocalSink backs the "/" route; without UPLOAD_DIR parts go to temp files.
func newLocalSink(cfg UploadConfig) (*file.LocalSink, error) {
	return file.NewLocalSink(cfg.Dir)
}

type route struct {
	pattern string
	sink    upload.Sink
}

func newRouter(log *slog.Logger, cfg UploadConfig, routes []route, checks []httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(log, checks...))

	for _, rt := range routes {
		uploads := httpupload.Middleware(rt.sink,
			httpupload.WithLogger(log.With(logger.Route(rt.pattern))),
			httpupload.WithChunkSize(cfg.ChunkSize),
			httpupload.WithMaxBodyBytes(cfg.MaxBodyBytes),
			httpupload.WithDecoderOptions(
				upload.WithMaxHeaderBytes(cfg.MaxHeaderBytes),
				upload.WithMaxFieldBytes(cfg.MaxFieldBytes),
			),
		)
		r.With(uploads).Post(rt.pattern, respondArguments)
		r.With(uploads).Put(rt.pattern, respondArguments)
	}

	return r
}

// respondArguments echoes the decoded fields and file descriptors.
func respondArguments(w http.ResponseWriter, r *http.Request) {
	args, err := httpupload.RequireArguments(r.Context())
	if err != nil {
		httpupload.DefaultErrorHandler(w, r, err)
		return
	}
	httpupload.WriteJSON(w, http.StatusOK, args)
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}
