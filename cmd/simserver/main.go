// Command simserver serves a synthetic snapshot store so the service can
// be developed and load-tested without the real upstream.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/leaguelens/internal/domain/model"
	"github.com/okian/leaguelens/internal/simdata"
	"github.com/okian/leaguelens/pkg/logger"
)

const (
	defaultTopics     = 6
	defaultProfiles   = 400
	defaultSeed       = 1
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", ":9091", "Listen address")
		source   = flag.String("source", "xeet", "Source family to mimic (xeet or wallchain)")
		topics   = flag.Int("topics", defaultTopics, "Number of synthetic topics")
		profiles = flag.Int("profiles", defaultProfiles, "Size of the shared profile pool")
		seed     = flag.Int64("seed", defaultSeed, "Random seed for reproducible universes")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	universe := simdata.NewGenerator(
		simdata.WithSource(model.SourceKind(*source)),
		simdata.WithTopicCount(*topics),
		simdata.WithProfileCount(*profiles),
		simdata.WithSeed(*seed),
	).Generate()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           simdata.NewServer(universe).Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving synthetic snapshot store",
			logger.String("addr", *addr),
			logger.String("source", *source),
			logger.Int("topics", *topics),
			logger.Int("profiles", *profiles),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("simserver failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
