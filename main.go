package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	httpapi "github.com/sanathboddhula/real-estate-AI-marketer/http"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/config"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/events"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/history"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/logger"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/lookupcache"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/redisx"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/refresh"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/session"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := flyerapi.NewClient(cfg.Backend.BaseURL, flyerapi.Options{
		Timeout:           cfg.Backend.GenerateTimeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	})

	opts := session.Options{
		Backend:         api,
		Debounce:        cfg.Session.LookupDebounce,
		MinLookupLength: cfg.Session.LookupMinLength,
		RequestTimeout:  cfg.Backend.RequestTimeout,
		GenerateTimeout: cfg.Backend.GenerateTimeout,
	}

	if cfg.Redis.Enabled() {
		rdb := redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(rootCtx, 3*time.Second)
		if err := rdb.Ping(ctx); err != nil {
			log.Printf("[WARN] redis ping %s: %v (cache will retry per request)", cfg.Redis.Addr, err)
		}
		cancel()
		refresher := refresh.New(256, cfg.Redis.RefreshWorkers, cfg.Backend.RequestTimeout)
		defer refresher.Close()
		opts.Cache = lookupcache.New(rdb, cfg.Redis.CacheTTL, cfg.Redis.MissTTL).WithRefresh(refresher, cfg.Redis.StaleAfter)
		log.Printf("[INFO] lookup cache enabled at %s", cfg.Redis.Addr)
	}

	var historyDeps httpapi.HistoryDeps
	if cfg.History.Enabled() {
		st, err := store.Open(cfg.History.DSN)
		if err != nil {
			log.Fatalf("store open error: %v", err)
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		if err := st.Ping(ctx); err != nil {
			cancel()
			log.Fatalf("postgres ping error: %v", err)
		}
		if err := st.Migrate(ctx); err != nil {
			cancel()
			log.Fatalf("postgres migrate error: %v", err)
		}
		cancel()

		pub := events.NewInMemory(256)
		opts.Events = pub
		rec := &history.Recorder{Pub: pub, Sink: st}
		go rec.Run(rootCtx)
		historyDeps = httpapi.HistoryDeps{Store: st, Limit: cfg.History.Limit}
		log.Printf("[INFO] flyer history enabled")
	}

	sessions := session.NewRegistry(opts, cfg.Session.IdleTTL)
	defer sessions.Close()
	go sessions.Run(rootCtx, cfg.Session.SweepInterval)

	router := BuildRouter(RouterDeps{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Studio:             httpapi.StudioDeps{Sessions: sessions, Downloads: api},
		History:            historyDeps,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           logger.Middleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-rootCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] shutdown: %v", err)
		}
	}()

	log.Printf("flyer studio listening on %s (backend %s)", srv.Addr, api.BaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
