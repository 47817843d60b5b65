package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelfsync/internal/config"
	"github.com/mrlokans/shelfsync/internal/database"
	"github.com/mrlokans/shelfsync/internal/database/listimports"
	http_controllers "github.com/mrlokans/shelfsync/internal/http"
	"github.com/mrlokans/shelfsync/internal/importers"
	"github.com/mrlokans/shelfsync/internal/lists/registry"
	"github.com/mrlokans/shelfsync/internal/scheduler"
	"github.com/mrlokans/shelfsync/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting ShelfSync v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	sources := registry.NewDefault(registry.OptionsFromConfig(cfg.Lists))
	if cfg.Lists.FlareSolverrURL == "" {
		log.Printf("WARNING: FLARESOLVERR_URL is not set. StoryGraph lists will report as unreachable.")
	}

	repo := listimports.NewRepository(db.DB)
	syncer := importers.NewSyncer(repo, sources, importers.SyncerOptions{MaxPages: cfg.ListSync.MaxPages})

	routerCfg := http_controllers.RouterConfig{
		Database: db,
		Sources:  sources,
		Imports:  repo,
		Syncer:   syncer,
		Version:  version,
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewSyncListQueue(syncer))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		routerCfg.SyncEnqueuer = taskClient
		routerCfg.TaskStatus = taskClient
	}

	listScheduler := scheduler.NewListSyncScheduler(syncer, scheduler.ListSyncConfig{
		Enabled:  cfg.ListSync.Enabled,
		Schedule: cfg.ListSync.Schedule,
	})
	if err := listScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start list sync scheduler: %v", err)
	}
	routerCfg.Scheduler = listScheduler

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		listScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
