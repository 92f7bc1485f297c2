package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	staticactions "planverse/internal/adapter/actions/static"
	httpadapter "planverse/internal/adapter/http"
	metricsinmem "planverse/internal/adapter/metrics/inmemory"
	gormrepo "planverse/internal/adapter/repo/gorm"
	memoryrepo "planverse/internal/adapter/repo/memory"
	sqliterepo "planverse/internal/adapter/repo/sqlite"
	"planverse/internal/app/library"
	"planverse/internal/app/ports"
	"planverse/internal/app/sequence"
	"planverse/internal/app/worldstate"
)

func main() {
	execRepo, defRepo, eventRepo, txManager := mustBuildRepos()
	kpiRecorder := metricsinmem.NewRecorder()

	libraryUC := library.UseCase{
		Provider: staticactions.Provider{Root: envOr("PLANVERSE_ACTIONS_DIR", "./actions")},
		Repo:     defRepo,
		Tx:       txManager,
	}
	if err := libraryUC.Sync(context.Background()); err != nil {
		log.Printf("action library sync skipped: %v", err)
	}

	sequenceUC := sequence.NewUseCase(execRepo, txManager, kpiRecorder, sequence.Config{
		MaxDepth:      intEnv("PLANVERSE_MAX_DEPTH", 0),
		MaxTime:       time.Duration(intEnv("PLANVERSE_MAX_TIME_MS", 0)) * time.Millisecond,
		CacheCapacity: intEnv("PLANVERSE_CACHE_CAPACITY", 0),
	})

	h := httpadapter.Handler{
		SequenceUC: sequenceUC,
		LibraryUC:  libraryUC,
		States: worldstate.NewRegistry(eventRepo, worldstate.Config{
			HistoryLimit: intEnv("PLANVERSE_HISTORY_LIMIT", 0),
			Tx:           txManager,
		}),
		KPI: kpiRecorder,
	}

	addr := envOr("PLANVERSE_LISTEN", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("planverse server listening on %s", addr)
	s.Spin()
}

func mustBuildRepos() (ports.PlanExecutionRepository, ports.ActionDefinitionRepository, ports.EventRepository, ports.TxManager) {
	driver := strings.TrimSpace(os.Getenv("PLANVERSE_DB_DRIVER"))
	switch driver {
	case "", "postgres":
		dsn := strings.TrimSpace(os.Getenv("PLANVERSE_DB_DSN"))
		if dsn == "" {
			if driver == "postgres" {
				log.Fatal("PLANVERSE_DB_DSN is required for the postgres driver")
			}
			log.Println("no database configured, using in-memory repositories")
			return memoryRepos()
		}
		db, err := gormrepo.OpenPostgres(dsn)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormrepo.Migrate(db); err != nil {
			log.Fatalf("migrate postgres: %v", err)
		}
		return gormrepo.NewPlanExecutionRepo(db), gormrepo.NewActionDefinitionRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewTxManager(db)
	case "sqlite":
		path := envOr("PLANVERSE_DB_PATH", "./planverse.db")
		store, err := sqliterepo.Open(path)
		if err != nil {
			log.Fatalf("open sqlite: %v", err)
		}
		return sqliterepo.NewPlanExecutionRepo(store), sqliterepo.NewActionDefinitionRepo(store), sqliterepo.NewEventRepo(store), sqliterepo.NewTxManager(store)
	case "memory":
		return memoryRepos()
	default:
		log.Fatalf("unknown PLANVERSE_DB_DRIVER %q (want postgres, sqlite, or memory)", driver)
		return nil, nil, nil, nil
	}
}

func memoryRepos() (ports.PlanExecutionRepository, ports.ActionDefinitionRepository, ports.EventRepository, ports.TxManager) {
	store := memoryrepo.NewStore()
	return memoryrepo.NewPlanExecutionRepo(store), memoryrepo.NewActionDefinitionRepo(store), memoryrepo.NewEventRepo(store), memoryrepo.NewTxManager(store)
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
