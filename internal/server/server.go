package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/transmem/internal/cache"
	"github.com/emrgen/transmem/internal/config"
	"github.com/emrgen/transmem/internal/jobs"
	"github.com/emrgen/transmem/internal/match"
	"github.com/emrgen/transmem/internal/queue"
	"github.com/emrgen/transmem/internal/service"
	"github.com/emrgen/transmem/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/gobuffalo/packr"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the engine's HTTP command surface.
type Server struct {
	httpPort string
}

// NewServer creates a new server.
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server.
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start wires the engine together and serves the HTTP command surface.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	rdb := config.GetDb(cnf)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	engineStore := store.NewGormStore(rdb)
	if err := engineStore.Migrate(); err != nil {
		return err
	}

	matchCache := cache.NewMatchCache(cache.NewRedis(cnf.RedisAddr))

	var segmentQueue queue.SegmentQueue
	if cnf.KafkaBrokers != "" {
		segmentQueue, err = queue.NewKafkaSegmentQueue(cnf.KafkaBrokers)
		if err != nil {
			logrus.Warnf("segment queue unavailable, changes will not be published: %v", err)
			segmentQueue = nil
		}
	}

	engine := match.NewEngine(engineStore)

	projects := service.NewProjectService(engineStore)
	files := service.NewFileService(engineStore)
	segments := service.NewSegmentService(engineStore, matchCache, segmentQueue)
	tms := service.NewTMService(engineStore, engine, matchCache)

	executor := jobs.NewTaskExecutor([]jobs.CronJob{
		jobs.NewWorkingTMPruner(cnf.PruneSchedule, engineStore),
		jobs.NewAggregateAudit(cnf.AuditSchedule, engineStore),
	})
	executor.Run()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestTimeLogger())
	registerRoutes(router, projects, files, segments, tms)

	apiMux := http.NewServeMux()
	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))
	apiMux.Handle("/", router)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(apiMux),
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting rest gateway on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest gateway: %v", err)
			}
		}
		logrus.Infof("rest gateway stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	executor.Stop()
	if segmentQueue != nil {
		if err := segmentQueue.Close(); err != nil {
			logrus.Errorf("error closing segment queue: %v", err)
		}
	}

	if err := restServer.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error stopping rest gateway: %v", err)
	}

	wg.Wait()

	return nil
}

func requestTimeLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.Infof("%s %s took: %v", c.Request.Method, c.Request.URL.Path, time.Since(start))
	}
}
