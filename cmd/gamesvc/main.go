package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/jonboulle/clockwork"

	config "github.com/ccc-cards/card-services/configs"
	"github.com/ccc-cards/card-services/internal/gamesvc/broker"
	"github.com/ccc-cards/card-services/internal/gamesvc/catalog"
	"github.com/ccc-cards/card-services/internal/gamesvc/db"
	"github.com/ccc-cards/card-services/internal/gamesvc/game"
	handlers "github.com/ccc-cards/card-services/internal/gamesvc/handlers"
	"github.com/ccc-cards/card-services/internal/gamesvc/service"
	"github.com/ccc-cards/card-services/internal/gamesvc/store"
	nats "github.com/ccc-cards/card-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

// newCatalog picks the deck source: Mongo when MONGODB_URI is set,
// otherwise a directory of deck files.
func newCatalog(ctx context.Context) (catalog.Catalog, error) {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		database := os.Getenv("MONGODB_DATABASE")
		if database == "" {
			database = "cards"
		}
		return catalog.NewMongoCatalog(ctx, uri, database)
	}

	dir := os.Getenv("DECKS_DIR")
	if dir == "" {
		dir = "./decks"
	}
	return catalog.NewFileCatalog(dir)
}

func main() {
	ctx := context.Background()

	decks, err := newCatalog(ctx)
	if err != nil {
		log.Fatalf("Failed to load deck catalog: %v", err)
	}

	// match history is optional, the game runs without postgres
	var historyService *service.HistoryService
	if os.Getenv("POSTGRES_URL") != "" {
		dbpool, err := db.Connect(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer db.Close()
		log.Printf("pg connection established successfully")

		historyStore := store.NewHistoryStore(dbpool)
		historyService = service.NewHistoryService(historyStore)
	}

	// Connect to NATS
	n, err := nats.Connect(SERVICE_NAME + "-" + instanceId)
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// init message broker and room manager
	b := broker.NewBroker(n.Conn, historyService)
	manager := game.NewManager(decks, b, clockwork.NewRealClock(), func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	})
	b.Manager = manager

	// subscribe to socket service
	topic := "socket.service"
	sub, err := b.SubscribSocketService(topic)
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(decks, manager, historyService)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("GAME_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
