package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"live-quiz-service/internal/app"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
	pgstore "live-quiz-service/internal/infra/postgres"
	redisstore "live-quiz-service/internal/infra/redis"
	transport "live-quiz-service/internal/transport/http"
)

// submissionBackend persists finished records and serves them back to the results endpoint.
type submissionBackend interface {
	app.SubmissionStore
	transport.ResultsSource
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if cfg.Postgres.URL != "" {
		if err := migrateSchema(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			// marker and cache calls carry their own deadlines
			ContextTimeoutEnabled: true,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuestionLoader
	switch {
	case pool != nil:
		loader = pgstore.NewQuestionLoader(pool)
	case cfg.Quiz.File != "":
		quizzes, err := memory.LoadQuizFile(cfg.Quiz.File)
		if err != nil {
			return err
		}
		loader = memory.NewStaticQuizLoader(quizzes)
	default:
		loader = memory.NewStaticQuizLoader(sampleQuizzes())
	}

	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	var questions app.QuestionStore
	if redisClient != nil {
		questions = redisstore.NewQuestionCache(redisClient, loader, quizTTL)
	} else {
		questions = memory.NewQuestionCache(loader, quizTTL)
	}

	var submissions submissionBackend
	switch {
	case pool != nil:
		submissions = pgstore.NewSubmissionStore(pool)
	case redisClient != nil:
		submissions = redisstore.NewSubmissionStore(redisClient)
	default:
		submissions = memory.NewSubmissionStore()
	}

	var rooms app.RoomRepository
	if redisClient != nil {
		rooms = redisstore.NewRoomStore(redisClient, redisTTL, logger)
	} else {
		rooms = memory.NewRoomStore()
	}

	service := app.NewQuizService(app.NewRegistry(rooms), questions, submissions, logger, app.Options{
		QuestionDuration: config.Duration(cfg.Room.QuestionDuration, 40*time.Second),
		PersistTimeout:   config.Duration(cfg.Room.PersistTimeout, 5*time.Second),
		RankByScore:      cfg.Room.RankByScore,
	})
	wsHandler := transport.NewWSHandler(service, logger, transport.Options{
		PingInterval: config.Duration(cfg.Server.PingInterval, 54*time.Second),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 10*time.Second),
		SendBuffer:   cfg.Server.SendBuffer,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("GET /quiz/result/{quizId}", transport.NewResultsHandler(submissions, logger))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.LogMiddleware(logger)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.WithField("port", finalPort).Info("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	service.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes is served when neither postgres nor a quiz file is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Warm-up",
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "o1", Text: "3"},
						{ID: "o2", Text: "4", Correct: true},
						{ID: "o3", Text: "5"},
					},
					Points: 1,
				},
			},
		},
	}
}
