package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"notifier/config"
	"notifier/internal/init/cache"
	"notifier/internal/init/database"
	s3init "notifier/internal/init/s3"
	"notifier/internal/modules/notification"
	"notifier/internal/modules/notification/dispatcher"
	"notifier/internal/modules/notification/templates"
	"notifier/internal/modules/tips"

	// Task module
	taskRp "notifier/internal/modules/task/repo"
	taskDbRepo "notifier/internal/modules/task/repo/database"
	taskUC "notifier/internal/modules/task/usecase"

	// Challenge module
	challengeRp "notifier/internal/modules/challenge/repo"
	challengeDbRepo "notifier/internal/modules/challenge/repo/database"
	challengeUC "notifier/internal/modules/challenge/usecase"

	// Friend module
	friendRp "notifier/internal/modules/friend/repo"
	friendDbRepo "notifier/internal/modules/friend/repo/database"
	friendUC "notifier/internal/modules/friend/usecase"

	// User module
	userRp "notifier/internal/modules/user/repo"
	userCacheRepo "notifier/internal/modules/user/repo/cache"
	userDbRepo "notifier/internal/modules/user/repo/database"
	userUC "notifier/internal/modules/user/usecase"

	// Tips module
	tipsRp "notifier/internal/modules/tips/repo"
	tipsDbRepo "notifier/internal/modules/tips/repo/database"
	tipsStorage "notifier/internal/modules/tips/repo/storage"
	tipsUC "notifier/internal/modules/tips/usecase"

	// Custom notifications module
	customC "notifier/internal/modules/custom/controller"
	customRp "notifier/internal/modules/custom/repo"
	customDbRepo "notifier/internal/modules/custom/repo/database"
	customUC "notifier/internal/modules/custom/usecase"

	eventsC "notifier/internal/modules/events/controller"
	jobsC "notifier/internal/modules/jobs/controller"

	"notifier/pkg/lib/emailsender"
	"notifier/pkg/lib/pushsender"
	"notifier/pkg/lib/pushsender/fcm"
	resp "notifier/pkg/lib/response"
	"notifier/pkg/lib/scheduler"
	"notifier/pkg/lib/textprovider"
	"notifier/pkg/lib/textprovider/openai"
	appMiddleware "notifier/pkg/middleware/jwt"
	"notifier/pkg/middleware/logger"
)

type App struct {
	Storage     *database.Storage
	Cache       *cache.Cache
	S3          *s3init.S3Storage
	EmailSender *emailsender.EmailSender
	Sender      pushsender.Sender
	Text        textprovider.Provider
	Router      chi.Router
	Log         *slog.Logger
	Cfg         *config.Config
	Scheduler   *scheduler.Scheduler
}

func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	ctx := context.Background()

	storage, err := database.NewStorage(cfg.DbConfig, log)
	if err != nil {
		return nil, fmt.Errorf("db init failed: %w", err)
	}

	appCache, err := cache.NewCache(cfg.CacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	sender, err := fcm.NewFCMSender(ctx, cfg.FCMConfig, log)
	if err != nil {
		return nil, fmt.Errorf("push sender init failed: %w", err)
	}

	app := &App{
		Storage:   storage,
		Cache:     appCache,
		Sender:    sender,
		Router:    chi.NewRouter(),
		Log:       log,
		Cfg:       cfg,
		Scheduler: scheduler.New(cfg.Schedule.JobTimeout, log),
	}

	// Optional integrations: each one degrades to a no-op when unconfigured.
	if cfg.S3Config.BucketTips != "" {
		s3s, err := s3init.NewS3Storage(ctx, cfg.S3Config, log)
		if err != nil {
			log.Warn("s3 init failed, tips archive disabled", "error", err)
		} else {
			app.S3 = s3s
		}
	}

	if cfg.SMTPConfig.Host != "" {
		eSender, err := emailsender.New(cfg.SMTPConfig)
		if err != nil {
			log.Warn("email sender init failed, recap e-mails disabled", "error", err)
		} else {
			app.EmailSender = eSender
		}
	}

	textClient, err := openai.NewClient(cfg.TextProvider, os.Getenv("TEXT_PROVIDER_API_KEY"), log)
	if err != nil {
		log.Warn("text provider disabled, static texts only", "error", err)
	} else {
		app.Text = textClient
	}

	return app, nil
}

func (app *App) Start() error {
	srv := &http.Server{
		Addr:         app.Cfg.HttpServerConfig.Address,
		Handler:      app.Router,
		ReadTimeout:  app.Cfg.HttpServerConfig.Timeout,
		WriteTimeout: app.Cfg.HttpServerConfig.Timeout,
		IdleTimeout:  app.Cfg.HttpServerConfig.IdleTimeout,
	}

	app.Scheduler.Start()
	app.Log.Info("scheduler started", slog.Any("jobs", app.Scheduler.Jobs()))

	serverShutdown := make(chan error, 1)
	go func() {
		var err error
		serverType := "HTTP"
		addr := app.Cfg.HttpServerConfig.Address
		app.Log.Info("Attempting to start server", slog.String("address", addr), slog.Bool("tls_enabled", app.Cfg.HttpServerConfig.TLS.Enabled))

		if app.Cfg.HttpServerConfig.TLS.Enabled {
			serverType = "HTTPS"
			certFile := app.Cfg.HttpServerConfig.TLS.CertFile
			keyFile := app.Cfg.HttpServerConfig.TLS.KeyFile
			if _, errStat := os.Stat(certFile); os.IsNotExist(errStat) {
				serverShutdown <- fmt.Errorf("TLS cert_file not found: %s", certFile)
				return
			}
			if _, errStat := os.Stat(keyFile); os.IsNotExist(errStat) {
				serverShutdown <- fmt.Errorf("TLS key_file not found: %s", keyFile)
				return
			}
			app.Log.Info(fmt.Sprintf("%s server starting", serverType), slog.String("address", addr))
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			app.Log.Info(fmt.Sprintf("%s server starting", serverType), slog.String("address", addr))
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Error(fmt.Sprintf("%s server run failed", serverType), slog.String("error", err.Error()))
			serverShutdown <- err
		} else if errors.Is(err, http.ErrServerClosed) {
			app.Log.Info(fmt.Sprintf("%s server closed", serverType))
			serverShutdown <- nil
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverShutdown:
		if err != nil {
			app.Log.Error("Server failed to start or encountered a fatal error", slog.String("error", err.Error()))
			runErr = fmt.Errorf("server runtime error: %w", err)
		}
	case sig := <-quit:
		app.Log.Info("Received OS signal, initiating graceful shutdown...", slog.String("signal", sig.String()))
	}

	app.Log.Info("Stopping scheduler...")
	select {
	case <-app.Scheduler.Stop().Done():
		app.Log.Info("Scheduler stopped.")
	case <-time.After(app.Cfg.Schedule.JobTimeout):
		app.Log.Warn("Scheduler stop timed out, running jobs abandoned.")
	}

	if runErr != nil {
		return runErr
	}

	app.Log.Info("Shutting down HTTP/HTTPS server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		app.Log.Error("Server graceful shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.Log.Info("Server stopped gracefully")
	return nil
}

// reportJob adapts a fan-out handler to a scheduler job. Per-recipient failures
// are already logged by the dispatcher and never fail the run.
func reportJob(run func(ctx context.Context) (notification.Report, error)) scheduler.JobFunc {
	return func(ctx context.Context) error {
		_, err := run(ctx)
		return err
	}
}

func (app *App) SetupRoutes() error {
	app.Router.Use(
		middleware.Recoverer,
		middleware.RequestID,
		logger.New(app.Log),
		cors.Handler(cors.Options{
			AllowedOrigins: app.Cfg.HttpServerConfig.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)

	apiVersion := "/v1"
	bank := templates.New()
	notifier := dispatcher.New(app.Sender, app.Log)

	// --- User Module ---
	userDBImpl := userDbRepo.NewUserDatabase(app.Storage.Db, app.Log)
	userCacheImpl := userCacheRepo.NewUserCache(app.Cache, app.Log)
	userRepoImpl := userRp.NewRepo(userDBImpl, userCacheImpl)
	names := userUC.NewResolverUseCase(userRepoImpl, app.Cfg.Users.Placeholder, app.Log)

	var mailer userUC.Mailer
	if app.EmailSender != nil {
		mailer = app.EmailSender
	}
	recapUseCaseImpl := userUC.NewRecapUseCase(userRepoImpl, notifier, mailer, app.Log)

	// --- Task Module ---
	taskDBImpl := taskDbRepo.NewTaskDatabase(app.Storage.Db, app.Log)
	taskRepoImpl := taskRp.NewRepo(taskDBImpl)
	reminderUseCaseImpl := taskUC.NewReminderUseCase(taskRepoImpl, names, bank, notifier, app.Cfg.Reminders, app.Log)

	// --- Challenge Module ---
	challengeDBImpl := challengeDbRepo.NewChallengeDatabase(app.Storage.Db, app.Log)
	challengeRepoImpl := challengeRp.NewRepo(challengeDBImpl)
	gapUseCaseImpl := challengeUC.NewGapUseCase(challengeRepoImpl, names, bank, notifier, app.Log)
	challengeEventsImpl := challengeUC.NewEventsUseCase(challengeRepoImpl, names, notifier, app.Log)

	// --- Friend Module ---
	friendDBImpl := friendDbRepo.NewFriendDatabase(app.Storage.Db, app.Log)
	friendRepoImpl := friendRp.NewRepo(friendDBImpl)
	friendUseCaseImpl := friendUC.NewFriendUseCase(friendRepoImpl, names, notifier, app.Log)

	// --- Tips Module ---
	var archive tipsRp.TipsArchive
	if app.S3 != nil {
		archive = tipsStorage.NewTipsArchive(app.S3.Client, app.Cfg.S3Config.BucketTips, app.Log)
	}
	tipsDBImpl := tipsDbRepo.NewTipsDatabase(app.Storage.Db, app.Log)
	tipsRepoImpl := tipsRp.NewRepo(tipsDBImpl, archive)
	tipsUseCaseImpl := tipsUC.NewTipsUseCase(tipsRepoImpl, app.Text, notifier, app.Log)

	// --- Custom Notifications Module ---
	customDBImpl := customDbRepo.NewCustomDatabase(app.Storage.Db, app.Log)
	customRepoImpl := customRp.NewRepo(customDBImpl)
	customUseCaseImpl := customUC.NewCustomUseCase(customRepoImpl, notifier, app.Log)
	customCtrl := customC.NewCustomController(customUseCaseImpl, app.Log)

	// --- Scheduled jobs ---
	sched := app.Cfg.Schedule
	jobs := []struct {
		name  string
		job   scheduler.JobFunc
		specs []string
	}{
		{"task_reminders", reportJob(reminderUseCaseImpl.SendDueReminders), []string{sched.TaskReminders}},
		{"challenge_gaps", reportJob(gapUseCaseImpl.SendSubmissionReminders), sched.ChallengeGaps},
		{"tips_generate", func(ctx context.Context) error {
			_, err := tipsUseCaseImpl.Generate(ctx)
			return err
		}, []string{sched.TipsGenerate}},
		{"tips_morning", slotJob(tipsUseCaseImpl, tips.SlotMorning), []string{sched.TipsMorning}},
		{"tips_afternoon", slotJob(tipsUseCaseImpl, tips.SlotAfternoon), []string{sched.TipsAfternoon}},
		{"tips_evening", slotJob(tipsUseCaseImpl, tips.SlotEvening), []string{sched.TipsEvening}},
		{"weekly_recap", reportJob(recapUseCaseImpl.SendWeeklyRecap), []string{sched.WeeklyRecap}},
	}
	for _, j := range jobs {
		if err := app.Scheduler.Register(j.name, j.job, j.specs...); err != nil {
			return fmt.Errorf("scheduler init failed: %w", err)
		}
	}

	// --- HTTP ---
	app.Router.Get("/health", app.Health)

	eventsCtrl := eventsC.NewEventsController(friendUseCaseImpl, challengeEventsImpl, customUseCaseImpl, app.Log)
	app.Router.Route(apiVersion+"/events", func(r chi.Router) {
		r.Use(appMiddleware.NewServiceAuth(app.Log))
		r.Use(httprate.Limit(600, 1*time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/users/{receiverID}/friend_requests/{senderID}/{action}", eventsCtrl.FriendRequestEvent)
		r.Post("/challenges/{challengeID}/{action}", eventsCtrl.ChallengeEvent)
		r.Post("/challenges/{challengeID}/submissions/{submissionID}/{action}", eventsCtrl.SubmissionEvent)
		r.Post("/custom_notifications/{notificationID}/{action}", eventsCtrl.CustomNotificationEvent)
	})

	jobsCtrl := jobsC.NewJobsController(app.Scheduler, app.Log)
	app.Router.Route(apiVersion+"/admin", func(r chi.Router) {
		r.Use(appMiddleware.NewAdminAuth(app.Log))
		r.Post("/notifications", customCtrl.CreateNotification)
		r.Get("/notifications/{notificationID}", customCtrl.GetNotification)
		r.Get("/jobs", jobsCtrl.ListJobs)
		r.Post("/jobs/{job}", jobsCtrl.RunJob)
	})
	return nil
}

func slotJob(uc *tipsUC.TipsUseCase, slot tips.Slot) scheduler.JobFunc {
	return func(ctx context.Context) error {
		_, err := uc.SendSlot(ctx, slot)
		return err
	}
}

// Health GET /health
func (app *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	for name, ping := range map[string]func(context.Context) error{
		"database": app.Storage.Ping,
		"cache":    app.Cache.Ping,
		"push":     app.Sender.Ping,
	} {
		if err := ping(ctx); err != nil {
			app.Log.Warn("health check failed", slog.String("dependency", name), "error", err)
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		resp.SendError(w, r, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	resp.SendSuccess(w, r, http.StatusOK, checks)
}

func main() {
	cfg := config.MustLoad()
	log := SetupLogger(cfg.Env)
	slog.SetDefault(log)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("app init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.SetupRoutes(); err != nil {
		log.Error("app setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		log.Error("application terminated with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func SetupLogger(env string) *slog.Logger {
	var log *slog.Logger
	level := slog.LevelInfo
	switch strings.ToLower(env) {
	case "local", "dev", "development":
		level = slog.LevelDebug
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	case "prod", "production":
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
	default:
		level = slog.LevelDebug
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: true}))
		slog.Warn("Unknown environment in SetupLogger, defaulting to 'local' text debug logger", slog.String("env", env))
	}
	return log
}
