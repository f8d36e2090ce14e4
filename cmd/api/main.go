package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/infra/database"
	"github.com/cariaestates/backoffice/internal/infra/feed"
	"github.com/cariaestates/backoffice/internal/infra/http/handlers"
	"github.com/cariaestates/backoffice/internal/infra/http/middleware"
	"github.com/cariaestates/backoffice/internal/infra/mail"
	"github.com/cariaestates/backoffice/internal/infra/queue"
	"github.com/cariaestates/backoffice/internal/infra/session"
	"github.com/cariaestates/backoffice/internal/store"
	"github.com/cariaestates/backoffice/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Slot durável de sessão
	sessions, err := session.NewFileStore(getenv("SESSION_FILE", "data/session.json"))
	if err != nil {
		log.Fatal(err)
	}

	// 2. Postgres (opcional: só serve o arquivamento dos logs do painel)
	var db *sql.DB
	var archive store.ArchiveSink
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = database.NewDBConnection(dsn)
		if err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		defer db.Close()

		repo := database.NewArchiveRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("❌ Postgres: schema de arquivo: %v", err)
		}
		archive = repo
	}

	// 3. RabbitMQ (opcional: eventos do pipeline + mail worker)
	var rabbitConn *amqp.Connection
	var producer usecase.QueueProducerInterface
	rmq, err := queue.NewRabbitMQ(
		getenv("RABBITMQ_USER", "user"),
		getenv("RABBITMQ_PASS", "password"),
		getenv("RABBITMQ_HOST", "localhost"),
		getenv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Printf("⚠️ RabbitMQ indisponível, eventos de lead desligados: %v", err)
	} else {
		defer rmq.Conn.Close()
		defer rmq.Ch.Close()
		rabbitConn = rmq.Conn
		producer = queue.NewProducer(rmq.Conn, rmq.Ch)

		// Worker: consome a fila e avisa a caixa de vendas por email
		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		)
		worker := queue.NewWorker(rmq.Ch, mailSender, os.Getenv("SALES_NOTIFY_EMAIL"))
		go worker.Start(queue.QueueName)
	}

	// 4. Store (instância injetada, nada de estado de pacote)
	cfg := store.Config{
		TenantKey:     getenv("TENANT_KEY", "caria"),
		MatchStrategy: store.MatchStrategy(os.Getenv("LEAD_MATCH_STRATEGY")),
	}
	if advisors := os.Getenv("ADVISORS"); advisors != "" {
		cfg.Advisors = strings.Split(advisors, ",")
	}
	adminStore := store.New(cfg, sessions, archive)

	// 5. Monitor de SLA/reminder
	monitor := store.NewMonitor(adminStore)
	if interval, err := time.ParseDuration(os.Getenv("SLA_TICK_INTERVAL")); err == nil && interval > 0 {
		monitor.Interval = interval
	}
	monitor.OnBreach = func(lead entity.InboxLead) {
		middleware.RecordSLABreach()
		publishMonitorEvent(producer, queue.EventSLABreached, lead)
	}
	monitor.OnReminder = func(lead entity.InboxLead) {
		middleware.RecordReminderFired()
		publishMonitorEvent(producer, queue.EventReminderDue, lead)
	}

	// 6. Feed de leads (mock quando FEED_URL não está configurado)
	var leadFeed usecase.FeedInterface
	if feedURL := os.Getenv("FEED_URL"); feedURL != "" {
		leadFeed = feed.NewClient(feedURL, os.Getenv("FEED_API_TOKEN"))
	} else {
		log.Println("⚠️ FEED_URL não configurado, usando feed simulado")
		leadFeed = feed.NewMockFeed()
	}

	// 7. UseCases
	loadUC := usecase.NewLoadLeadsUseCase(adminStore, leadFeed)
	convertUC := usecase.NewConvertLeadUseCase(adminStore, producer)
	captureUC := usecase.NewCaptureLeadUseCase(adminStore)

	// 8. Handlers
	auth := middleware.NewAuthMiddleware(getenv("JWT_SECRET", "dev-secret-change-me"))
	authHandler := handlers.NewAuthHandler(adminStore, auth)
	stateHandler := handlers.NewStateHandler(adminStore)
	userHandler := handlers.NewUserHandler(adminStore)
	clientHandler := handlers.NewClientHandler(adminStore)
	leadHandler := handlers.NewLeadHandler(adminStore, loadUC, convertUC, captureUC)
	salesHandler := handlers.NewSalesHandler(adminStore)
	notifHandler := handlers.NewNotificationHandler(adminStore)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 9. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Post("/auth/login", authHandler.HandleLogin)
	r.Post("/auth/logout", authHandler.HandleLogout)
	r.Post("/webhook/leads", leadHandler.HandleCaptureWebhook)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/state", stateHandler.HandleGetState)
		r.Get("/events", stateHandler.HandleEvents)

		r.Get("/users", userHandler.HandleList)
		r.Post("/users", userHandler.HandleCreate)
		r.Patch("/users/{id}", userHandler.HandleUpdate)
		r.Post("/users/{id}/deactivate", userHandler.HandleDeactivate)
		r.Post("/users/{id}/google/link", userHandler.HandleLinkGoogle)
		r.Post("/users/{id}/google/unlink", userHandler.HandleUnlinkGoogle)

		r.Get("/clients", clientHandler.HandleList)
		r.Post("/clients", clientHandler.HandleCreate)
		r.Patch("/clients/{id}", clientHandler.HandleUpdate)

		r.Get("/leads", leadHandler.HandleList)
		r.Post("/leads/load", leadHandler.HandleLoad)
		r.Post("/leads/auto-distribution/toggle", leadHandler.HandleToggleAutoDistribution)
		r.Post("/leads/{id}/assign", leadHandler.HandleAssign)
		r.Post("/leads/{id}/reminder", leadHandler.HandleSetReminder)
		r.Post("/leads/{id}/convert", leadHandler.HandleConvert)

		r.Get("/sales", salesHandler.HandleList)
		r.Post("/sales/{id}/status", salesHandler.HandleUpdateStatus)

		r.Get("/notifications", notifHandler.HandleList)
		r.Post("/notifications/read-all", notifHandler.HandleMarkAllRead)
		r.Get("/activities", notifHandler.HandleListActivities)
	})

	// 10. Sobe monitor + servidor, com parada limpa nos dois
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go monitor.Start(ctx)

	port := ":" + getenv("PORT", "8080")
	srv := &http.Server{Addr: port, Handler: r}

	go func() {
		log.Printf("🔥 Server Caria BackOffice rodando na porta %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ servidor HTTP: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func publishMonitorEvent(producer usecase.QueueProducerInterface, event string, lead entity.InboxLead) {
	if producer == nil {
		return
	}
	payload := queue.LeadEventPayload{
		Event:      event,
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		Phone:      lead.Phone,
		Email:      lead.Email,
		Region:     lead.Region,
		Intent:     lead.Intent,
		AssignedTo: lead.AssignedTo,
		LeadSource: lead.LeadSource,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := producer.PublishLeadEvent(ctx, payload); err != nil {
		log.Printf("⚠️ monitor: falha ao publicar %s: %v", event, err)
	}
}
