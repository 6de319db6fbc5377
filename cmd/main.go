package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/create_booking"
	createVariantHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/create_variant"
	deactivateVariantHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/deactivate_variant"
	deleteBookingHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/get_booking"
	getGroupHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/get_group"
	getRelatedBookingsHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/get_related_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/get_user_bookings"
	getVariantHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/get_variant"
	listVariantsHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/list_variants"
	quoteVariantHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/quote_variant"
	updateBookingHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/update_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/update_booking_status"
	updateGroupStatusHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/update_group_status"
	updatePaymentStatusHandler "github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers/update_payment_status"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/booking"
	groupRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/group"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/idempotency"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/memory"
	variantRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/variant"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/integrations/kafkanotifier"
	bookingsService "github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
	cascadeUC "github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
	createBookingUC "github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/logger"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/metrics"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/txmanager"
)

// Хранилище нужно сервисам и use cases с разными наборами методов,
// поэтому postgres и memory реализации приводятся к общим интерфейсам
type (
	bookingStore interface {
		createBookingUC.BookingRepository
		cascadeUC.BookingRepository
		bookingsService.BookingRepository
	}

	groupStore interface {
		createBookingUC.GroupRepository
		cascadeUC.GroupRepository
	}

	variantStore interface {
		createBookingUC.VariantRepository
		catalogService.VariantRepository
	}

	txManager interface {
		bookingsService.TransactionManager
	}

	idempotencyStore interface {
		createBookingHandler.IdempotencyStore
		Close() error
	}
)

type storage struct {
	bookings bookingStore
	groups   groupStore
	variants variantStore
	tx       txManager
	close    func()
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-HomeServiceBooking...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	// Уведомления
	var notifier notify.Notifier = notify.NewLogNotifier(log)
	var kafkaClient *kafkanotifier.Client
	if cfg.Notifications.Kafka.Enabled {
		kafkaClient, err = kafkanotifier.NewClient(kafkanotifier.Config{
			Brokers:  cfg.Notifications.Kafka.Brokers,
			Topic:    cfg.Notifications.Kafka.Topic,
			ClientID: cfg.Notifications.Kafka.ClientID,
			Timeout:  time.Duration(cfg.Notifications.Kafka.Timeout) * time.Second,
			RetryMax: cfg.Notifications.Kafka.RetryMax,
		}, log)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}
		notifier = kafkaClient
		log.Info("Kafka notifications enabled (brokers=%v, topic=%s)",
			cfg.Notifications.Kafka.Brokers, cfg.Notifications.Kafka.Topic)
	} else {
		log.Info("Kafka disabled, notifications are written to the log")
	}

	trigger := notify.NewTrigger(
		notifier,
		metricsCollector,
		log,
		time.Duration(cfg.Notifications.DispatchTimeout)*time.Second,
	)

	// Idempotency-Key
	idemStore, err := openIdempotencyStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open idempotency store: %v", err)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.groups,
		store.tx,
		log,
	)
	catalogSvc := catalogService.NewService(
		store.variants,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.groups,
		store.variants,
		trigger,
		metricsCollector,
		log,
	)
	cascadeUseCase := cascadeUC.NewUseCase(
		store.bookings,
		store.groups,
		store.tx,
		trigger,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, idemStore, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getRelatedBookings := getRelatedBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, cascadeUseCase, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cascadeUseCase, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getGroup := getGroupHandler.NewHandler(bookingSvc, log)
	updateGroupStatus := updateGroupStatusHandler.NewHandler(cascadeUseCase, log)
	createVariant := createVariantHandler.NewHandler(catalogSvc, log)
	listVariants := listVariantsHandler.NewHandler(catalogSvc, log)
	getVariant := getVariantHandler.NewHandler(catalogSvc, log)
	deactivateVariant := deactivateVariantHandler.NewHandler(catalogSvc, log)
	quoteVariant := quoteVariantHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Каталог ---
	api.HandleFunc("/variants", listVariants.Handle).Methods(http.MethodGet)
	api.HandleFunc("/variants", createVariant.Handle).Methods(http.MethodPost)
	api.HandleFunc("/variants/{variantId}", getVariant.Handle).Methods(http.MethodGet)
	api.HandleFunc("/variants/{variantId}", deactivateVariant.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/variants/{variantId}/quote", quoteVariant.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId}/related", getRelatedBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Бронирования пользователя
	api.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Многодневные группы ---
	api.HandleFunc("/groups/{groupId}", getGroup.Handle).Methods(http.MethodGet)
	api.HandleFunc("/groups/{groupId}/status", updateGroupStatus.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования (одна дата или несколько)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// Настраиваем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений, запущенных запросами
	trigger.Wait()
	log.Info("Pending notifications dispatched")

	if kafkaClient != nil {
		if err := kafkaClient.Close(); err != nil {
			log.Error("Failed to close Kafka producer: %v", err)
		}
	}

	if err := idemStore.Close(); err != nil {
		log.Error("Failed to close idempotency store: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openStorage подключает PostgreSQL или in-memory хранилище в зависимости от database.driver
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		return &storage{
			bookings: memory.NewBookingRepository(),
			groups:   memory.NewGroupRepository(),
			variants: memory.NewVariantRepository(),
			tx:       memory.NewTxManager(),
			close:    func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil метриками обёртка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	return &storage{
		bookings: bookingRepo.NewRepository(wrappedDB),
		groups:   groupRepo.NewRepository(wrappedDB),
		variants: variantRepo.NewRepository(wrappedDB),
		tx:       txmanager.NewTransactionManager(wrappedDB),
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database: %v", err)
			}
		},
	}, nil
}

// openIdempotencyStore выбирает Redis или память для ключей Idempotency-Key
func openIdempotencyStore(cfg *config.Config, log *logger.Logger) (idempotencyStore, error) {
	ttl := time.Duration(cfg.Idempotency.TTL) * time.Second

	if cfg.Idempotency.Backend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Idempotency.Redis.Addr,
			Password: cfg.Idempotency.Redis.Password,
			DB:       cfg.Idempotency.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.Idempotency.Redis.Addr, err)
		}

		log.Info("Idempotency keys stored in Redis (addr=%s, ttl=%s)", cfg.Idempotency.Redis.Addr, ttl)
		return idempotency.NewRedisStore(client, cfg.Idempotency.Redis.KeyPrefix, ttl), nil
	}

	log.Info("Idempotency keys stored in memory (ttl=%s)", ttl)
	return idempotency.NewMemoryStore(ttl, time.Duration(cfg.Idempotency.SweepInterval)*time.Second), nil
}
