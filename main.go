package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/kuryepanel/backend/config"
	"github.com/kuryepanel/backend/handlers"
	"github.com/kuryepanel/backend/middleware"
	"github.com/kuryepanel/backend/models"
	"github.com/kuryepanel/backend/service"
	"github.com/kuryepanel/backend/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	config.ValidateEnv()

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("mongodb", zap.Error(err))
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logger.Warn("mongodb disconnect", zap.Error(err))
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Fatal("indexes", zap.Error(err))
	}
	if err := seedAdmin(ctx, db, cfg); err != nil {
		logger.Fatal("admin seed", zap.Error(err))
	}

	var storage *service.StorageService
	if cfg.S3Bucket != "" {
		storage, err = service.NewStorageService(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			logger.Fatal("s3", zap.Error(err))
		}
	} else {
		logger.Warn("AWS_S3_BUCKET not set; receipt and document uploads will fail")
	}
	mailer := service.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if mailer == nil {
		logger.Warn("SMTP_HOST not set; verification mails disabled")
	}

	maxBytes := cfg.MaxUploadMB * 1024 * 1024
	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	usersHandler := &handlers.UsersHandler{DB: db, MnemonicKey: cfg.MnemonicEncryptionKey}
	financeHandler := &handlers.FinanceHandler{DB: db}
	deliveryHandler := &handlers.DeliveryHandler{DB: db, Storage: storage, MaxBytes: maxBytes}
	verificationHandler := &handlers.VerificationHandler{DB: db, Storage: storage, Mailer: mailer, MaxBytes: maxBytes}
	accountingHandler := &handlers.AccountingHandler{DB: db}
	managersHandler := &handlers.ManagersHandler{DB: db}
	announcementsHandler := &handlers.AnnouncementsHandler{DB: db}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Get("/users/me", usersHandler.Me)
			r.Get("/users/financial-summary", usersHandler.FinancialSummary)
			r.Get("/users/transactions", usersHandler.Transactions)
			r.Put("/users/payment/iban", usersHandler.UpdateIBANPayment)
			r.Put("/users/payment/crypto", usersHandler.UpdateCryptoPayment)
			r.Post("/users/verification", verificationHandler.Submit)

			r.Post("/deliveries", deliveryHandler.Create)
			r.Get("/deliveries", deliveryHandler.ListOwn)
			r.Get("/deliveries/{id}/receipt", deliveryHandler.ReceiptURL)
			r.Delete("/deliveries/{id}", deliveryHandler.Delete)

			r.Get("/announcements", announcementsHandler.List)
			r.With(managersHandler.RequirePermission(models.ModuleAnnouncements, "create")).
				Post("/announcements", announcementsHandler.Create)
			r.With(managersHandler.RequirePermission(models.ModuleAnnouncements, "update")).
				Put("/announcements/{id}", announcementsHandler.Update)
			r.With(managersHandler.RequirePermission(models.ModuleAnnouncements, "delete")).
				Delete("/announcements/{id}", announcementsHandler.Delete)

			r.With(managersHandler.RequirePermission(models.ModuleUsers, "read")).
				Get("/admin/users", usersHandler.List)
			r.With(managersHandler.RequirePermission(models.ModuleDeliveries, "read")).
				Get("/admin/deliveries", deliveryHandler.ListAll)
			r.With(managersHandler.RequirePermission(models.ModuleDeliveries, "update")).
				Put("/admin/deliveries/{id}/status", deliveryHandler.UpdateStatus)

			r.Route("/accounting", func(r chi.Router) {
				r.With(managersHandler.RequirePermission(models.ModuleAccounting, "create")).
					Post("/", accountingHandler.Create)
				r.With(managersHandler.RequirePermission(models.ModuleAccounting, "read")).
					Get("/", accountingHandler.List)
				r.With(managersHandler.RequirePermission(models.ModuleAccounting, "read")).
					Get("/totals", accountingHandler.Totals)
				r.With(managersHandler.RequirePermission(models.ModuleAccounting, "read")).
					Get("/reports", accountingHandler.Report)
				r.With(managersHandler.RequirePermission(models.ModuleAccounting, "update")).
					Put("/{id}", accountingHandler.Update)
				r.With(managersHandler.RequirePermission(models.ModuleAccounting, "delete")).
					Delete("/{id}", accountingHandler.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Delete("/admin/users/{id}", usersHandler.Delete)
				r.Put("/admin/users/{id}/finances", financeHandler.UpdateUserFinances)
				r.Get("/admin/users/{id}/transactions", financeHandler.UserTransactions)
				r.Put("/admin/users/{id}/verification", verificationHandler.Review)
				r.Get("/admin/users/{id}/verification/documents", verificationHandler.DocumentURLs)
				r.Post("/admin/managers", managersHandler.Create)
				r.Get("/admin/managers", managersHandler.List)
				r.Put("/admin/managers/{id}/permissions", managersHandler.UpdatePermissions)
				r.Delete("/admin/managers/{id}", managersHandler.Delete)
				r.Get("/managers/stats", managersHandler.Stats)
			})
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// seedAdmin creates the initial admin account when none exists and
// ADMIN_PASSWORD is configured.
func seedAdmin(ctx context.Context, db *store.DB, cfg *config.Config) error {
	count, err := db.Users().CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	if count > 0 || cfg.AdminPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = db.CreateUser(ctx, &models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		Password:     string(hash),
		Role:         models.RoleAdmin,
		Verification: models.Verification{Status: models.VerificationApproved},
		IsVerified:   true,
		Transactions: []models.Transaction{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		zap.L().Info("admin account seeded", zap.String("username", cfg.AdminUsername))
	}
	return err
}
