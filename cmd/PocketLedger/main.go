package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/PocketLedger/internal/auth"
	database "github.com/sebuszqo/PocketLedger/internal/db"
	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/infrastructure"
	"github.com/sebuszqo/PocketLedger/internal/ledger/interfaces"
	"github.com/sebuszqo/PocketLedger/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	dbService          *database.DBService
	authHandler        *auth.Handler
	authService        auth.Service
	userHandler        *user.Handler
	accountHandler     *interfaces.AccountHandler
	transactionHandler *interfaces.TransactionHandler
}

func NewServer(
	dbService *database.DBService,
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	accountHandler *interfaces.AccountHandler,
	transactionHandler *interfaces.TransactionHandler,
) *Server {
	return &Server{
		dbService:          dbService,
		authHandler:        authHandler,
		authService:        authService,
		userHandler:        userHandler,
		accountHandler:     accountHandler,
		transactionHandler: transactionHandler,
		router:             http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.dbService.Health())
}

func (s *Server) RegisterRoutes() {
	withAuth := s.authService.JWTAccessTokenMiddleware()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("POST /api/protected/auth/logout", withAuth(http.HandlerFunc(s.authHandler.HandleLogout)))
	protectedRoutes.Handle("GET /api/protected/profile", withAuth(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", withAuth(http.HandlerFunc(s.userHandler.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", withAuth(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", withAuth(http.HandlerFunc(s.authHandler.HandleVerifyTwoFactorCode)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", withAuth(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// ACCOUNTS API
	protectedRoutes.Handle("GET /api/protected/accounts", withAuth(http.HandlerFunc(s.accountHandler.ListAccounts)))
	protectedRoutes.Handle("POST /api/protected/accounts", withAuth(http.HandlerFunc(s.accountHandler.CreateAccount)))
	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}", withAuth(http.HandlerFunc(s.accountHandler.GetAccount)))
	protectedRoutes.Handle("PUT /api/protected/accounts/{accountID}", withAuth(http.HandlerFunc(s.accountHandler.UpdateAccount)))
	protectedRoutes.Handle("DELETE /api/protected/accounts/{accountID}", withAuth(http.HandlerFunc(s.accountHandler.DeleteAccount)))

	// TRANSACTIONS API
	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}/transactions", withAuth(http.HandlerFunc(s.transactionHandler.ListTransactions)))
	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}/transactions/search", withAuth(http.HandlerFunc(s.transactionHandler.SearchTransactions)))
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/transactions", withAuth(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	protectedRoutes.Handle("PUT /api/protected/transactions/{transactionID}", withAuth(http.HandlerFunc(s.transactionHandler.UpdateTransaction)))
	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}", withAuth(http.HandlerFunc(s.transactionHandler.DeleteTransaction)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	accountRepo := infrastructure.NewAccountRepository(dbService.DB)
	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)

	accountService := application.NewAccountService(accountRepo)
	transactionService := application.NewTransactionService(accountRepo, transactionRepo)

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, defaultAccountCreator{accountService})
	userHandler := user.NewHandler(userService, accountService)

	sessionRepo := auth.NewSessionRepository(dbService.DB)
	jwtManager := auth.NewJWTManager()
	authService := auth.NewAuthService(sessionRepo, userService, jwtManager, auth.Authenticator{})
	authHandler := auth.NewHandler(authService)

	accountHandler := interfaces.NewAccountHandler(accountService, respondJSON, respondError)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)

	server := NewServer(dbService, authHandler, authService, userHandler, accountHandler, transactionHandler)
	server.RegisterRoutes()

	if err := StartSessionCleanupScheduler(authService); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := loggingMiddleware(server.router)
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// defaultAccountCreator adapts the account service to the registration flow:
// every new user starts with one account named after them.
type defaultAccountCreator struct {
	accounts *application.AccountService
}

func (c defaultAccountCreator) CreateDefaultAccount(userID, name string) error {
	_, err := c.accounts.CreateAccount(userID, name)
	return err
}

// StartSessionCleanupScheduler purges expired refresh sessions every hour.
func StartSessionCleanupScheduler(authService auth.Service) error {
	c := cron.New()
	_, err := c.AddFunc("@every 1h", func() {
		if _, err := authService.PurgeExpiredSessions(); err != nil {
			log.Printf("Error purging expired sessions: %v", err)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
