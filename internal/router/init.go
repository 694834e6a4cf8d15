package router

import (
	"github.com/madinafit/fitness-backend/internal/application"
	"github.com/madinafit/fitness-backend/internal/container"
	"github.com/madinafit/fitness-backend/internal/infrastructure/postgres"
	"github.com/madinafit/fitness-backend/internal/infrastructure/redisstore"
	handlers "github.com/madinafit/fitness-backend/internal/interface/http"
	"github.com/madinafit/fitness-backend/internal/router/modules"
)

// InitModules builds the services from container singletons and registers all
// feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := postgres.NewUserRepository(container.GetPGPool())
	workoutRepo := postgres.NewWorkoutRepository(container.GetPGPool())
	codeStore := redisstore.NewResetCodeStore(container.GetRedis())

	accountSvc := application.NewAccountService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
	)

	var pub application.EmailPublisher
	if p := container.GetRabbitPub(); p != nil && cfg.MailConfigured() {
		pub = p
	}
	resetSvc := application.NewResetService(userRepo, codeStore, pub, logger, cfg.ResetCodeTTL)

	workoutSvc := application.NewWorkoutService(workoutRepo, logger)

	accountHandler := handlers.NewAccountHandler(accountSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	resetHandler := handlers.NewResetHandler(resetSvc, logger)
	workoutHandler := handlers.NewWorkoutHandler(workoutSvc, logger)

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewResetModule(resetHandler))
	r.Add(modules.NewWorkoutModule(workoutHandler))
	r.Add(modules.NewDebugModule())
}
