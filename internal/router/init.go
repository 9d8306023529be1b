package router

import (
	"go-clean-api/internal/application/auth"
	"go-clean-api/internal/application/product"
	"go-clean-api/internal/container"
	"go-clean-api/internal/infrastructure/postgres"
	handlers "go-clean-api/internal/interface/http"
	"go-clean-api/internal/router/modules"
)

func buildAuthHandler() *handlers.AuthHandler {
	cfg := container.GetConfig()
	svc := auth.NewService(
		postgres.NewUserRepository(container.GetPGPool()),
		container.GetJWT(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetLogger(),
		auth.Options{
			LockoutMaxAttempts: cfg.LockoutMaxAttempts,
			LockoutWindow:      cfg.LockoutWindow,
			ResetTokenTTL:      cfg.ResetTokenTTL,
			MailEnabled:        cfg.MailSendEnabled,
		},
	)
	return handlers.NewAuthHandler(svc)
}

func buildProductHandler() *handlers.ProductHandler {
	cfg := container.GetConfig()
	indexer := product.NewIndexer(container.GetES(), cfg.ESProductsIndex, container.GetLogger())
	return handlers.NewProductHandler(
		container.GetPGPool(),
		indexer,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
	)
}

// InitModules wires every feature module into the registry. Called once at
// startup, after the container singletons are set.
func InitModules(r *Registry) {
	jwtm := container.GetJWT()
	r.Add(modules.NewAuthModule(buildAuthHandler(), jwtm))
	r.Add(modules.NewProductModule(buildProductHandler(), jwtm))
	r.Add(modules.NewDebugModule())
}
