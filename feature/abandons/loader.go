package abandons

import (
	"abandon-report/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the abandons feature. archive may be nil.
func NewFeature(logger *zap.Logger, cache *reconcile.IndexCache, archive *Archive, defaults reconcile.Options) *Feature {
	svc := NewService(logger, cache, archive)
	return &Feature{service: svc, handler: NewHandler(svc, logger, defaults)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "abandons"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
