package di

import (
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/infrastructure/config"
	"catalog-backend/interfaces/http/rest"
	"catalog-backend/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Router          *rest.Router
	EventPublisher  ports.EventPublisher
	BroadcastQueue  ports.BroadcastQueue
	EmailSender     ports.EmailSender
	ConnectionStore ports.ConnectionStore
	Metrics         *observability.Metrics
}
