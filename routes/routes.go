package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/currency"
	"github.com/junaidrashid-git/marketplace-api/events"
	"github.com/junaidrashid-git/marketplace-api/notifications"
)

// Deps carries the shared state every route group wires against.
type Deps struct {
	DB       *gorm.DB
	Bus      *events.Bus
	Hub      *notifications.Hub
	Currency *currency.Service
}

// SetupRoutes mounts the whole API surface onto the router.
func SetupRoutes(r *gin.Engine, deps Deps) {
	registerUserRoutes(r, deps)
	registerProductRoutes(r, deps)
	registerVariantRoutes(r, deps)
	registerAttributeRoutes(r, deps)
	registerCartRoutes(r, deps)
	registerOrderRoutes(r, deps)
	registerMiscRoutes(r, deps)
}
