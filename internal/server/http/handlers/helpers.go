package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context. The zero
// actor means the auth middleware did not run, which only happens on
// misconfigured routes.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}
