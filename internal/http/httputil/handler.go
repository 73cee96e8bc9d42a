package httputil

import "github.com/gin-gonic/gin"

// IHttpHandler is a route bundle mounted under a common root. Handlers get
// the public, private and admin groups and attach their routes to whichever
// they need.
type IHttpHandler interface {
	Root() string
	SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup)
}
