package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/duynhne/form-service/config"
)

// CORSMiddleware permits cross-origin calls. With the default config every
// origin is allowed; CORS_ALLOWED_ORIGINS narrows it to a list.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", TraceIDHeader, TraceParentHeader},
		ExposeHeaders: []string{TraceIDHeader},
	}
	if cfg.AllowAll() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}
