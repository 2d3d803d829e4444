package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"chat-directory-server/internal/config"
	"chat-directory-server/internal/logger"
	"chat-directory-server/internal/utils"
)

var log = logger.New("http")

// RequestLogger logs one line per request through the component logger.
func RequestLogger() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    log.Writer(logger.LevelInfo),
		SkipPaths: []string{"/health"},
		Formatter: func(p gin.LogFormatterParams) string {
			line := fmt.Sprintf("%s %s -> %d (%s) from %s", p.Method, p.Path, p.StatusCode, p.Latency, p.ClientIP)
			if p.ErrorMessage != "" {
				line += ": " + p.ErrorMessage
			}
			return line
		},
	})
}

// Recovery turns a panicking handler into the standard 500 envelope. The
// panic and its stack go to the error log.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(log.Writer(logger.LevelError), func(c *gin.Context, rec any) {
		if !c.Writer.Written() {
			utils.InternalServerError(c, "Internal server error")
		}
		c.Abort()
	})
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// CORS builds the CORS middleware. A "*" origin yields the fully permissive
// policy: any origin, method and header.
func CORS(cfg *config.Config) gin.HandlerFunc {
	return cors.New(CORSConfig(cfg))
}

// CORSConfig returns the cors settings derived from cfg.
func CORSConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowHeaders = []string{"*"}
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "X-Requested-With"}
	}
	return corsConfig
}
