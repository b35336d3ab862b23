package middleware

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
	"github.com/sirupsen/logrus"
)

// HoneybadgerMiddleware reports panics and 5xx responses to Honeybadger.
// Client errors are only logged: the read path never fails, so 4xx here means
// a bad admin payload or an expired session, not a fault.
// On panic, it notifies Honeybadger and re-panics to allow gin.Recovery to handle the response.
func HoneybadgerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	apiKey := os.Getenv("HONEYBADGER_API_KEY")
	if apiKey == "" {
		log.Info("Honeybadger is not active. To enable error reporting, set the HONEYBADGER_API_KEY environment variable.")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	honeybadger.Configure(honeybadger.Configuration{
		APIKey: apiKey,
		Env:    os.Getenv("VAC_SITE_ENV"),
	})

	log.Info("Honeybadger error reporting is enabled.")
	entry := log.WithField("component", "honeybadger")

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				honeybadger.Notify(fmt.Sprintf("Panic: %s %s", c.Request.Method, c.FullPath()),
					c.Request, honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
				entry.Error("recovered from panic, notified Honeybadger: ", rec)
				panic(rec)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		switch {
		case status >= 500:
			hbCtx := honeybadger.Context{"route": c.FullPath()}
			if len(c.Errors) > 0 {
				hbCtx["errors"] = c.Errors.String()
			}
			honeybadger.Notify(fmt.Sprintf("Error: HTTP %d: %s %s", status, c.Request.Method, c.FullPath()),
				c.Request, hbCtx, honeybadger.Tags{"5XX", "http"})
			entry.Warnf("reported HTTP %d for %s %s", status, c.Request.Method, c.Request.URL.Path)
		case status >= 400 && status != 404:
			entry.Debugf("HTTP %d for %s %s", status, c.Request.Method, c.Request.URL.Path)
		}
	}
}
