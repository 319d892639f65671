package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint on r. apiMiddleware only runs for the
// browser-facing /api routes; vendor webhooks bypass it so they are always
// acknowledged.
func (h *handler) RegisterRoutes(r *gin.Engine, apiMiddleware ...gin.HandlerFunc) {
	r.Use(ErrorHandler())

	api := r.Group("/api", apiMiddleware...)
	api.POST("/sessions", h.CreateSession)
	api.POST("/paymentMethods", h.PaymentMethods)
	api.POST("/payments", h.SubmitPayment)
	api.POST("/payments/details", h.SubmitPaymentDetails)
	api.POST("/paymentLinks", h.CreatePaymentLink)
	api.GET("/payment-status/:orderRef", h.PaymentStatus)
	api.POST("/recheck-payment-status", h.RecheckPaymentStatus)
	api.GET("/debug/payment-statuses", h.AllPaymentStatuses)
	api.GET("/config", h.ClientConfig)

	r.POST("/api/webhooks/notifications", h.Webhook)

	r.GET("/handleShopperRedirect", h.HandleShopperRedirect)
	r.POST("/handleShopperRedirect", h.HandleShopperRedirect)
	r.GET("/result/:type", h.Result)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(h.notFound)
}

func (h *handler) notFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet && h.opts.StaticDir != "" {
		name := c.Request.URL.Path
		if name == "/" {
			name = "/index.html"
		}
		path := filepath.Join(h.opts.StaticDir, filepath.Clean("/"+name))
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			c.File(path)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": "Not found",
		"code":  "NOT_FOUND",
		"path":  c.Request.URL.Path,
	})
}
