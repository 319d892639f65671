package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"golang-adyen-checkout/internal/services/payments/countries"
	"golang-adyen-checkout/internal/services/payments/providers"
	"golang-adyen-checkout/internal/services/payments/redirect"
	"golang-adyen-checkout/internal/services/payments/store"
	"golang-adyen-checkout/internal/services/payments/types"
)

const maxWebhookBytes = int64(65536)

type Options struct {
	// BaseURL overrides the scheme and host used in return URLs.
	BaseURL     string
	ClientKey   string
	Environment string
	Sandbox     bool
	// StaticDir is served for unknown paths when it exists.
	StaticDir string
}

type handler struct {
	provider providers.PaymentProvider
	store    store.Store
	opts     Options
}

func NewHandler(provider providers.PaymentProvider, st store.Store, opts Options) *handler {
	return &handler{
		provider: provider,
		store:    st,
		opts:     opts,
	}
}

func (h *handler) CreateSession(c *gin.Context) {
	orderRef := store.GenerateOrderRef()
	paymentMethod := c.DefaultQuery("type", "default")
	country := countries.EnforcedCountry(paymentMethod, c.Query("country"))

	in := types.SessionInput{
		OrderRef:        orderRef,
		BaseURL:         h.baseURL(c),
		PaymentMethod:   paymentMethod,
		SelectedCountry: country,
	}

	res, err := h.provider.CreateSession(c.Request.Context(), in)
	if err != nil {
		slog.Error("session creation failed", "order_ref", orderRef, "payment_method", paymentMethod, "country", country, "error", err)
		c.Error(err)
		return
	}

	meta := store.OrderMetadata{PaymentMethod: paymentMethod, SelectedCountry: country}
	if err := h.store.SaveMetadata(c.Request.Context(), orderRef, meta); err != nil {
		slog.Warn("failed to store order metadata", "order_ref", orderRef, "error", err)
	}

	c.JSON(http.StatusOK, res)
}

func (h *handler) PaymentMethods(c *gin.Context) {
	in := types.PaymentMethodsInput{
		CountryCode:      c.Query("country"),
		ShopperReference: c.Query("shopperReference"),
	}

	var body types.PaymentMethodsInput
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.Error(badRequest("INVALID_JSON", "Invalid JSON"))
		return
	}
	if body.CountryCode != "" {
		in.CountryCode = body.CountryCode
	}
	if body.Amount != nil {
		in.Amount = body.Amount
	}
	if body.ShopperLocale != "" {
		in.ShopperLocale = body.ShopperLocale
	}
	if body.ShopperReference != "" {
		in.ShopperReference = body.ShopperReference
	}

	res, err := h.provider.PaymentMethods(c.Request.Context(), in)
	if err != nil {
		slog.Error("failed to retrieve payment methods", "country", in.CountryCode, "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handler) SubmitPayment(c *gin.Context) {
	var in types.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(badRequest("INVALID_JSON", "Invalid JSON"))
		return
	}
	in.ShopperIP = clientIP(c)
	in.BaseURL = h.baseURL(c)

	res, err := h.provider.SubmitPayment(c.Request.Context(), in)
	if err != nil {
		slog.Error("submitPayment failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handler) SubmitPaymentDetails(c *gin.Context) {
	var in types.DetailsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(badRequest("INVALID_JSON", "Invalid JSON"))
		return
	}

	res, err := h.provider.SubmitDetails(c.Request.Context(), in)
	if err != nil {
		slog.Error("submitPaymentDetails failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// HandleShopperRedirect finishes a redirect-based payment. The vendor sends
// the shopper back with GET query parameters or a POST form, depending on
// the method.
func (h *handler) HandleShopperRedirect(c *gin.Context) {
	params := redirectParams(c)

	in := types.DetailsInput{}
	switch {
	case params["redirectResult"] != "":
		in.RedirectResult = params["redirectResult"]
	case params["payload"] != "":
		in.Payload = params["payload"]
	default:
		c.Error(badRequest("MISSING_PAYMENT_DETAILS", "Missing payment details"))
		return
	}

	orderRef := params["orderRef"]
	if orderRef == "" {
		c.Error(badRequest("MISSING_ORDER_REF", "Missing order reference"))
		return
	}

	ctx := c.Request.Context()
	res, err := h.provider.SubmitDetails(ctx, in)
	if err != nil {
		slog.Error("redirect handling failed", "order_ref", orderRef, "method", c.Request.Method, "error", err)
		c.Error(err)
		return
	}

	resultCode := res.GetResultCode()
	if resultCode != "" {
		if _, err := h.store.SaveStatus(ctx, orderRef, resultCode); err != nil {
			slog.Warn("failed to store payment status", "order_ref", orderRef, "error", err)
		}
		if redirect.IsTransient(resultCode) {
			slog.Info("payment in transient state, final status follows by webhook", "order_ref", orderRef, "result_code", resultCode)
		}
	}

	var meta store.OrderMetadata
	if m, err := h.store.Metadata(ctx, orderRef); err == nil {
		meta = m
	}

	dest := redirect.Destination(resultCode, meta.PaymentMethod, meta.SelectedCountry, h.opts.Sandbox)
	if resultCode == redirect.ResultCancelled && dest == redirect.Pending {
		slog.Info("routing Cancelled to pending", "order_ref", orderRef, "method", meta.PaymentMethod, "country", meta.SelectedCountry)
	}
	if dest == redirect.Error {
		slog.Warn("unknown result code", "order_ref", orderRef, "result_code", resultCode)
	}

	rd := types.RedirectData{RedirectResult: in.RedirectResult, SessionID: params["sessionId"]}
	if rd.RedirectResult == "" {
		rd.RedirectResult = in.Payload
	}
	data, _ := json.Marshal(rd)

	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, redirect.ResultURL(dest, orderRef, string(data)))
}

// redirectBody is the JSON variant of the shopper redirect POST. Other
// fields the caller sends are ignored.
type redirectBody struct {
	RedirectResult string `json:"redirectResult"`
	Payload        string `json:"payload"`
	OrderRef       string `json:"orderRef"`
	SessionID      string `json:"sessionId"`
}

func redirectParams(c *gin.Context) map[string]string {
	keys := []string{"redirectResult", "payload", "orderRef", "sessionId"}
	out := make(map[string]string, len(keys))

	if c.Request.Method == http.MethodPost && strings.HasPrefix(c.ContentType(), "application/json") {
		var body redirectBody
		if err := c.ShouldBindJSON(&body); err == nil {
			out["redirectResult"] = body.RedirectResult
			out["payload"] = body.Payload
			out["orderRef"] = body.OrderRef
			out["sessionId"] = body.SessionID
		}
	}

	for _, k := range keys {
		if out[k] != "" {
			continue
		}
		if c.Request.Method == http.MethodPost {
			out[k] = c.PostForm(k)
		}
		// orderRef rides on the return URL even when the rest is POSTed.
		if out[k] == "" {
			out[k] = c.Query(k)
		}
	}

	return out
}

func (h *handler) PaymentStatus(c *gin.Context) {
	orderRef := c.Param("orderRef")
	if orderRef == "" {
		c.Error(badRequest("MISSING_ORDER_REF", "Order reference is required"))
		return
	}

	rec, err := h.store.Status(c.Request.Context(), orderRef)
	if errors.Is(err, store.ErrNotFound) {
		c.Error(&apiError{
			Status:  http.StatusNotFound,
			Code:    "PAYMENT_NOT_FOUND",
			Message: "Payment not found",
			Extra:   gin.H{"orderRef": orderRef},
		})
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *handler) AllPaymentStatuses(c *gin.Context) {
	statuses, err := h.store.AllStatuses(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(statuses), "statuses": statuses})
}

// RecheckPaymentStatus re-submits the redirect result and overwrites the
// stored status with whatever the vendor answers now.
func (h *handler) RecheckPaymentStatus(c *gin.Context) {
	var body types.RecheckRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.Error(badRequest("INVALID_JSON", "Invalid JSON"))
		return
	}
	if body.OrderRef == "" {
		c.Error(badRequest("MISSING_ORDER_REF", "Order reference is required"))
		return
	}
	if body.RedirectResult == "" && body.Payload == "" {
		c.Error(badRequest("MISSING_PAYMENT_DETAILS", "Redirect result or payload is required"))
		return
	}

	in := types.DetailsInput{RedirectResult: body.RedirectResult}
	if in.RedirectResult == "" {
		in.Payload = body.Payload
	}

	ctx := c.Request.Context()
	res, err := h.provider.SubmitDetails(ctx, in)
	if err != nil {
		slog.Error("status re-check failed", "order_ref", body.OrderRef, "error", err)
		c.Error(&apiError{
			Status:  http.StatusInternalServerError,
			Code:    "RECHECK_ERROR",
			Message: "Failed to re-check payment status",
			Extra:   gin.H{"details": err.Error()},
		})
		return
	}

	if code := res.GetResultCode(); code != "" {
		if _, err := h.store.SaveStatus(ctx, body.OrderRef, code); err != nil {
			slog.Warn("failed to store payment status", "order_ref", body.OrderRef, "error", err)
		}
		slog.Info("payment status re-checked", "order_ref", body.OrderRef, "result_code", code)
	}

	c.JSON(http.StatusOK, types.RecheckResponse{
		OrderRef:     body.OrderRef,
		Status:       res.GetResultCode(),
		PspReference: res.GetPspReference(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) CreatePaymentLink(c *gin.Context) {
	var in types.PaymentLinkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(badRequest("INVALID_JSON", "Invalid JSON"))
		return
	}
	in.CountryCode = countries.NormalizeCountry(c.Query("country"))
	in.BaseURL = h.baseURL(c)

	link, err := h.provider.CreatePaymentLink(c.Request.Context(), in)
	if err != nil {
		slog.Error("error creating payment link", "country", in.CountryCode, "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Webhook always acknowledges; a non-2xx answer makes the vendor retry the
// whole batch.
func (h *handler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.Error("error reading webhook body", "error", err)
		c.String(http.StatusOK, "[accepted]")
		return
	}

	items, err := h.provider.ParseNotifications(payload)
	if err != nil {
		slog.Error("error processing webhook", "error", err)
		c.String(http.StatusOK, "[accepted]")
		return
	}

	for _, n := range items {
		code, err := n.ResultCode()
		if errors.Is(err, providers.ErrUnknownWebhookEventType) {
			slog.Info("webhook event ignored", "event_code", n.EventCode, "merchant_reference", n.MerchantReference)
			continue
		}

		if _, err := h.store.SaveStatus(c.Request.Context(), n.MerchantReference, code); err != nil {
			slog.Error("failed to store webhook status", "merchant_reference", n.MerchantReference, "error", err)
			continue
		}
		slog.Info("webhook status stored",
			"merchant_reference", n.MerchantReference,
			"psp_reference", n.PspReference,
			"event_code", n.EventCode,
			"result_code", code,
		)
	}

	c.String(http.StatusOK, "[accepted]")
}

func (h *handler) ClientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, types.ClientConfigResponse{
		ClientKey:   h.opts.ClientKey,
		Environment: strings.ToLower(h.opts.Environment),
	})
}

func (h *handler) Result(c *gin.Context) {
	body := gin.H{
		"type":         c.Param("type"),
		"orderRef":     c.DefaultQuery("orderRef", "N/A"),
		"redirectData": nil,
	}
	if rd := c.Query("redirectData"); rd != "" {
		body["redirectData"] = rd
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) baseURL(c *gin.Context) string {
	if h.opts.BaseURL != "" {
		return strings.TrimRight(h.opts.BaseURL, "/")
	}

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	switch {
	case ip == "" || ip == "::1":
		return "127.0.0.1"
	case strings.HasPrefix(ip, "::ffff:"):
		return strings.TrimPrefix(ip, "::ffff:")
	}
	return ip
}
