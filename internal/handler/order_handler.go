package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/service"
)

// UserIDHeader carries the id of the calling user
const UserIDHeader = "X-User-ID"

// OrderHandler handles order and dashboard HTTP requests
type OrderHandler struct {
	orderService service.OrderService
	userService  service.UserService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, userService service.UserService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
		logger:       logger,
	}
}

// SubmitOrder handles POST /providers/{id}/orders
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	providerID, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidID, "Invalid provider ID")
		return
	}

	user, err := h.currentUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req service.SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Invalid JSON format")
		return
	}

	order, err := h.orderService.Submit(r.Context(), providerID, &req, user)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, order)
}

// ListProviderOrders handles GET /providers/{id}/orders
func (h *OrderHandler) ListProviderOrders(w http.ResponseWriter, r *http.Request) {
	providerID, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidID, "Invalid provider ID")
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.OrderFilter{
		Status:   query.Get("status"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.orderService.ListForProvider(r.Context(), providerID, filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// UpdateOrderStatus handles PATCH /orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := idParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidID, "Invalid order ID")
		return
	}

	user, err := h.currentUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "Invalid JSON format")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, &req, user)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, order)
}

// Dashboard handles GET /dashboard
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	result, err := h.orderService.Dashboard(r.Context(), user)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// currentUser resolves the X-User-ID header. A missing header yields a nil
// user and lets the service decide whether one is required.
func (h *OrderHandler) currentUser(r *http.Request) (*models.User, error) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, models.ErrUnauthorized("invalid " + UserIDHeader + " header")
	}

	return h.userService.Resolve(r.Context(), id)
}
