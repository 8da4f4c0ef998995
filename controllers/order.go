package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/middleware"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

// OrderController handles order placement and per-user order history.
// Client-declared amounts are accepted as authoritative; only the
// final amount is derived server-side from total and discount.
type OrderController struct {
	Orders       repository.OrderStore
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders repository.OrderStore, emailService *utils.EmailService) *OrderController {
	return &OrderController{Orders: orders, EmailService: emailService}
}

// OrderItemRequest is one purchased line in the checkout payload.
type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"required,objectid"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Products      []OrderItemRequest `json:"products" validate:"required,min=1,dive"`
	TotalAmount   float64            `json:"totalAmount" validate:"required,gt=0"`
	Discount      float64            `json:"discount" validate:"gte=0"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"paymentMethod"`
}

// CreateOrder persists a new order snapshot owned by the caller.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.WriteFieldErrors(w, fields)
		return
	}

	items := make([]models.OrderItem, 0, len(req.Products))
	for _, p := range req.Products {
		productID, err := primitive.ObjectIDFromHex(p.ProductID)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Each product must have a valid productId and a positive quantity.")
			return
		}
		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Name:      p.Name,
			Image:     p.Image,
		})
	}

	order := models.Order{
		UserID:        user.ID,
		Products:      items,
		TotalAmount:   req.TotalAmount,
		Discount:      req.Discount,
		FinalAmount:   req.TotalAmount - req.Discount,
		Status:        models.OrderStatusPending,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := oc.Orders.Create(ctx, &order); err != nil {
		log.Printf("order create: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating order")
		return
	}

	if err := oc.EmailService.SendOrderConfirmationEmail(user.Email, order); err != nil {
		log.Printf("order create: sending confirmation email: %v", err)
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// GetOrders lists the caller's orders. No cross-user access.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	orders, err := oc.Orders.FindByUser(ctx, user.ID)
	if err != nil {
		log.Printf("order list: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching orders")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
	})
}
