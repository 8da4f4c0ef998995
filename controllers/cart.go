package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/middleware"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

// CartController handles the user's single active cart. Every mutation
// recomputes the cart total by summing line prices, never incrementally.
type CartController struct {
	Carts    repository.CartStore
	Products repository.ProductStore
}

// NewCartController creates a new CartController.
func NewCartController(carts repository.CartStore, products repository.ProductStore) *CartController {
	return &CartController{Carts: carts, Products: products}
}

// AddToCartRequest is the add-to-cart payload.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CartItemRef is a payload carrying only a product reference.
type CartItemRef struct {
	ProductID string `json:"productId" validate:"required,objectid"`
}

// ProductSummary is the expanded product view inside a cart response.
type ProductSummary struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartItemView is a line item with its product reference expanded.
type CartItemView struct {
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Price     float64            `json:"price"`
	Product   *ProductSummary    `json:"product,omitempty"`
}

// CartView is the cart response shape for GET.
type CartView struct {
	ID         primitive.ObjectID `json:"id"`
	UserID     primitive.ObjectID `json:"userId"`
	Items      []CartItemView     `json:"items"`
	TotalPrice float64            `json:"totalPrice"`
}

// AddToCart puts quantity units of a product into the caller's cart,
// creating the cart lazily. Stock is checked against the requested
// quantity, not the cart's cumulative quantity for the product.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.WriteFieldErrors(w, fields)
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := cc.Products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("cart add: looking up product: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error adding product to cart")
		return
	}
	if product.Stock < req.Quantity {
		utils.WriteError(w, http.StatusBadRequest, "Not enough stock available.")
		return
	}

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("cart add: looking up cart: %v", err)
			utils.WriteError(w, http.StatusInternalServerError, "Error adding product to cart")
			return
		}
		cart = &models.Cart{UserID: user.ID, Items: []models.CartItem{}}
	}

	cart.AddItem(productID, req.Quantity, product.Price)

	if err := cc.Carts.Save(ctx, cart); err != nil {
		log.Printf("cart add: saving cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error adding product to cart")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product added to cart",
		"cart":    cart,
	})
}

// RemoveFromCart deletes the line item named in the path.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Cart not found.")
			return
		}
		log.Printf("cart remove: looking up cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to remove product from cart")
		return
	}

	if !cart.RemoveItem(productID) {
		utils.WriteError(w, http.StatusNotFound, "Product not found in cart.")
		return
	}

	if err := cc.Carts.Save(ctx, cart); err != nil {
		log.Printf("cart remove: saving cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to remove product from cart")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product removed from cart",
		"cart":    cart,
	})
}

// DecreaseQuantity lowers a line item's quantity by one, repricing it
// from the product's current price; a quantity-1 item is removed.
func (cc *CartController) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CartItemRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.WriteFieldErrors(w, fields)
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Cart not found.")
			return
		}
		log.Printf("cart decrease: looking up cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update product quantity")
		return
	}

	item := cart.Item(productID)
	if item == nil {
		utils.WriteError(w, http.StatusNotFound, "Product not found in cart.")
		return
	}

	if item.Quantity > 1 {
		// Reprice from the live product record, not the cached line price.
		product, err := cc.Products.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.WriteError(w, http.StatusNotFound, "Product not found.")
				return
			}
			log.Printf("cart decrease: looking up product: %v", err)
			utils.WriteError(w, http.StatusInternalServerError, "Failed to update product quantity")
			return
		}
		cart.DecreaseItem(productID, product.Price)
	} else {
		cart.RemoveItem(productID)
	}

	if err := cc.Carts.Save(ctx, cart); err != nil {
		log.Printf("cart decrease: saving cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update product quantity")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product quantity updated",
		"cart":    cart,
	})
}

// ClearCart empties the caller's cart. The cart record survives, so
// repeated clears succeed.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Cart not found.")
			return
		}
		log.Printf("cart clear: looking up cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	cart.Clear()

	if err := cc.Carts.Save(ctx, cart); err != nil {
		log.Printf("cart clear: saving cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Cart cleared",
		"cart":    cart,
	})
}

// GetCart returns the caller's cart with each line item's product
// expanded to its current name and price.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Cart is empty.")
			return
		}
		log.Printf("cart get: looking up cart: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}

	view := CartView{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      []CartItemView{},
		TotalPrice: cart.TotalPrice,
	}
	for _, item := range cart.Items {
		itemView := CartItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		product, err := cc.Products.FindByID(ctx, item.ProductID)
		switch {
		case err == nil:
			itemView.Product = &ProductSummary{Name: product.Name, Price: product.Price}
		case errors.Is(err, repository.ErrNotFound):
			// Product deleted since it was added; keep the bare reference.
		default:
			log.Printf("cart get: expanding product: %v", err)
			utils.WriteError(w, http.StatusInternalServerError, "Failed to retrieve cart")
			return
		}
		view.Items = append(view.Items, itemView)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"cart": view})
}
