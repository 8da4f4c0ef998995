package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/middleware"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

// ProductController handles catalog requests. Reads are public; the
// router gates mutation behind the admin role.
type ProductController struct {
	Products repository.ProductStore
}

// NewProductController creates a new ProductController.
func NewProductController(products repository.ProductStore) *ProductController {
	return &ProductController{Products: products}
}

// CreateProductRequest is the catalog creation payload.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Brand       string  `json:"brand"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Image       string  `json:"image"`
}

// UpdateProductRequest is a partial update; nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

// CreateProduct adds a new product owned by the calling admin.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.WriteFieldErrors(w, fields)
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Stock:       req.Stock,
		Image:       req.Image,
		CreatorID:   user.ID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Create(ctx, &product); err != nil {
		log.Printf("product create: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

// GetProducts lists the catalog, optionally filtered by name, category,
// brand and price (exact value or inclusive "min-max" range).
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}

	if price := q.Get("price"); price != "" {
		if strings.Contains(price, "-") {
			parts := strings.SplitN(price, "-", 2)
			min, errMin := strconv.ParseFloat(parts[0], 64)
			max, errMax := strconv.ParseFloat(parts[1], 64)
			if errMin != nil || errMax != nil {
				utils.WriteError(w, http.StatusBadRequest, "Invalid price range.")
				return
			}
			filter.PriceMin = &min
			filter.PriceMax = &max
		} else {
			exact, err := strconv.ParseFloat(price, 64)
			if err != nil {
				utils.WriteError(w, http.StatusBadRequest, "Invalid price.")
				return
			}
			filter.PriceExact = &exact
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	products, err := pc.Products.Find(ctx, filter)
	if err != nil {
		log.Printf("product query: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"products": products,
	})
}

// GetProductByID retrieves a single product.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	product, err := pc.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("product fetch: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error fetching product")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

// UpdateProduct applies a partial field set to a product.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input. Price must be a positive number.")
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input. Stock cannot be negative.")
		return
	}

	upd := repository.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Stock:       req.Stock,
		Image:       req.Image,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	product, err := pc.Products.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("product update: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

// DeleteProduct hard-deletes a product by id.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Product not found.")
			return
		}
		log.Printf("product delete: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product deleted",
	})
}
