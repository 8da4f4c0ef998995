package routes

import (
	"github.com/gorilla/mux"

	"ecommerce-api/controllers"
	"ecommerce-api/middleware"
	"ecommerce-api/models"
	"ecommerce-api/repository"
)

// RegisterRoutes sets up the /api route table, composing the auth gate
// and role checks at the router so handlers never re-check roles.
func RegisterRoutes(router *mux.Router, users repository.UserStore, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController) {
	api := router.PathPrefix("/api").Subrouter()
	authGate := middleware.Auth(users)

	// Public auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", userController.Register).Methods("POST")
	auth.HandleFunc("/login", userController.Login).Methods("POST")

	// Session-bound auth routes
	session := api.PathPrefix("/auth").Subrouter()
	session.Use(authGate)
	session.HandleFunc("/logout", userController.Logout).Methods("POST")
	session.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Public catalog reads
	api.HandleFunc("/products", productController.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Catalog mutation, admin and above
	admin := api.PathPrefix("/products").Subrouter()
	admin.Use(authGate, middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("", productController.CreateProduct).Methods("POST")
	admin.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Cart routes; /clear is registered before the product-id variable
	// so the literal path wins.
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(authGate)
	cart.HandleFunc("", cartController.AddToCart).Methods("POST")
	cart.HandleFunc("", cartController.GetCart).Methods("GET")
	cart.HandleFunc("/clear", cartController.ClearCart).Methods("DELETE")
	cart.HandleFunc("/decrease", cartController.DecreaseQuantity).Methods("PATCH")
	cart.HandleFunc("/{productId}", cartController.RemoveFromCart).Methods("DELETE")

	// Order routes
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(authGate)
	orders.HandleFunc("", orderController.CreateOrder).Methods("POST")
	orders.HandleFunc("", orderController.GetOrders).Methods("GET")
}
