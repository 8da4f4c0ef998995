package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"ecommerce-api/config"
	"ecommerce-api/controllers"
	"ecommerce-api/repository"
	"ecommerce-api/routes"
	"ecommerce-api/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := repository.Connect(ctx, cfg.MongoURL)
	if err != nil {
		log.Fatalf("connecting to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("disconnecting from MongoDB: %v", err)
		}
	}()

	stores := repository.NewMongoStores(client.Database(cfg.MongoDB))
	if err := stores.EnsureIndexes(ctx); err != nil {
		log.Fatalf("creating indexes: %v", err)
	}

	// Initialize EmailService; nil (disabled) when no API key is set
	emailService := utils.NewEmailService(cfg.SendGridKey, cfg.EmailSender)

	// Initialize controllers
	userController := controllers.NewUserController(stores.Users, emailService, cfg.Env)
	productController := controllers.NewProductController(stores.Products)
	cartController := controllers.NewCartController(stores.Carts, stores.Products)
	orderController := controllers.NewOrderController(stores.Orders, emailService)

	// Set up the router and register routes
	router := mux.NewRouter()
	routes.RegisterRoutes(router, stores.Users, userController, productController, cartController, orderController)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
