package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ecommerce-api/middleware"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

// UserController handles registration, login and session management.
type UserController struct {
	Users        repository.UserStore
	EmailService *utils.EmailService
	Env          string
}

// NewUserController creates a new UserController.
func NewUserController(users repository.UserStore, emailService *utils.EmailService, env string) *UserController {
	return &UserController{
		Users:        users,
		EmailService: emailService,
		Env:          env,
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles user registration. The plaintext password is hashed
// here, before the record is constructed; the role is always "user".
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.WriteFieldErrors(w, fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := uc.Users.FindByEmail(ctx, req.Email); err == nil {
		utils.WriteError(w, http.StatusBadRequest, "Email already in use, please login.")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("register: looking up email: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	if _, err := uc.Users.FindByUsername(ctx, req.Username); err == nil {
		utils.WriteError(w, http.StatusBadRequest, "Username already in use.")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("register: looking up username: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("register: hashing password: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	user := models.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}
	if err := uc.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.WriteError(w, http.StatusBadRequest, "Email already in use, please login.")
			return
		}
		log.Printf("register: inserting user: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	if err := uc.EmailService.SendWelcomeEmail(user.Email, user.Username); err != nil {
		log.Printf("register: sending welcome email: %v", err)
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account successfully created.",
		"user":    user.Public(),
	})
}

// Login authenticates by email and password and issues the session
// token, both in the body and as an http-only cookie.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.WriteFieldErrors(w, fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("login: looking up user: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error while logging in.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		log.Printf("login: generating token: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server error while logging in.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		Secure:   uc.Env != "development",
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

// Logout clears the session cookie. Tokens are not revoked server-side.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   uc.Env != "development",
		SameSite: http.SameSiteStrictMode,
	})
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "User successfully logged out."})
}

// GetProfile returns the authenticated user's public fields.
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user.Public()})
}
