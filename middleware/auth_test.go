package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/middleware"
	"ecommerce-api/mocks"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

// echoUser responds 200 only when the middleware attached an identity.
func echoUser(t *testing.T, want *models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.CurrentUser(r)
		if assert.True(t, ok) {
			assert.Equal(t, want.ID, user.ID)
			assert.Equal(t, want.Role, user.Role)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingToken(t *testing.T) {
	users := new(mocks.MockUserStore)
	handler := middleware.Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	users := new(mocks.MockUserStore)
	handler := middleware.Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Token abc.def.ghi")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGarbageToken(t *testing.T) {
	users := new(mocks.MockUserStore)
	handler := middleware.Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthDeletedUser(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := utils.GenerateJWT(userID.Hex(), models.RoleUser)
	assert.NoError(t, err)

	users := new(mocks.MockUserStore)
	users.On("FindByID", mock.Anything, userID).Return(nil, repository.ErrNotFound)

	handler := middleware.Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthBearerTokenAttachesUser(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "jdoe", Role: models.RoleUser}
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	assert.NoError(t, err)

	users := new(mocks.MockUserStore)
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	handler := middleware.Auth(users)(echoUser(t, user))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthCookieTokenAccepted(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "jdoe", Role: models.RoleUser}
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	assert.NoError(t, err)

	users := new(mocks.MockUserStore)
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	handler := middleware.Auth(users)(echoUser(t, user))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role     string
		minRole  string
		wantCode int
	}{
		{models.RoleUser, models.RoleAdmin, http.StatusForbidden},
		{models.RoleAdmin, models.RoleAdmin, http.StatusOK},
		{models.RoleSuperAdmin, models.RoleAdmin, http.StatusOK},
		{models.RoleUser, models.RoleUser, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role+"_needs_"+tt.minRole, func(t *testing.T) {
			user := &models.User{ID: primitive.NewObjectID(), Role: tt.role}
			token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
			assert.NoError(t, err)

			users := new(mocks.MockUserStore)
			users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

			gate := middleware.Auth(users)
			roleGate := middleware.RequireRole(tt.minRole)
			handler := gate(roleGate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest("POST", "/api/products", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
