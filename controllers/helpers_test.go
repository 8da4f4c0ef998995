package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/middleware"
	"ecommerce-api/models"
	"ecommerce-api/utils"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

func newTestUser(role string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "jdoe",
		Name:     "Jordan Doe",
		Email:    "jdoe@example.com",
		Password: "$2a$10$notarealhash",
		Role:     role,
	}
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches an already-authenticated identity the way the auth
// middleware would.
func asUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}
