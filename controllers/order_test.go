package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/controllers"
	"ecommerce-api/mocks"
	"ecommerce-api/models"
)

func TestCreateOrderSnapshotsItems(t *testing.T) {
	user := newTestUser(models.RoleUser)
	productID := primitive.NewObjectID()

	orders := new(mocks.MockOrderStore)
	var created *models.Order
	orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.Order)
	})

	oc := controllers.NewOrderController(orders, nil)
	req := asUser(jsonRequest("POST", "/api/orders", map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": productID.Hex(), "quantity": 2, "price": 10, "name": "Mug", "image": "mug.png"},
		},
		"totalAmount":   20,
		"discount":      5,
		"address":       "12 Main St",
		"paymentMethod": "Credit Card",
	}), user)
	rec := httptest.NewRecorder()
	oc.CreateOrder(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	if assert.NotNil(t, created) {
		assert.Equal(t, user.ID, created.UserID)
		assert.Equal(t, models.OrderStatusPending, created.Status)
		assert.Equal(t, 20.0, created.TotalAmount)
		assert.Equal(t, 15.0, created.FinalAmount)
		if assert.Len(t, created.Products, 1) {
			assert.Equal(t, productID, created.Products[0].ProductID)
			assert.Equal(t, 2, created.Products[0].Quantity)
			assert.Equal(t, "Mug", created.Products[0].Name)
		}
	}
}

func TestCreateOrderValidation(t *testing.T) {
	productID := primitive.NewObjectID().Hex()
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty products", map[string]interface{}{"products": []map[string]interface{}{}, "totalAmount": 20}},
		{"missing products", map[string]interface{}{"totalAmount": 20}},
		{"zero quantity", map[string]interface{}{
			"products":    []map[string]interface{}{{"productId": productID, "quantity": 0, "price": 10}},
			"totalAmount": 20,
		}},
		{"missing productId", map[string]interface{}{
			"products":    []map[string]interface{}{{"quantity": 1, "price": 10}},
			"totalAmount": 20,
		}},
		{"bad productId", map[string]interface{}{
			"products":    []map[string]interface{}{{"productId": "not-hex", "quantity": 1, "price": 10}},
			"totalAmount": 20,
		}},
		{"zero totalAmount", map[string]interface{}{
			"products":    []map[string]interface{}{{"productId": productID, "quantity": 1, "price": 10}},
			"totalAmount": 0,
		}},
		{"negative totalAmount", map[string]interface{}{
			"products":    []map[string]interface{}{{"productId": productID, "quantity": 1, "price": 10}},
			"totalAmount": -4,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(mocks.MockOrderStore)
			oc := controllers.NewOrderController(orders, nil)
			req := asUser(jsonRequest("POST", "/api/orders", tt.body), newTestUser(models.RoleUser))
			rec := httptest.NewRecorder()
			oc.CreateOrder(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGetOrdersScopedToCaller(t *testing.T) {
	user := newTestUser(models.RoleUser)
	orders := new(mocks.MockOrderStore)
	orders.On("FindByUser", mock.Anything, user.ID).Return([]models.Order{
		{ID: primitive.NewObjectID(), UserID: user.ID, TotalAmount: 20, Status: models.OrderStatusPending},
	}, nil)

	oc := controllers.NewOrderController(orders, nil)
	req := asUser(jsonRequest("GET", "/api/orders", nil), user)
	rec := httptest.NewRecorder()
	oc.GetOrders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["orders"].([]interface{}), 1)
	orders.AssertExpectations(t)
}

func TestGetOrdersEmptyList(t *testing.T) {
	user := newTestUser(models.RoleUser)
	orders := new(mocks.MockOrderStore)
	orders.On("FindByUser", mock.Anything, user.ID).Return([]models.Order{}, nil)

	oc := controllers.NewOrderController(orders, nil)
	req := asUser(jsonRequest("GET", "/api/orders", nil), user)
	rec := httptest.NewRecorder()
	oc.GetOrders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["orders"].([]interface{}), 0)
}
