package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skinker-shop/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateOrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// withURLParam attaches a chi route parameter to r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestOrderHandler_Create(t *testing.T) {
	orderID := uuid.New()
	validBody := `{
		"customer_name": "Ana",
		"customer_email": "ana@x.co",
		"customer_phone": "3001234567",
		"total_amount": 90000,
		"items": [{"product_id": "1", "name": "Labial Mate", "quantity": 2, "price": 45000}]
	}`

	tests := []struct {
		name            string
		body            string
		mockReturn      *model.CreateOrderResponse
		mockError       error
		expectService   bool
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "Success",
			body:           validBody,
			mockReturn:     &model.CreateOrderResponse{ID: orderID, Message: model.MsgOrderCreated},
			expectService:  true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:            "Validation error",
			body:            validBody,
			mockError:       model.NewValidationError("phone", model.MsgPhoneRequired),
			expectService:   true,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: model.MsgPhoneRequired,
		},
		{
			name:            "Persistence error",
			body:            validBody,
			mockError:       &model.PersistenceError{Op: "create order items", Err: errors.New("check violation")},
			expectService:   true,
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: model.MsgOrderFailed,
		},
		{
			name:            "Unexpected error",
			body:            validBody,
			mockError:       errors.New("boom"),
			expectService:   true,
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: model.MsgOrderFailed,
		},
		{
			name:            "Invalid JSON",
			body:            `{"customer_name":`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: model.MsgInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedStatus == http.StatusCreated {
				var resp model.CreateOrderResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, orderID, resp.ID)
				assert.Equal(t, "Orden creada exitosamente", resp.Message)
			} else {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedMessage, resp.Error)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderHandler_Create_DecodesRequest(t *testing.T) {
	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService, zerolog.Nop())

	var got *model.OrderRequest
	mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).
		Run(func(args mock.Arguments) { got = args.Get(1).(*model.OrderRequest) }).
		Return(&model.CreateOrderResponse{ID: uuid.New(), Message: model.MsgOrderCreated}, nil)

	body := `{"customer_name":"Ana","customer_phone":"3001234567","total_amount":90000,
		"items":[{"product_id":"1","name":"Labial Mate","quantity":2,"price":45000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.CustomerName)
	assert.Empty(t, got.CustomerEmail)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(90000)))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Labial Mate", got.Items[0].Name)
}

func TestOrderHandler_GetByID(t *testing.T) {
	orderID := uuid.New()
	testResponse := &model.OrderResponse{
		Order: model.Order{
			ID:            orderID,
			CustomerName:  "Ana",
			CustomerPhone: "3001234567",
			TotalAmount:   decimal.NewFromInt(90000),
			CreatedAt:     time.Now(),
		},
		Items: []model.OrderItem{
			{OrderID: orderID, ProductID: "1", Quantity: 2, Price: decimal.NewFromInt(45000)},
		},
	}

	tests := []struct {
		name           string
		orderID        string
		mockReturn     *model.OrderResponse
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{
			name:           "Success",
			orderID:        orderID.String(),
			mockReturn:     testResponse,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Order not found",
			orderID:        orderID.String(),
			mockError:      model.ErrOrderNotFound,
			expectService:  true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Service error",
			orderID:        orderID.String(),
			mockError:      errors.New("database error"),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Invalid UUID",
			orderID:        "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, zerolog.Nop())

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, orderID).Return(tt.mockReturn, tt.mockError)
			}

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.orderID, nil), "id", tt.orderID)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp map[string]any
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, orderID.String(), resp["id"])
				assert.Equal(t, "Ana", resp["customer_name"])
				assert.Len(t, resp["items"], 1)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}
