package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kmalykh/shop_mobile/internal/config"
	"github.com/kmalykh/shop_mobile/internal/models"
)

// newTestClient spins up a fake remote API from echo handlers and points
// a client at it.
func newTestClient(t *testing.T, e *echo.Echo, serverURL string) *Client {
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		APIBaseURL: srv.URL,
		ServerURL:  serverURL,
	}
	return NewClient(cfg, slog.Default())
}

func TestLoginSuccess(t *testing.T) {
	e := echo.New()
	e.POST("/users/login", func(c echo.Context) error {
		var req map[string]string
		require.NoError(t, c.Bind(&req))
		require.Equal(t, "user@test.ru", req["email"])
		require.Equal(t, "secret", req["password"])

		return c.JSON(http.StatusOK, map[string]any{
			"user": models.User{
				UserID:   "8c2f01a4-1111-2222-3333-444455556666",
				Login:    "user",
				Email:    "user@test.ru",
				RoleName: "user",
			},
		})
	})
	client := newTestClient(t, e, "")

	user, err := client.Login(context.Background(), "user@test.ru", "secret")
	require.NoError(t, err)
	require.Equal(t, "user", user.Login)
	require.Equal(t, "8c2f01a4-1111-2222-3333-444455556666", user.UserID)
}

func TestLoginRejectedWithMessage(t *testing.T) {
	e := echo.New()
	e.POST("/users/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Пользователя нет в системе"})
	})
	client := newTestClient(t, e, "")

	_, err := client.Login(context.Background(), "ghost@test.ru", "nope")
	require.ErrorIs(t, err, ErrAuth)
	require.Contains(t, err.Error(), "Пользователя нет в системе")
}

func TestGetProductsRewritesImageHosts(t *testing.T) {
	e := echo.New()
	e.GET("/products", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"items": []models.Product{{
				ProductID:   1,
				ProductName: "чайник",
				ImagesURL:   []string{"http://localhost:3003/img/1.webp", ""},
			}},
			"total": 1,
		})
	})
	client := newTestClient(t, e, "http://shop.example.com")

	products, err := client.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "http://shop.example.com/img/1.webp", products[0].ImagesURL[0])
	require.Equal(t, "", products[0].ImagesURL[1])
}

func TestGetProductsKeepsHostsWithoutServerURL(t *testing.T) {
	e := echo.New()
	e.GET("/products", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"items": []models.Product{{ProductID: 1, ImagesURL: []string{"http://localhost:3003/img/1.webp"}}},
		})
	})
	client := newTestClient(t, e, "")

	products, err := client.GetProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3003/img/1.webp", products[0].ImagesURL[0])
}

func TestCreateOrder(t *testing.T) {
	var gotRequestID string
	var gotDraft models.OrderDraft
	var gotUserID string

	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		gotRequestID = c.Request().Header.Get("X-Request-ID")
		gotUserID = c.QueryParam("userId")
		require.NoError(t, json.NewDecoder(c.Request().Body).Decode(&gotDraft))

		return c.JSON(http.StatusCreated, models.Order{OrderID: 77, Status: models.OrderStatusPending})
	})
	client := newTestClient(t, e, "")

	draft := models.OrderDraft{
		Address: "Tokyo, Betatestovaya 4-4-4 4-ku",
		Total:   400,
		Products: []models.OrderDraftProduct{
			{ProductID: 1, Quantity: 4},
		},
	}
	order, err := client.CreateOrder(context.Background(), "user-1", draft)
	require.NoError(t, err)
	require.Equal(t, 77, order.OrderID)

	require.Equal(t, "user-1", gotUserID)
	require.Equal(t, draft, gotDraft)

	_, err = uuid.Parse(gotRequestID)
	require.NoError(t, err, "X-Request-ID must be a uuid")
}

func TestCreateOrderServerError(t *testing.T) {
	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "out of stock"})
	})
	client := newTestClient(t, e, "")

	_, err := client.CreateOrder(context.Background(), "user-1", models.OrderDraft{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "out of stock", apiErr.Message)
}

func TestGetUserOrdersPassesPaging(t *testing.T) {
	e := echo.New()
	e.GET("/orders/user/:id", func(c echo.Context) error {
		require.Equal(t, "user-1", c.Param("id"))
		require.Equal(t, "2", c.QueryParam("page"))
		require.Equal(t, "10", c.QueryParam("take"))

		return c.JSON(http.StatusOK, map[string]any{
			"items": []models.Order{{OrderID: 11}, {OrderID: 12}},
			"total": 25,
		})
	})
	client := newTestClient(t, e, "")

	orders, total, err := client.GetUserOrders(context.Background(), "user-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, 25, total)
}

func TestUpdateUserSendsActorInQuery(t *testing.T) {
	var gotBody UpdateUserRequest
	e := echo.New()
	e.PUT("/users/:id", func(c echo.Context) error {
		require.Equal(t, "user-1", c.Param("id"))
		require.Equal(t, "user-1", c.QueryParam("userId"))
		require.NoError(t, json.NewDecoder(c.Request().Body).Decode(&gotBody))
		return c.JSON(http.StatusOK, map[string]string{})
	})
	client := newTestClient(t, e, "")

	err := client.UpdateUser(context.Background(), "user-1", UpdateUserRequest{
		Login:  "newlogin",
		Email:  "new@test.ru",
		RoleID: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "newlogin", gotBody.Login)
	require.Equal(t, 3, gotBody.RoleID)
}
