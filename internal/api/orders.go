package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/kmalykh/shop_mobile/internal/models"
)

func (c *Client) GetUserOrders(ctx context.Context, userID string, page, take int) ([]models.Order, int, error) {
	var out struct {
		Items []models.Order `json:"items"`
		Total int            `json:"total"`
	}
	path := fmt.Sprintf("/orders/user/%s?page=%d&take=%d", url.PathEscape(userID), page, take)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.Total, nil
}

// CreateOrder submits the draft and succeeds only on an acknowledged 201.
// Every attempt carries a fresh X-Request-ID so a server that dedupes by
// request id can catch a resend after a lost ack; the client itself has
// no way to tell a lost ack from a real failure.
func (c *Client) CreateOrder(ctx context.Context, userID string, draft models.OrderDraft) (*models.Order, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(draft); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	reqURL := c.baseURL + "/orders?userId=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.errorFrom(resp)
	}

	var order models.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.Info("order created", "order_id", order.OrderID, "request_id", requestID)
	return &order, nil
}
