package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kmalykh/shop_mobile/internal/models"
)

func (c *Client) GetProducts(ctx context.Context) ([]models.Product, error) {
	var out struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Items {
		for j, u := range out.Items[i].ImagesURL {
			out.Items[i].ImagesURL[j] = c.rewriteImageURL(u)
		}
	}
	return out.Items, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var out struct {
		Items []models.Category `json:"items"`
		Total int               `json:"total"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) GetProductFeedbacks(ctx context.Context, productID int) ([]models.Feedback, error) {
	var out struct {
		Items []models.Feedback `json:"items"`
		Total int               `json:"total"`
	}
	path := fmt.Sprintf("/feedbacks/product/%d", productID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) GetUserFeedbacks(ctx context.Context, userID string) ([]models.Feedback, error) {
	var out struct {
		Items []models.Feedback `json:"items"`
		Total int               `json:"total"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/feedbacks/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
