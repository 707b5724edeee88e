package models

import (
	"strings"
	"time"
)

// DTOs mirror the JSON the remote storefront API speaks (camelCase keys).

type Product struct {
	ProductID      int        `json:"productId"`
	ProductName    string     `json:"productName"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Quantity       int        `json:"quantity"` // units in stock
	CategoryID     int        `json:"categoryId"`
	ImagesURL      []string   `json:"imagesUrl"`
	AverageRating  float64    `json:"averageRating"`
	TotalFeedbacks int        `json:"totalFeedbacks"`
	Category       *Category  `json:"category,omitempty"`
	Feedbacks      []Feedback `json:"feedbacks,omitempty"`
}

type Category struct {
	CategoryID   int    `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Description  string `json:"description"`
}

type User struct {
	UserID   string `json:"userId"`
	Login    string `json:"login"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
}

type Role struct {
	RoleID      int    `json:"roleId"`
	RoleName    string `json:"roleName"`
	Description string `json:"description"`
}

type Feedback struct {
	FeedbackID int    `json:"feedbackId"`
	Content    string `json:"content"`
	Rate       int    `json:"rate"`
	UserID     string `json:"userId"`
	ProductID  int    `json:"productId,omitempty"`
}

type OrderedProduct struct {
	OrderedProductID int      `json:"orderedProductId"`
	ProductID        int      `json:"productId"`
	ProductName      string   `json:"productName"`
	Quantity         int      `json:"quantity"`
	PriceAtOrder     float64  `json:"priceAtOrder"`
	ImagesURLAtOrder []string `json:"imagesUrlAtOrder"`
}

type Order struct {
	OrderID  int              `json:"orderId"`
	UserID   string           `json:"userId"`
	Date     time.Time        `json:"date"`
	Address  string           `json:"address"`
	Status   string           `json:"status"`
	Products []OrderedProduct `json:"products"`
	Total    float64          `json:"total"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// StatusLabel maps an order status to the label shown to the user.
func StatusLabel(status string) string {
	switch strings.ToLower(status) {
	case OrderStatusCompleted:
		return "Завершен"
	case OrderStatusPending:
		return "В ожидании"
	case OrderStatusCancelled:
		return "Отменен"
	case OrderStatusShipped:
		return "В пути"
	case OrderStatusProcessing:
		return "В обработке"
	default:
		return ""
	}
}

// StatusColor maps an order status to the ANSI color its label is
// rendered in.
func StatusColor(status string) string {
	switch strings.ToLower(status) {
	case OrderStatusCompleted:
		return "\x1b[32m"
	case OrderStatusPending:
		return "\x1b[33m"
	case OrderStatusCancelled:
		return "\x1b[31m"
	case OrderStatusShipped:
		return "\x1b[36m"
	case OrderStatusProcessing:
		return "\x1b[35m"
	default:
		return "\x1b[37m"
	}
}

// CartLineItem is one product in the cart. Price and MaxQuantity are
// snapshots taken at add time and never refreshed against the catalog.
type CartLineItem struct {
	ProductID      int      `json:"productId"`
	ProductName    string   `json:"productName"`
	Price          float64  `json:"price"`
	Quantity       int      `json:"quantity"`
	MaxQuantity    int      `json:"maxQuantity"`
	ImageURL       string   `json:"imageUrl"`
	ImagesURL      []string `json:"imagesUrl,omitempty"`
	CategoryID     int      `json:"categoryId,omitempty"`
	Description    string   `json:"description,omitempty"`
	AverageRating  float64  `json:"averageRating,omitempty"`
	TotalFeedbacks int      `json:"totalFeedbacks,omitempty"`
}

// OrderDraft is the create-order payload, built from the cart only at
// submission time and never persisted.
type OrderDraft struct {
	Address  string              `json:"address"`
	Total    float64             `json:"total"`
	Products []OrderDraftProduct `json:"products"`
}

type OrderDraftProduct struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}
