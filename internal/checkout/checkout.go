// Package checkout turns the current cart into a one-shot order request.
package checkout

import (
	"context"
	"fmt"

	"github.com/kmalykh/shop_mobile/internal/api"
	"github.com/kmalykh/shop_mobile/internal/cart"
	"github.com/kmalykh/shop_mobile/internal/logging"
	"github.com/kmalykh/shop_mobile/internal/models"
)

type Submitter struct {
	API     *api.Client
	Cart    *cart.Store
	Address string
}

// Submit builds an order draft from the live cart and sends it. With no
// signed-in user or an empty cart it returns (nil, nil) without touching
// the network. The cart is cleared only after an acknowledged creation;
// on any error it is left as-is so the user can retry.
func (s *Submitter) Submit(ctx context.Context, user *models.User) (*models.Order, error) {
	if user == nil || s.Cart.Len() == 0 {
		return nil, nil
	}

	items := s.Cart.Items()
	draft := models.OrderDraft{
		Address:  s.Address,
		Total:    s.Cart.Total(),
		Products: make([]models.OrderDraftProduct, 0, len(items)),
	}
	for _, it := range items {
		draft.Products = append(draft.Products, models.OrderDraftProduct{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	order, err := s.API.CreateOrder(ctx, user.UserID, draft)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if err := s.Cart.Clear(); err != nil {
		// The order exists server-side; a cart that failed to clear is
		// the lesser problem and must not fail the submission.
		logging.FromContext(ctx).Error("clearing cart after order", "error", err)
	}
	return order, nil
}
