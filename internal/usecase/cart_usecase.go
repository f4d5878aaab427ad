package usecase

import (
	"context"
	"fmt"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"

	"github.com/google/uuid"
)

// AddToCartInput is a visitor's "add to cart" action.
type AddToCartInput struct {
	ProductID     string
	Customization domain.Customization
	Fetch         domain.FetchOptions
}

// CartUsecase manages the per-session carts.
type CartUsecase struct {
	catalog        *CatalogUsecase
	whatsAppNumber string
	maxQuantity    int
	newID          func() (uuid.UUID, error)
	now            func() time.Time
}

func NewCartUsecase(catalog *CatalogUsecase, whatsAppNumber string, maxQuantity int) *CartUsecase {
	return &CartUsecase{
		catalog:        catalog,
		whatsAppNumber: whatsAppNumber,
		maxQuantity:    maxQuantity,
		newID:          uuid.NewV7,
		now:            time.Now,
	}
}

// View returns the session's cart with its total.
func (uc *CartUsecase) View(sess *BrowsingSession) *domain.CartView {
	sess.Lock()
	defer sess.Unlock()
	return cartView(&sess.Cart)
}

// Add snapshots the product with its customization into a new cart row.
// A missing size is rejected and leaves the cart unchanged.
func (uc *CartUsecase) Add(ctx context.Context, sess *BrowsingSession, in AddToCartInput) (*domain.CartItem, error) {
	custom := in.Customization
	custom.Number = utils.DigitsOnly(custom.Number, 2)
	custom = custom.Normalized()
	if err := custom.Validate(); err != nil {
		return nil, err
	}
	if uc.maxQuantity > 0 && custom.Quantity > uc.maxQuantity {
		return nil, fmt.Errorf("%w: quantity exceeds %d", domain.ErrValidation, uc.maxQuantity)
	}

	product, err := uc.catalog.Product(ctx, in.ProductID, in.Fetch)
	if err != nil {
		return nil, err
	}

	id, err := uc.newID()
	if err != nil {
		return nil, fmt.Errorf("generate cart item id: %w", err)
	}

	item := domain.CartItem{
		ID:            id.String(),
		ProductID:     product.ID,
		Name:          product.Name,
		Price:         product.Price,
		Image:         product.Image,
		Customization: custom,
		AddedAt:       uc.now(),
	}

	sess.Lock()
	sess.Cart.Add(item)
	sess.Unlock()

	logger.WithContext(ctx).Debug().
		Str("product_id", product.ID).
		Str("item_id", item.ID).
		Int("quantity", custom.Quantity).
		Msg("Added item to cart")
	return &item, nil
}

// UpdateQuantity changes a row's quantity by delta. Results below 1 are ignored.
func (uc *CartUsecase) UpdateQuantity(sess *BrowsingSession, itemID string, delta int) (*domain.CartView, error) {
	sess.Lock()
	defer sess.Unlock()
	if _, err := sess.Cart.UpdateQuantity(itemID, delta, uc.maxQuantity); err != nil {
		return nil, err
	}
	return cartView(&sess.Cart), nil
}

// Remove deletes a row.
func (uc *CartUsecase) Remove(sess *BrowsingSession, itemID string) (*domain.CartView, error) {
	sess.Lock()
	defer sess.Unlock()
	if err := sess.Cart.Remove(itemID); err != nil {
		return nil, err
	}
	return cartView(&sess.Cart), nil
}

// Checkout builds the WhatsApp hand-off for the cart. The cart itself is kept.
func (uc *CartUsecase) Checkout(ctx context.Context, sess *BrowsingSession) (*domain.Checkout, error) {
	sess.Lock()
	cart := sess.Cart.Clone()
	sess.Unlock()

	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	checkout := BuildCheckout(&cart, uc.whatsAppNumber)
	logger.WithContext(ctx).Info().
		Int("items", len(cart.Items)).
		Float64("total", checkout.Total).
		Msg("Checkout handed off to WhatsApp")
	return checkout, nil
}

func cartView(c *domain.Cart) *domain.CartView {
	snapshot := c.Clone()
	return &domain.CartView{Items: snapshot.Items, Total: snapshot.Total(), Count: snapshot.Count()}
}
