package domain

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Customization defaults and choices offered on the product page.
const (
	DefaultPatches = "SIN PARCHES"
	DefaultVersion = "FAN VERSION"
	DefaultSleeve  = "MANGA CORTA"
)

var (
	Sizes          = []string{"S", "M", "L", "XL"}
	PatchOptions   = []string{"SIN PARCHES", "OPCIÓN 2", "OPCIÓN 3"}
	VersionOptions = []string{"FAN VERSION", "PLAYER VERSION"}
	SleeveOptions  = []string{"MANGA CORTA", "MANGA LARGA"}
)

// Customization is the set of buyer-chosen attributes attached to a cart row.
type Customization struct {
	Size     string `json:"size"`
	Patches  string `json:"patches"`
	Version  string `json:"version"`
	Sleeve   string `json:"sleeve"`
	Name     string `json:"name,omitempty"`
	Number   string `json:"number,omitempty"`
	Quantity int    `json:"quantity"`
}

// Normalized fills defaults, upper-cases the size and trims the embroidered name.
// The jersey number must already be sanitized by the caller.
func (c Customization) Normalized() Customization {
	c.Size = strings.ToUpper(strings.TrimSpace(c.Size))
	c.Name = strings.TrimSpace(c.Name)
	if c.Patches == "" {
		c.Patches = DefaultPatches
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Sleeve == "" {
		c.Sleeve = DefaultSleeve
	}
	if c.Quantity < 1 {
		c.Quantity = 1
	}
	return c
}

// Validate rejects a customization without a size or with a size we do not sell.
func (c Customization) Validate() error {
	if c.Size == "" {
		return ErrSizeRequired
	}
	if !lo.Contains(Sizes, c.Size) {
		return ErrInvalidSize
	}
	return nil
}

// CartItem is a product snapshot plus customization, identified independently of the product.
type CartItem struct {
	ID            string        `json:"id"`
	ProductID     string        `json:"productId"`
	Name          string        `json:"name"`
	Price         float64       `json:"price"`
	Image         string        `json:"image"`
	Customization Customization `json:"customization"`
	AddedAt       time.Time     `json:"addedAt"`
}

func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Customization.Quantity)
}

// Cart is a browsing session's ordered list of rows.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add appends a new row. The customization must be validated beforehand.
func (c *Cart) Add(item CartItem) {
	c.Items = append(c.Items, item)
}

// UpdateQuantity changes a row's quantity by delta. A result below 1 or above max
// leaves the row untouched and reports false.
func (c *Cart) UpdateQuantity(id string, delta, max int) (bool, error) {
	_, idx, ok := lo.FindIndexOf(c.Items, func(it CartItem) bool { return it.ID == id })
	if !ok {
		return false, ErrCartItemNotFound
	}
	next := c.Items[idx].Customization.Quantity + delta
	if next < 1 || (max > 0 && next > max) {
		return false, nil
	}
	c.Items[idx].Customization.Quantity = next
	return true, nil
}

// Remove drops the row with the given id.
func (c *Cart) Remove(id string) error {
	before := len(c.Items)
	c.Items = lo.Reject(c.Items, func(it CartItem, _ int) bool { return it.ID == id })
	if len(c.Items) == before {
		return ErrCartItemNotFound
	}
	return nil
}

// Total is the sum of price times quantity over all rows.
func (c *Cart) Total() float64 {
	return lo.SumBy(c.Items, func(it CartItem) float64 { return it.Subtotal() })
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	return lo.SumBy(c.Items, func(it CartItem) int { return it.Customization.Quantity })
}

// Clone returns a copy safe to hand out while the session lock is released.
func (c *Cart) Clone() Cart {
	out := Cart{Items: make([]CartItem, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
	Count int        `json:"count"`
}

// Checkout is the outbound messaging hand-off for a cart.
type Checkout struct {
	Message string  `json:"message"`
	URL     string  `json:"url"`
	Total   float64 `json:"total"`
}
