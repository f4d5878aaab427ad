package usecase

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"ultimate-kits/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartFeed = `[
	{"id":"P","title":"Home","equipo":"Madrid","price":25,"image":"https://cdn.kits.test/p.png"},
	{"id":"Q","title":"Away","equipo":"Milan","price":25,"image":"https://cdn.kits.test/q.png"},
	{"id":"R","title":"Retro","price":"19.5","image":"https://cdn.kits.test/r.png"}
]`

func newTestCart(t *testing.T) (*CartUsecase, *BrowsingSession) {
	t.Helper()
	catalog := newTestCatalog(&fakeFeedSource{body: cartFeed}, 20)
	return NewCartUsecase(catalog, "584146266306", 99), &BrowsingSession{ID: "s", View: NewCatalogView()}
}

func TestAddRequiresSize(t *testing.T) {
	uc, sess := newTestCart(t)

	_, err := uc.Add(context.Background(), sess, AddToCartInput{ProductID: "P"})
	assert.ErrorIs(t, err, domain.ErrSizeRequired)
	assert.Empty(t, uc.View(sess).Items)

	_, err = uc.Add(context.Background(), sess, AddToCartInput{ProductID: "P", Customization: domain.Customization{Size: "XXXL"}})
	assert.ErrorIs(t, err, domain.ErrInvalidSize)
	assert.Empty(t, uc.View(sess).Items)
}

func TestAddAppliesDefaultsAndSanitizesNumber(t *testing.T) {
	uc, sess := newTestCart(t)

	item, err := uc.Add(context.Background(), sess, AddToCartInput{
		ProductID:     "P",
		Customization: domain.Customization{Size: "m", Number: "1a07", Name: " Vini "},
	})
	require.NoError(t, err)
	assert.Equal(t, "M", item.Customization.Size)
	assert.Equal(t, "10", item.Customization.Number)
	assert.Equal(t, "Vini", item.Customization.Name)
	assert.Equal(t, 1, item.Customization.Quantity)
	assert.Equal(t, domain.DefaultPatches, item.Customization.Patches)
	assert.Equal(t, domain.DefaultVersion, item.Customization.Version)
	assert.Equal(t, domain.DefaultSleeve, item.Customization.Sleeve)
	assert.Equal(t, "MADRID HOME", item.Name)
	assert.NotEqual(t, "P", item.ID)
}

func TestSameProductTwiceMakesTwoRows(t *testing.T) {
	uc, sess := newTestCart(t)
	ctx := context.Background()

	a, err := uc.Add(ctx, sess, AddToCartInput{ProductID: "P", Customization: domain.Customization{Size: "S"}})
	require.NoError(t, err)
	b, err := uc.Add(ctx, sess, AddToCartInput{ProductID: "P", Customization: domain.Customization{Size: "L"}})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, uc.View(sess).Items, 2)
}

func TestCartTotalExample(t *testing.T) {
	uc, sess := newTestCart(t)
	ctx := context.Background()

	_, err := uc.Add(ctx, sess, AddToCartInput{ProductID: "P", Customization: domain.Customization{Size: "M", Quantity: 2}})
	require.NoError(t, err)
	_, err = uc.Add(ctx, sess, AddToCartInput{ProductID: "Q", Customization: domain.Customization{Size: "L"}})
	require.NoError(t, err)

	view := uc.View(sess)
	assert.Equal(t, 75.0, view.Total)
	assert.Equal(t, 3, view.Count)
}

func TestDecrementAtOneIsNoop(t *testing.T) {
	uc, sess := newTestCart(t)
	item, err := uc.Add(context.Background(), sess, AddToCartInput{ProductID: "P", Customization: domain.Customization{Size: "M"}})
	require.NoError(t, err)

	view, err := uc.UpdateQuantity(sess, item.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Customization.Quantity)

	view, err = uc.UpdateQuantity(sess, item.ID, +2)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Items[0].Customization.Quantity)
	assert.Equal(t, 75.0, view.Total)

	_, err = uc.UpdateQuantity(sess, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestTotalInvariantAcrossOperations(t *testing.T) {
	uc, sess := newTestCart(t)
	ctx := context.Background()

	var ids []string
	for _, pid := range []string{"P", "Q", "R", "P"} {
		it, err := uc.Add(ctx, sess, AddToCartInput{ProductID: pid, Customization: domain.Customization{Size: "S"}})
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}
	_, err := uc.UpdateQuantity(sess, ids[2], 3)
	require.NoError(t, err)
	_, err = uc.UpdateQuantity(sess, ids[0], -5)
	require.NoError(t, err)
	view, err := uc.Remove(sess, ids[1])
	require.NoError(t, err)

	var want float64
	for _, it := range view.Items {
		assert.GreaterOrEqual(t, it.Customization.Quantity, 1)
		want += it.Price * float64(it.Customization.Quantity)
	}
	assert.InDelta(t, want, view.Total, 1e-9)
	assert.InDelta(t, 25+19.5*4+25, view.Total, 1e-9)

	_, err = uc.Remove(sess, ids[1])
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestAddUnknownProduct(t *testing.T) {
	uc, sess := newTestCart(t)
	_, err := uc.Add(context.Background(), sess, AddToCartInput{ProductID: "missing", Customization: domain.Customization{Size: "S"}})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCheckoutMessage(t *testing.T) {
	uc, sess := newTestCart(t)
	ctx := context.Background()

	_, err := uc.Checkout(ctx, sess)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = uc.Add(ctx, sess, AddToCartInput{ProductID: "P", Customization: domain.Customization{Size: "M", Quantity: 2, Name: "VINI", Number: "7"}})
	require.NoError(t, err)
	_, err = uc.Add(ctx, sess, AddToCartInput{ProductID: "R", Customization: domain.Customization{Size: "L", Sleeve: "MANGA LARGA"}})
	require.NoError(t, err)

	checkout, err := uc.Checkout(ctx, sess)
	require.NoError(t, err)

	want := "*PEDIDO ULTIMATE KITS*\n\n" +
		"*1. MADRID HOME*\n" +
		"   Precio: $25\n" +
		"   Talla: M\n" +
		"   Versión: FAN VERSION\n" +
		"   Mangas: MANGA CORTA\n" +
		"   Nombre: VINI\n" +
		"   Dorsal: 7\n" +
		"   Cantidad: 2\n" +
		"   Subtotal: $50.00\n\n" +
		"*2. RETRO*\n" +
		"   Precio: $19.5\n" +
		"   Talla: L\n" +
		"   Versión: FAN VERSION\n" +
		"   Mangas: MANGA LARGA\n" +
		"   Cantidad: 1\n" +
		"   Subtotal: $19.50\n\n" +
		"*TOTAL: $69.50*"
	assert.Equal(t, want, checkout.Message)
	assert.Equal(t, 69.5, checkout.Total)

	require.True(t, strings.HasPrefix(checkout.URL, "https://wa.me/584146266306?text="))
	u, err := url.Parse(checkout.URL)
	require.NoError(t, err)
	assert.Equal(t, want, u.Query().Get("text"))
	assert.NotContains(t, checkout.URL, "+")

	// The hand-off does not clear the cart.
	assert.Len(t, uc.View(sess).Items, 2)
}
