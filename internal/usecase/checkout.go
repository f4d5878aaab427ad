package usecase

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"ultimate-kits/internal/domain"
)

const whatsAppBaseURL = "https://wa.me/"

// BuildCheckout renders the order summary and the deep link that carries it.
func BuildCheckout(cart *domain.Cart, whatsAppNumber string) *domain.Checkout {
	message := OrderSummary(cart)
	return &domain.Checkout{
		Message: message,
		URL:     whatsAppBaseURL + whatsAppNumber + "?text=" + encodeMessage(message),
		Total:   cart.Total(),
	}
}

// OrderSummary is the human-readable order text: one block per row and a grand total.
func OrderSummary(cart *domain.Cart) string {
	var b strings.Builder
	b.WriteString("*PEDIDO ULTIMATE KITS*\n\n")

	for i, item := range cart.Items {
		c := item.Customization
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Precio: $%s\n", strconv.FormatFloat(item.Price, 'f', -1, 64))
		fmt.Fprintf(&b, "   Talla: %s\n", c.Size)
		fmt.Fprintf(&b, "   Versión: %s\n", c.Version)
		fmt.Fprintf(&b, "   Mangas: %s\n", c.Sleeve)
		if c.Name != "" {
			fmt.Fprintf(&b, "   Nombre: %s\n", c.Name)
		}
		if c.Number != "" {
			fmt.Fprintf(&b, "   Dorsal: %s\n", c.Number)
		}
		fmt.Fprintf(&b, "   Cantidad: %d\n", c.Quantity)
		fmt.Fprintf(&b, "   Subtotal: $%.2f\n\n", item.Subtotal())
	}

	fmt.Fprintf(&b, "*TOTAL: $%.2f*", cart.Total())
	return b.String()
}

// encodeMessage percent-encodes text for the deep link, spaces included.
func encodeMessage(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
