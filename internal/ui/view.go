package ui

import (
	"fmt"
	"strings"

	"github.com/aspectxlol/uprak-pos/internal/receipt"
)

// ANSI codes matching the original terminal palette.
const (
	colHeader = "96"
	colMenu   = "93"
	colOK     = "92"
	colErr    = "91"
	colInput  = "94"
)

func colorize(text, code string) string {
	return "\033[" + code + "m" + text + "\033[0m"
}

func (m Model) View() string {
	var b strings.Builder

	switch m.screen {
	case screenMenu:
		m.viewMenu(&b)
	case screenProducts:
		fmt.Fprintln(&b, colorize("=== Product List ===", colHeader))
		fmt.Fprintln(&b, m.productsTable)
		fmt.Fprintln(&b, colorize("Press any key to continue...", colInput))
	case screenAddProduct:
		m.viewPromptScreen(&b, "=== Add Product ===", "", m.addProductPrompt())
	case screenEditProduct:
		m.viewPromptScreen(&b, "=== Edit Product ===", m.productsTable, m.editProductPrompt())
	case screenCart:
		fmt.Fprintln(&b, colorize("=== Cart ===", colHeader))
		fmt.Fprintln(&b, m.cartTable)
		if !m.cart.IsEmpty() {
			fmt.Fprintf(&b, "\nTotal: %s\n", receipt.FormatIDR(m.cartTotal))
		}
		fmt.Fprintln(&b, colorize("Press any key to continue...", colInput))
	case screenAddToCart:
		m.viewPromptScreen(&b, "=== Add to Cart ===", m.productsTable, m.addToCartPrompt())
	case screenRemoveFromCart:
		m.viewPromptScreen(&b, "=== Remove from Cart ===", m.cartTable, "Enter product ID to remove: ")
	case screenCheckout:
		fmt.Fprintln(&b, colorize("=== Checkout ===", colHeader))
		fmt.Fprintln(&b, m.cartTable)
		m.viewPromptTail(&b, fmt.Sprintf("Cash received (total %s): ", receipt.FormatIDR(m.cartTotal)))
	case screenReceipt:
		fmt.Fprintln(&b, colorize("=== Receipt ===", colHeader))
		fmt.Fprintln(&b, m.receiptText)
		if m.receiptPath != "" {
			fmt.Fprintln(&b, colorize("Receipt saved as "+m.receiptPath, colOK))
		}
		if m.errMsg != "" {
			fmt.Fprintln(&b, colorize(m.errMsg, colErr))
		}
		fmt.Fprintln(&b, colorize("Press any key to continue...", colInput))
	}

	return b.String()
}

func (m Model) viewMenu(b *strings.Builder) {
	fmt.Fprintln(b, colorize("=== SCHOOL POS SYSTEM ===", colHeader))
	fmt.Fprintln(b, colorize("1. Add Product", colMenu))
	fmt.Fprintln(b, colorize("2. Edit Product", colMenu))
	fmt.Fprintln(b, colorize("3. List Products", colMenu))
	fmt.Fprintln(b, colorize("4. Add to Cart", colMenu))
	fmt.Fprintln(b, colorize("5. Remove from Cart", colMenu))
	fmt.Fprintln(b, colorize("6. Show Cart", colMenu))
	fmt.Fprintln(b, colorize("7. Checkout", colMenu))
	fmt.Fprintln(b, colorize("0. Exit", colMenu))

	if m.status != "" {
		fmt.Fprintln(b, colorize(m.status, colOK))
	}
	if m.errMsg != "" {
		fmt.Fprintln(b, colorize(m.errMsg, colErr))
	}
	fmt.Fprint(b, colorize("Select an option: ", colInput))
}

func (m Model) viewPromptScreen(b *strings.Builder, title, table, prompt string) {
	fmt.Fprintln(b, colorize(title, colHeader))
	if table != "" {
		fmt.Fprintln(b, table)
	}
	m.viewPromptTail(b, prompt)
}

func (m Model) viewPromptTail(b *strings.Builder, prompt string) {
	fmt.Fprintln(b, colorize("Type 'b' to cancel and return to the main menu.", colInput))
	if m.errMsg != "" {
		fmt.Fprintln(b, colorize(m.errMsg, colErr))
	}
	fmt.Fprint(b, prompt, m.input)
}

func (m Model) addProductPrompt() string {
	if m.step == 0 {
		return "Product name: "
	}
	return "Product price: "
}

func (m Model) editProductPrompt() string {
	switch m.step {
	case 0:
		return "Enter product ID to edit: "
	case 1:
		return fmt.Sprintf("New name (leave blank to keep '%s'): ", m.editing.Name)
	default:
		return fmt.Sprintf("New price (leave blank to keep %d): ", m.editing.PriceIDR)
	}
}

func (m Model) addToCartPrompt() string {
	if m.step == 0 {
		return "Enter product ID to add: "
	}
	return "Quantity: "
}
