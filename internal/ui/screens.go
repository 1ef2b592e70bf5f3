package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
	"github.com/aspectxlol/uprak-pos/internal/receipt"
	"github.com/aspectxlol/uprak-pos/internal/sale"
)

func (m Model) enterProducts() Model {
	m = m.enter(screenProducts)
	m.productsTable = m.buildProductsTable()
	return m
}

func (m Model) enterEditProduct() Model {
	if m.catalogEmpty() {
		return m.failToMenu("No products to edit.")
	}
	m = m.enter(screenEditProduct)
	m.productsTable = m.buildProductsTable()
	return m
}

func (m Model) enterAddToCart() Model {
	if m.catalogEmpty() {
		return m.failToMenu("No products available.")
	}
	m = m.enter(screenAddToCart)
	m.productsTable = m.buildProductsTable()
	return m
}

func (m Model) enterRemoveFromCart() Model {
	if m.cart.IsEmpty() {
		return m.failToMenu("Cart is empty.")
	}
	m = m.enter(screenRemoveFromCart)
	m.cartTable, m.cartTotal = m.buildCartTable()
	return m
}

func (m Model) enterCart(s screen) Model {
	m = m.enter(s)
	m.cartTable, m.cartTotal = m.buildCartTable()
	return m
}

func (m Model) enterCheckout() Model {
	if m.cart.IsEmpty() {
		return m.failToMenu("Cart is empty.")
	}
	return m.enterCart(screenCheckout)
}

func (m Model) submitAddProduct(line string) Model {
	switch m.step {
	case 0:
		if line == "" {
			m.errMsg = "Product name required."
			return m
		}
		m.pendingName = line
		m.step = 1
		return m

	default:
		price, err := parseAmount(line)
		if err != nil {
			return m.failToMenu("Invalid input. Please enter a number.")
		}
		if price <= 0 {
			return m.failToMenu("Please enter a positive number.")
		}

		p, err := m.catalog.Upsert(m.ctx(), catalog.Product{Name: m.pendingName, PriceIDR: price})
		if err != nil {
			m.log.Error("add product", zap.Error(err))
			return m.failToMenu("Could not save product: " + err.Error())
		}
		return m.toMenu(fmt.Sprintf("Product '%s' added with ID %d.", p.Name, p.ID))
	}
}

func (m Model) submitEditProduct(line string) Model {
	switch m.step {
	case 0:
		id, err := parseID(line)
		if err != nil {
			return m.failToMenu("Invalid input. Please enter an integer.")
		}

		p, ok, err := m.catalog.Find(m.ctx(), id)
		if err != nil {
			m.log.Error("edit product lookup", zap.Error(err))
			return m.failToMenu("Could not read catalog: " + err.Error())
		}
		if !ok {
			return m.failToMenu("Product not found.")
		}
		m.editing = p
		m.step = 1
		return m

	case 1:
		if line != "" {
			m.editing.Name = line
		}
		m.step = 2
		return m

	default:
		warn := ""
		if line != "" {
			price, err := parseAmount(line)
			if err != nil || price < 0 {
				warn = "Invalid price. Keeping old price."
			} else {
				m.editing.PriceIDR = price
			}
		}

		if _, err := m.catalog.Upsert(m.ctx(), m.editing); err != nil {
			m.log.Error("edit product", zap.Error(err))
			return m.failToMenu("Could not save product: " + err.Error())
		}
		m = m.toMenu("Product updated.")
		m.errMsg = warn
		return m
	}
}

func (m Model) submitAddToCart(line string) Model {
	switch m.step {
	case 0:
		id, err := parseID(line)
		if err != nil {
			return m.failToMenu("Invalid input. Please enter an integer.")
		}

		p, ok, err := m.catalog.Find(m.ctx(), id)
		if err != nil {
			m.log.Error("add to cart lookup", zap.Error(err))
			return m.failToMenu("Could not read catalog: " + err.Error())
		}
		if !ok {
			return m.failToMenu("Product not found.")
		}
		m.pendingID = id
		m.pendingName = p.Name
		m.step = 1
		return m

	default:
		qty, err := parseID(line)
		if err != nil || qty < 1 {
			return m.failToMenu("Please enter a positive integer.")
		}

		if err := m.cart.Add(m.ctx(), m.pendingID, int(qty)); err != nil {
			return m.failToMenu(coreErrMsg(err))
		}
		return m.toMenu(fmt.Sprintf("Added %d x %s to cart.", qty, m.pendingName))
	}
}

func (m Model) submitRemoveFromCart(line string) Model {
	id, err := parseID(line)
	if err != nil {
		return m.failToMenu("Invalid input. Please enter an integer.")
	}

	name := fmt.Sprintf("item %d", id)
	if p, ok, err := m.catalog.Find(m.ctx(), id); err == nil && ok {
		name = p.Name
	}

	if err := m.cart.Remove(id); err != nil {
		return m.failToMenu("Item not found in cart.")
	}
	return m.toMenu(fmt.Sprintf("Removed %s from cart.", name))
}

func (m Model) submitCheckout(line string) Model {
	cash, err := parseAmount(line)
	if err != nil {
		m.errMsg = "Invalid input. Please enter a number."
		return m
	}

	r, err := m.engine.Checkout(m.ctx(), m.cart, cash)
	switch {
	case errors.Is(err, sale.ErrInsufficientPayment):
		m.errMsg = "Not enough cash. Please enter a valid amount."
		return m
	case errors.Is(err, sale.ErrEmptyCart):
		return m.failToMenu("Cart is empty.")
	case err != nil:
		m.log.Error("checkout", zap.Error(err))
		return m.failToMenu("Checkout failed: " + err.Error())
	}

	m = m.enter(screenReceipt)
	m.receiptText = receipt.Render(r)
	m.receiptPath = ""
	if m.sink != nil {
		path, err := m.sink.Emit(r)
		if err != nil {
			m.log.Error("receipt emit", zap.Error(err))
			m.errMsg = "Could not save receipt: " + err.Error()
		} else {
			m.receiptPath = path
		}
	}
	return m
}

func (m Model) catalogEmpty() bool {
	products, err := m.catalog.All(m.ctx())
	if err != nil {
		m.log.Error("catalog list", zap.Error(err))
		return true
	}
	return len(products) == 0
}

func (m Model) buildProductsTable() string {
	products, err := m.catalog.All(m.ctx())
	if err != nil {
		m.log.Error("catalog list", zap.Error(err))
		return "Could not read catalog: " + err.Error()
	}
	if len(products) == 0 {
		return "No products available."
	}

	var b strings.Builder
	b.WriteString("ID  Name                 Price (IDR)\n")
	b.WriteString("--  -------------------- -------------\n")
	for _, p := range products {
		fmt.Fprintf(&b, "%2d  %-20s %13s\n", p.ID, truncate(p.Name, 20), receipt.FormatIDR(p.PriceIDR))
	}
	return b.String()
}

func (m Model) buildCartTable() (string, int64) {
	lines := m.cart.Lines()
	if len(lines) == 0 {
		return "Cart is empty.", 0
	}

	var (
		b     strings.Builder
		total int64
	)
	b.WriteString("ID  Name                 Qty  Price (IDR)   Subtotal (IDR)\n")
	b.WriteString("--  -------------------- --- -------------  --------------\n")
	for _, l := range lines {
		p, ok, err := m.catalog.Find(m.ctx(), l.ProductID)
		if err != nil || !ok {
			fmt.Fprintf(&b, "%2d  %-20s %3d %13s  %14s\n", l.ProductID, "(missing)", l.Qty, "-", "-")
			continue
		}
		sub := p.PriceIDR * int64(l.Qty)
		total += sub
		fmt.Fprintf(&b, "%2d  %-20s %3d %13s  %14s\n",
			p.ID, truncate(p.Name, 20), l.Qty, receipt.FormatIDR(p.PriceIDR), receipt.FormatIDR(sub))
	}
	return b.String(), total
}

func parseID(line string) (int64, error) {
	return strconv.ParseInt(line, 10, 64)
}

// parseAmount accepts whole rupiah; a fractional part is truncated the way
// the original tool coerced float input.
func parseAmount(line string) (int64, error) {
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func coreErrMsg(err error) string {
	switch {
	case errors.Is(err, sale.ErrNotFound):
		return "Product not found."
	case errors.Is(err, sale.ErrInvalidQuantity):
		return "Please enter a positive integer."
	default:
		return err.Error()
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
