package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
	"github.com/aspectxlol/uprak-pos/internal/receipt"
	"github.com/aspectxlol/uprak-pos/internal/sale"
)

// screen is one state of the menu machine. Transitions happen only in
// Update; the transaction engine is never touched by pure navigation.
type screen int

const (
	screenMenu screen = iota
	screenProducts
	screenAddProduct
	screenEditProduct
	screenCart
	screenAddToCart
	screenRemoveFromCart
	screenCheckout
	screenReceipt
)

type Model struct {
	catalog catalog.Store
	cart    *sale.Cart
	engine  *sale.Engine
	sink    receipt.Emitter
	log     *zap.Logger

	screen screen
	step   int
	input  string
	status string
	errMsg string

	// scratch state for the multi-step flows
	editing     catalog.Product
	pendingID   int64
	pendingName string

	productsTable string
	cartTable     string
	cartTotal     int64
	receiptText   string
	receiptPath   string
}

func New(cs catalog.Store, engine *sale.Engine, sink receipt.Emitter, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		catalog: cs,
		cart:    sale.NewCart(cs),
		engine:  engine,
		sink:    sink,
		log:     log,
		screen:  screenMenu,
	}
}

// Cart exposes the live cart, mainly for tests.
func (m Model) Cart() *sale.Cart { return m.cart }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(key)
	case screenProducts, screenCart, screenReceipt:
		// static screens: any key goes back to the menu
		m.screen = screenMenu
		return m, nil
	default:
		return m.updatePrompt(key)
	}
}

func (m Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.errMsg = ""

	switch key.String() {
	case "1":
		return m.enter(screenAddProduct), nil
	case "2":
		return m.enterEditProduct(), nil
	case "3":
		return m.enterProducts(), nil
	case "4":
		return m.enterAddToCart(), nil
	case "5":
		return m.enterRemoveFromCart(), nil
	case "6":
		return m.enterCart(screenCart), nil
	case "7":
		return m.enterCheckout(), nil
	case "0", "q":
		return m, tea.Quit
	default:
		m.errMsg = "Invalid option."
		return m, nil
	}
}

// updatePrompt does the line editing for every prompting screen; enter hands
// the finished line to the screen's flow handler.
func (m Model) updatePrompt(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input)
		m.input = ""
		if strings.EqualFold(line, "b") {
			return m.cancel(), nil
		}
		return m.submit(line), nil

	case tea.KeyBackspace:
		if m.input != "" {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
		return m, nil

	case tea.KeySpace:
		m.input += " "
		return m, nil

	case tea.KeyRunes:
		m.input += string(key.Runes)
		return m, nil
	}
	return m, nil
}

func (m Model) submit(line string) Model {
	switch m.screen {
	case screenAddProduct:
		return m.submitAddProduct(line)
	case screenEditProduct:
		return m.submitEditProduct(line)
	case screenAddToCart:
		return m.submitAddToCart(line)
	case screenRemoveFromCart:
		return m.submitRemoveFromCart(line)
	case screenCheckout:
		return m.submitCheckout(line)
	}
	return m
}

func (m Model) enter(s screen) Model {
	m.screen = s
	m.step = 0
	m.input = ""
	m.errMsg = ""
	return m
}

func (m Model) cancel() Model {
	m = m.enter(screenMenu)
	m.status = "Cancelled."
	return m
}

func (m Model) toMenu(status string) Model {
	m = m.enter(screenMenu)
	m.status = status
	return m
}

func (m Model) failToMenu(msg string) Model {
	m = m.enter(screenMenu)
	m.errMsg = msg
	return m
}

func (m *Model) ctx() context.Context { return context.Background() }
