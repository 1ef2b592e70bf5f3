package receipt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aspectxlol/uprak-pos/internal/sale"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatIDR renders an amount as Indonesian rupiah with dot thousands
// separators, e.g. 21000 -> "Rp 21.000".
func FormatIDR(amount int64) string {
	digits := strconv.FormatInt(amount, 10)

	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}

// Render produces the printable receipt text.
func Render(r sale.Receipt) string {
	var b strings.Builder

	b.WriteString("SCHOOL POS RECEIPT\n")
	fmt.Fprintf(&b, "Date: %s\n\n", r.Timestamp.Format(timeLayout))
	b.WriteString("Items:\n")
	b.WriteString("ID  Name                 Qty  Price (IDR)   Subtotal (IDR)\n")
	b.WriteString("--  -------------------- --- -------------  --------------\n")

	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%2d  %-20s %3d %13s  %14s\n",
			l.ProductID, truncate(l.Name, 20), l.Qty,
			FormatIDR(l.PriceIDR), FormatIDR(l.SubtotalIDR))
	}

	fmt.Fprintf(&b, "\nTotal:   %s\n", FormatIDR(r.TotalIDR))
	fmt.Fprintf(&b, "Cash:    %s\n", FormatIDR(r.CashIDR))
	fmt.Fprintf(&b, "Change:  %s\n", FormatIDR(r.ChangeIDR))

	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
