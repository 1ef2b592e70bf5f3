package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/aspectxlol/uprak-pos/internal/sale"
)

func TestFormatIDR(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{2000, "Rp 2.000"},
		{21000, "Rp 21.000"},
		{1500000, "Rp 1.500.000"},
		{-4000, "Rp -4.000"},
	}

	for _, tc := range cases {
		if got := FormatIDR(tc.in); got != tc.want {
			t.Errorf("FormatIDR(%d)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestRender(t *testing.T) {
	ts := time.Date(2025, 11, 3, 9, 30, 0, 0, time.Local)
	r := sale.Receipt{
		ID:        "s_test",
		Timestamp: ts,
		Lines: []sale.ReceiptLine{
			{ProductID: 1, Name: "Pen", Qty: 3, PriceIDR: 2000, SubtotalIDR: 6000},
			{ProductID: 2, Name: "Book", Qty: 1, PriceIDR: 15000, SubtotalIDR: 15000},
		},
		TotalIDR:  21000,
		CashIDR:   25000,
		ChangeIDR: 4000,
	}

	out := Render(r)

	for _, want := range []string{
		"SCHOOL POS RECEIPT",
		"Date: 2025-11-03 09:30:00",
		"Pen",
		"Book",
		"Total:   Rp 21.000",
		"Cash:    Rp 25.000",
		"Change:  Rp 4.000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTruncatesLongNames(t *testing.T) {
	r := sale.Receipt{
		Timestamp: time.Now(),
		Lines: []sale.ReceiptLine{
			{ProductID: 1, Name: strings.Repeat("x", 30), Qty: 1, PriceIDR: 100, SubtotalIDR: 100},
		},
	}

	out := Render(r)
	if strings.Contains(out, strings.Repeat("x", 21)) {
		t.Fatalf("name not truncated to 20 runes:\n%s", out)
	}
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	r := sale.Receipt{
		ID:        "s_test",
		Timestamp: time.Date(2025, 11, 3, 9, 30, 0, 0, time.Local),
		TotalIDR:  1000,
		CashIDR:   1000,
	}

	path, err := FileSink{Dir: dir}.Emit(r)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.HasSuffix(path, "receipt_20251103_093000.txt") {
		t.Fatalf("path=%q", path)
	}
}
