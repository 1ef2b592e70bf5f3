package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
	"github.com/aspectxlol/uprak-pos/internal/sale"
	"github.com/aspectxlol/uprak-pos/internal/server"
)

const testPassword = "kasir-rahasia"

func newTS(t *testing.T) (*httptest.Server, catalog.Store, sale.Journal) {
	t.Helper()

	hash, err := server.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	cs := catalog.NewMemStore()
	journal := sale.NewMemJournal()

	s := &server.Server{
		Log:          zap.NewNop(),
		Catalog:      cs,
		Journal:      journal,
		JWT:          server.NewTokenMaker("test-secret"),
		OperatorHash: hash,
	}

	h := server.NewHandler(s, server.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "pos-api",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, cs, journal
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func login(t *testing.T, baseURL string) string {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, baseURL+"/auth/login", map[string]any{
		"password": testPassword,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status=%d body=%s", resp.StatusCode, string(raw))
	}

	var lr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &lr); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if lr.AccessToken == "" {
		t.Fatalf("empty access_token")
	}
	return lr.AccessToken
}

func TestAPI_ProductsPublicRead(t *testing.T) {
	ts, cs, _ := newTS(t)

	if _, err := cs.Upsert(context.Background(), catalog.Product{Name: "Pen", PriceIDR: 2000}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Pen" {
		t.Fatalf("products=%+v", products)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/products/999", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product status=%d", resp.StatusCode)
	}
}

func TestAPI_LoginRejectsWrongPassword(t *testing.T) {
	ts, _, _ := newTS(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/auth/login", map[string]any{
		"password": "wrong",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestAPI_MutationsRequireAuth(t *testing.T) {
	ts, _, _ := newTS(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"name": "Pen", "price_idr": 2000,
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("create status=%d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/sales", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("sales status=%d", resp.StatusCode)
	}
}

func TestAPI_ProductLifecycle(t *testing.T) {
	ts, _, _ := newTS(t)
	tok := login(t, ts.URL)
	authz := map[string]string{"Authorization": "Bearer " + tok}

	var created catalog.Product
	{
		resp, raw := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
			"name": "Pen", "price_idr": 2000,
		}, authz)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status=%d body=%s", resp.StatusCode, string(raw))
		}
		if err := json.Unmarshal(raw, &created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if created.ID == 0 {
			t.Fatalf("no id assigned: %+v", created)
		}
	}

	{
		resp, raw := doJSON(t, http.MethodPut, ts.URL+"/products/1", map[string]any{
			"name": "Pen", "price_idr": 2500,
		}, authz)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("put status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	{
		resp, raw := doJSON(t, http.MethodGet, ts.URL+"/products/1", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get status=%d", resp.StatusCode)
		}
		var p catalog.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.PriceIDR != 2500 {
			t.Fatalf("price=%d want 2500", p.PriceIDR)
		}
	}

	{
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
			"name": "", "price_idr": 100,
		}, authz)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("empty name status=%d", resp.StatusCode)
		}
	}
}

func TestAPI_SalesReadBack(t *testing.T) {
	ts, cs, journal := newTS(t)
	ctx := context.Background()

	if _, err := cs.Upsert(ctx, catalog.Product{Name: "Pen", PriceIDR: 2000}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	engine := &sale.Engine{Catalog: cs, Journal: journal}
	cart := sale.NewCart(cs)
	if err := cart.Add(ctx, 1, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	rec, err := engine.Checkout(ctx, cart, 10000)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	tok := login(t, ts.URL)
	authz := map[string]string{"Authorization": "Bearer " + tok}

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/sales", nil, authz)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d body=%s", resp.StatusCode, string(raw))
	}
	var sales []sale.Receipt
	if err := json.Unmarshal(raw, &sales); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sales) != 1 || sales[0].ID != rec.ID {
		t.Fatalf("sales=%+v", sales)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/sales/"+rec.ID, nil, authz)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d", resp.StatusCode)
	}
	var got sale.Receipt
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalIDR != 6000 || got.ChangeIDR != 4000 {
		t.Fatalf("receipt=%+v", got)
	}
}
