package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aspectxlol/uprak-pos/internal/catalog"
	"github.com/aspectxlol/uprak-pos/internal/sale"
	"github.com/aspectxlol/uprak-pos/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	tokenTTL     = 15 * time.Minute
)

type Server struct {
	Log     *zap.Logger
	Catalog catalog.Store
	Journal sale.Journal
	JWT     *TokenMaker

	// OperatorHash is the bcrypt hash of the operator password from config.
	OperatorHash string
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, 1*time.Second)
	defer cancel()

	if err := s.Catalog.Ping(ctx); err != nil {
		s.warn("readyz catalog", err)
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	if s.Journal != nil {
		if err := s.Journal.Ping(ctx); err != nil {
			s.warn("readyz journal", err)
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Catalog.All(r.Context())
	if err != nil {
		s.fail("list products", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", nil)
		return
	}

	p, ok, err := s.Catalog.Find(r.Context(), id)
	if err != nil {
		s.fail("get product", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type productReq struct {
	Name     string `json:"name"`
	PriceIDR int64  `json:"price_idr"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	s.upsertProduct(w, r, 0)
}

func (s *Server) putProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", nil)
		return
	}
	s.upsertProduct(w, r, id)
}

func (s *Server) upsertProduct(w http.ResponseWriter, r *http.Request, id int64) {
	req, err := decodeJSON[productReq](w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	p, err := s.Catalog.Upsert(r.Context(), catalog.Product{
		ID:       id,
		Name:     req.Name,
		PriceIDR: req.PriceIDR,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyName) || errors.Is(err, catalog.ErrNegativePrice) {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.fail("upsert product", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	kit.WriteJSON(w, status, p)
}

func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.Journal.ListSortedByTime(r.Context())
	if err != nil {
		s.fail("list sales", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sales)
}

func (s *Server) getSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, ok, err := s.Journal.Get(r.Context(), id)
	if err != nil {
		s.fail("get sale", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, rec)
}

type loginReq struct {
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[loginReq](w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if err := VerifyOperator(s.OperatorHash, req.Password); err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tok, err := s.JWT.New("operator", tokenTTL)
	if err != nil {
		s.fail("token issue", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok})
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var req T

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return req, errors.New("extra data after json object")
	}
	return req, nil
}

func (s *Server) fail(msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
}

func (s *Server) warn(msg string, err error) {
	if s.Log != nil {
		s.Log.Warn(msg, zap.Error(err))
	}
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}
