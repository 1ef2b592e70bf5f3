package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// CSVStore keeps the whole catalog in memory and rewrites the backing file
// in full on every mutation, matching the flat-file format `id,name,price`
// with a header row. A missing file is an empty catalog.
type CSVStore struct {
	mu     sync.RWMutex
	path   string
	m      map[int64]Product
	nextID int64
}

func NewCSVStore(path string) (*CSVStore, error) {
	s := &CSVStore{path: path, m: map[int64]Product{}, nextID: 1}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil
	}

	// rows[0] is the header; data lines are numbered from 2.
	for i, row := range rows[1:] {
		p, err := parseRow(row)
		if err != nil {
			return &MalformedRecordError{Line: i + 2, Cause: err}
		}
		s.m[p.ID] = p
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return nil
}

func parseRow(row []string) (Product, error) {
	if len(row) != 3 {
		return Product{}, fmt.Errorf("want 3 fields, got %d", len(row))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil || id < 1 {
		return Product{}, fmt.Errorf("bad id %q", row[0])
	}

	name := strings.TrimSpace(row[1])
	if name == "" {
		return Product{}, ErrEmptyName
	}

	// Prices written by older tools may carry a fractional part.
	price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return Product{}, fmt.Errorf("bad price %q", row[2])
	}
	if price < 0 {
		return Product{}, ErrNegativePrice
	}

	return Product{ID: id, Name: name, PriceIDR: int64(price)}, nil
}

// save rewrites the whole file. Callers must hold the write lock.
func (s *CSVStore) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "price"}); err != nil {
		return err
	}

	ids := make([]int64, 0, len(s.m))
	for id := range s.m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p := s.m[id]
		err := w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.FormatInt(p.PriceIDR, 10),
		})
		if err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *CSVStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *CSVStore) Find(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *CSVStore) All(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CSVStore) Upsert(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.nextID
	}

	prev, existed := s.m[p.ID]
	s.m[p.ID] = p
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}

	if err := s.save(); err != nil {
		if existed {
			s.m[p.ID] = prev
		} else {
			delete(s.m, p.ID)
		}
		return Product{}, err
	}
	return p, nil
}
