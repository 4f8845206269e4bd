package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
)

// Store keeps every table behind one lock so a transaction can span them.
// WithinTx holds the write lock for the whole unit and restores a snapshot
// when the unit fails, so an aborted unit leaves no trace.
type Store struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	products     map[string]*product.Product
	productOrder []string
	movements    []*stock.Movement
	sales        []*sale.Sale
	users        map[string]*user.User
}

func NewStore() *Store {
	return &Store{state: &state{
		products: make(map[string]*product.Product),
		users:    make(map[string]*user.User),
	}}
}

func (s *Store) Products() *ProductRepository   { return &ProductRepository{s: s} }
func (s *Store) Movements() *MovementRepository { return &MovementRepository{s: s} }
func (s *Store) Sales() *SaleRepository         { return &SaleRepository{s: s} }
func (s *Store) Users() *UserRepository         { return &UserRepository{s: s} }

type txKey struct{}

// WithinTx runs fn as one unit. Calls made with the context passed to fn join
// the unit instead of locking again; nested WithinTx calls join as well.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if r := recover(); r != nil {
			s.state = snapshot
			panic(r)
		}
		if err != nil {
			s.state = snapshot
		}
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory: begin: %w", err)
	}
	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if !s.inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.state)
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.state)
}

func (st *state) clone() *state {
	cp := &state{
		products:     make(map[string]*product.Product, len(st.products)),
		productOrder: append([]string(nil), st.productOrder...),
		movements:    append([]*stock.Movement(nil), st.movements...),
		sales:        append([]*sale.Sale(nil), st.sales...),
		users:        make(map[string]*user.User, len(st.users)),
	}
	for id, p := range st.products {
		cp.products[id] = p.Clone()
	}
	for id, u := range st.users {
		cp.users[id] = u
	}
	return cp
}
