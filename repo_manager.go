package store

import (
	"context"
	"database/sql"
	"log"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"

	"github.com/tsubame-dev/store-api/repository"
)

// RepositoryManager exposes one generic-store binding per entity. Each
// binding is built once and shared; the only mutable state underneath is
// the bun connection pool.
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error

	Users() repository.Repository[*User]
	Products() repository.Repository[*Product]
	Inventory() repository.Repository[*Inventory]
	Materials() repository.Repository[*Material]
	ProductMaterials() repository.Repository[*ProductMaterial]
	Distributors() repository.Repository[*Distributor]
	DistributorDetails() repository.Repository[*DistributorDetail]
	Orders() repository.Repository[*Order]
	OrderDetails() repository.Repository[*OrderDetail]
	Payments() repository.Repository[*Payment]
	Revenue() repository.Repository[*Revenue]
	AuditLogs() repository.Repository[*AuditLog]
}

type mngr struct {
	db                 *bun.DB
	users              repository.Repository[*User]
	products           repository.Repository[*Product]
	inventory          repository.Repository[*Inventory]
	materials          repository.Repository[*Material]
	productMaterials   repository.Repository[*ProductMaterial]
	distributors       repository.Repository[*Distributor]
	distributorDetails repository.Repository[*DistributorDetail]
	orders             repository.Repository[*Order]
	orderDetails       repository.Repository[*OrderDetail]
	payments           repository.Repository[*Payment]
	revenue            repository.Repository[*Revenue]
	auditLogs          repository.Repository[*AuditLog]
}

// NewRepositoryManager wires every entity binding. Options apply to all
// bindings, so strict-field mode is a service-wide decision.
func NewRepositoryManager(db *bun.DB, opts ...repository.Option) RepositoryManager {
	productOpts := append([]repository.Option{repository.WithRelations("Inventory")}, opts...)

	return &mngr{
		db:                 db,
		users:              newBinding(db, func(r *User) *int64 { return &r.ID }, opts...),
		products:           newBinding(db, func(r *Product) *int64 { return &r.ID }, productOpts...),
		inventory:          newBinding(db, func(r *Inventory) *int64 { return &r.ID }, opts...),
		materials:          newBinding(db, func(r *Material) *int64 { return &r.ID }, opts...),
		productMaterials:   newBinding(db, func(r *ProductMaterial) *int64 { return &r.ID }, opts...),
		distributors:       newBinding(db, func(r *Distributor) *int64 { return &r.ID }, opts...),
		distributorDetails: newBinding(db, func(r *DistributorDetail) *int64 { return &r.ID }, opts...),
		orders:             newBinding(db, func(r *Order) *int64 { return &r.ID }, opts...),
		orderDetails:       newBinding(db, func(r *OrderDetail) *int64 { return &r.ID }, opts...),
		payments:           newBinding(db, func(r *Payment) *int64 { return &r.ID }, opts...),
		revenue:            newBinding(db, func(r *Revenue) *int64 { return &r.ID }, opts...),
		auditLogs:          newBinding(db, func(r *AuditLog) *int64 { return &r.ID }, opts...),
	}
}

// newBinding builds the ModelHandlers descriptor from a single pk
// accessor so per-entity wiring stays one line.
func newBinding[T any](db *bun.DB, pk func(*T) *int64, opts ...repository.Option) repository.Repository[*T] {
	return repository.NewRepository(db, repository.ModelHandlers[*T]{
		NewRecord: func() *T { return new(T) },
		GetID: func(r *T) int64 {
			if r == nil {
				return 0
			}
			return *pk(r)
		},
		SetID: func(r *T, id int64) {
			if r != nil {
				*pk(r) = id
			}
		},
	}, opts...)
}

func (m *mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database", errors.CategoryInternal)
	}
	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) Users() repository.Repository[*User]                           { return m.users }
func (m *mngr) Products() repository.Repository[*Product]                     { return m.products }
func (m *mngr) Inventory() repository.Repository[*Inventory]                  { return m.inventory }
func (m *mngr) Materials() repository.Repository[*Material]                   { return m.materials }
func (m *mngr) ProductMaterials() repository.Repository[*ProductMaterial]     { return m.productMaterials }
func (m *mngr) Distributors() repository.Repository[*Distributor]             { return m.distributors }
func (m *mngr) DistributorDetails() repository.Repository[*DistributorDetail] { return m.distributorDetails }
func (m *mngr) Orders() repository.Repository[*Order]                         { return m.orders }
func (m *mngr) OrderDetails() repository.Repository[*OrderDetail]             { return m.orderDetails }
func (m *mngr) Payments() repository.Repository[*Payment]                     { return m.payments }
func (m *mngr) Revenue() repository.Repository[*Revenue]                      { return m.revenue }
func (m *mngr) AuditLogs() repository.Repository[*AuditLog]                   { return m.auditLogs }
