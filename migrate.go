package store

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// schemaModels lists every table in creation order: referenced tables
// before the tables holding foreign keys to them.
var schemaModels = []any{
	(*User)(nil),
	(*Product)(nil),
	(*Material)(nil),
	(*Distributor)(nil),
	(*Inventory)(nil),
	(*ProductMaterial)(nil),
	(*DistributorDetail)(nil),
	(*Order)(nil),
	(*OrderDetail)(nil),
	(*Payment)(nil),
	(*Revenue)(nil),
	(*AuditLog)(nil),
}

var schemaForeignKeys = map[any][]string{
	(*Inventory)(nil):         {`("product_id") REFERENCES "products" ("id")`},
	(*ProductMaterial)(nil):   {`("product_id") REFERENCES "products" ("id")`, `("material_id") REFERENCES "materials" ("id")`},
	(*DistributorDetail)(nil): {`("distributor_id") REFERENCES "distributors" ("id")`},
	(*Order)(nil):             {`("distributor_detail_id") REFERENCES "distributor_details" ("id")`},
	(*OrderDetail)(nil):       {`("order_id") REFERENCES "orders" ("id")`, `("product_id") REFERENCES "products" ("id")`},
	(*Payment)(nil):           {`("order_id") REFERENCES "orders" ("id")`},
}

// CreateSchema creates any missing tables. Safe to run on every boot.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range schemaModels {
		q := db.NewCreateTable().Model(model).IfNotExists()
		for _, fk := range schemaForeignKeys[model] {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "schema bootstrap failed")
		}
	}
	return nil
}

// SeedUser describes an account ensured at startup.
type SeedUser struct {
	Email    string
	Password string
	Role     UserRole
}

// DefaultSeedUsers match the accounts the deployment scripts create.
var DefaultSeedUsers = []SeedUser{
	{Email: "admin@tsubame.com", Password: "admin123", Role: RoleAdmin},
	{Email: "user@tsubame.com", Password: "user123", Role: RoleUser},
}

// SeedUsers inserts the given accounts when they do not exist yet, so
// rerunning on an initialized database is a no-op.
func SeedUsers(ctx context.Context, db *bun.DB, seeds []SeedUser) error {
	for _, seed := range seeds {
		exists, err := db.NewSelect().
			Model((*User)(nil)).
			Where("email = ?", seed.Email).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "seed lookup failed")
		}
		if exists {
			continue
		}

		hash, err := HashPassword(seed.Password)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "seed password hash failed")
		}

		user := &User{
			Email:          seed.Email,
			HashedPassword: hash,
			Role:           seed.Role,
		}
		if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "seed insert failed")
		}
	}
	return nil
}
