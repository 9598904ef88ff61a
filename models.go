package store

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular account
	RoleUser UserRole = "user"
	// RoleAdmin can manage every collection
	RoleAdmin UserRole = "admin"
)

// User is an account that can authenticate against the API. The password
// hash never serializes to JSON.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             int64    `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email          string   `bun:"email,notnull,unique" json:"email,omitempty"`
	HashedPassword string   `bun:"hashed_password,notnull" json:"-"`
	Role           UserRole `bun:"role,notnull" json:"role,omitempty"`
}

func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.HashedPassword, validation.Required),
		validation.Field(&u.Role, validation.Required),
	)
}

// Product is a sellable item (sticker, art print).
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	Description   string     `bun:"description" json:"description"`
	Category      string     `bun:"category" json:"category"`
	Price         float64    `bun:"price,notnull" json:"price"`
	Cost          float64    `bun:"cost" json:"cost"`
	Image         string     `bun:"image" json:"image"`
	ShopeeLink    *string    `bun:"shopee_link" json:"shopee_link,omitempty"`
	Inventory     *Inventory `bun:"rel:has-one,join:id=product_id" json:"inventory,omitempty"`
}

func (p *Product) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.Image, validation.Required),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.Cost, validation.Min(0.0)),
	)
}

// Inventory is the stock record for one product.
type Inventory struct {
	bun.BaseModel `bun:"table:inventory,alias:inv"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	ProductID     int64  `bun:"product_id,notnull" json:"product_id"`
	Status        string `bun:"status" json:"status"`
	Stock         int    `bun:"stock,notnull" json:"stock"`
}

func (i *Inventory) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.ProductID, validation.Required),
		validation.Field(&i.Stock, validation.Min(0)),
	)
}

// Material is a raw input tracked for the bill of materials.
type Material struct {
	bun.BaseModel `bun:"table:materials,alias:mat"`
	ID            int64   `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          string  `bun:"name,notnull" json:"name"`
	Unit          string  `bun:"unit" json:"unit"`
	Quantity      int     `bun:"quantity,notnull" json:"quantity"`
	MinStockLevel int     `bun:"min_stock_level" json:"min_stock_level"`
	Status        string  `bun:"status" json:"status"`
	Price         float64 `bun:"price" json:"price"`
}

func (m *Material) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Quantity, validation.Min(0)),
	)
}

// ProductMaterial links a product to one material it consumes.
type ProductMaterial struct {
	bun.BaseModel `bun:"table:product_materials,alias:pmt"`
	ID            int64 `bun:"id,pk,autoincrement" json:"id,omitempty"`
	ProductID     int64 `bun:"product_id,notnull" json:"product_id"`
	MaterialID    int64 `bun:"material_id,notnull" json:"material_id"`
	Quantity      int   `bun:"quantity,notnull" json:"quantity"`
}

func (p *ProductMaterial) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ProductID, validation.Required),
		validation.Field(&p.MaterialID, validation.Required),
	)
}

// Distributor is a sales channel partner.
type Distributor struct {
	bun.BaseModel `bun:"table:distributors,alias:dst"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          string `bun:"name,notnull" json:"name"`
}

func (d *Distributor) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Name, validation.Required),
	)
}

// DistributorDetail is one branch/contact of a distributor.
type DistributorDetail struct {
	bun.BaseModel `bun:"table:distributor_details,alias:dsd"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	DistributorID int64  `bun:"distributor_id,notnull" json:"distributor_id"`
	Branch        string `bun:"branch" json:"branch"`
	Address       string `bun:"address" json:"address"`
	ContactName   string `bun:"contact_name" json:"contact_name"`
	PhoneNumber   string `bun:"phone_number" json:"phone_number"`
	Channel       string `bun:"channel" json:"channel"`
	Contract      string `bun:"contract" json:"contract"`
}

func (d *DistributorDetail) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.DistributorID, validation.Required),
	)
}

// Order is one sale to a distributor branch.
type Order struct {
	bun.BaseModel       `bun:"table:orders,alias:ord"`
	ID                  int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Date                time.Time `bun:"date,notnull" json:"date"`
	DistributorDetailID int64     `bun:"distributor_detail_id,notnull" json:"distributor_detail_id"`
	TotalPrice          float64   `bun:"total_price,notnull" json:"total_price"`
}

func (o *Order) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Date, validation.Required),
		validation.Field(&o.DistributorDetailID, validation.Required),
		validation.Field(&o.TotalPrice, validation.Min(0.0)),
	)
}

// OrderDetail is one product line within an order.
type OrderDetail struct {
	bun.BaseModel `bun:"table:order_details,alias:odd"`
	ID            int64   `bun:"id,pk,autoincrement" json:"id,omitempty"`
	OrderID       int64   `bun:"order_id,notnull" json:"order_id"`
	ProductID     int64   `bun:"product_id,notnull" json:"product_id"`
	Quantity      int     `bun:"quantity,notnull" json:"quantity"`
	Price         float64 `bun:"price,notnull" json:"price"`
}

func (o *OrderDetail) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.OrderID, validation.Required),
		validation.Field(&o.ProductID, validation.Required),
	)
}

// Payment is a settlement against an order.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:pay"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Date          time.Time `bun:"date,notnull" json:"date"`
	OrderID       int64     `bun:"order_id,notnull" json:"order_id"`
	Method        string    `bun:"method" json:"method"`
	Status        string    `bun:"status" json:"status"`
	Amount        float64   `bun:"amount,notnull" json:"amount"`
	TransactionID string    `bun:"transaction_id" json:"transaction_id"`
}

func (p *Payment) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Date, validation.Required),
		validation.Field(&p.OrderID, validation.Required),
		validation.Field(&p.Amount, validation.Min(0.0)),
	)
}

// Revenue is a monthly rollup per sales channel.
type Revenue struct {
	bun.BaseModel `bun:"table:revenue,alias:rev"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Month         string `bun:"month,notnull" json:"month"`
	Konbini       int    `bun:"konbini" json:"konbini"`
	Shopee        int    `bun:"shopee" json:"shopee"`
	Washi         int    `bun:"washi" json:"washi"`
	Arimi         int    `bun:"arimi" json:"arimi"`
	Airy          int    `bun:"airy" json:"airy"`
	Total         int    `bun:"total" json:"total"`
}

func (r *Revenue) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Month, validation.Required),
	)
}

// AuditLog records one write against any collection.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:aud"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Entity        string    `bun:"entity,notnull" json:"entity"`
	EntityID      int64     `bun:"entity_id" json:"entity_id"`
	Action        string    `bun:"action,notnull" json:"action"`
	ChangedBy     string    `bun:"changed_by" json:"changed_by"`
	Timestamp     time.Time `bun:"timestamp,notnull" json:"timestamp"`
	Details       string    `bun:"details" json:"details"`
}
