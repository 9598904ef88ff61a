package store_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	store "github.com/tsubame-dev/store-api"
)

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    store.User
		wantErr bool
	}{
		{
			name:    "valid user",
			user:    store.User{Email: "user@tsubame.com", HashedPassword: "hash", Role: store.RoleUser},
			wantErr: false,
		},
		{
			name:    "missing email",
			user:    store.User{HashedPassword: "hash", Role: store.RoleUser},
			wantErr: true,
		},
		{
			name:    "malformed email",
			user:    store.User{Email: "not-an-email", HashedPassword: "hash", Role: store.RoleUser},
			wantErr: true,
		},
		{
			name:    "missing role",
			user:    store.User{Email: "user@tsubame.com", HashedPassword: "hash"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	user := store.User{
		ID:             1,
		Email:          "user@tsubame.com",
		HashedPassword: "super-secret-hash",
		Role:           store.RoleUser,
	}

	raw, err := json.Marshal(&user)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "super-secret-hash")
	assert.NotContains(t, string(raw), "hashed_password")
}

func TestProductValidate(t *testing.T) {
	valid := store.Product{
		Name:        "Fox Sticker",
		Description: "Die-cut vinyl fox",
		Category:    "sticker",
		Image:       "fox.png",
		Price:       35000,
		Cost:        12000,
	}

	t.Run("valid product", func(t *testing.T) {
		p := valid
		assert.NoError(t, p.Validate())
	})

	t.Run("name is required", func(t *testing.T) {
		p := valid
		p.Name = ""
		assert.Error(t, p.Validate())
	})

	t.Run("description is required", func(t *testing.T) {
		p := valid
		p.Description = ""
		assert.Error(t, p.Validate())
	})

	t.Run("category is required", func(t *testing.T) {
		p := valid
		p.Category = ""
		assert.Error(t, p.Validate())
	})

	t.Run("image is required", func(t *testing.T) {
		p := valid
		p.Image = ""
		assert.Error(t, p.Validate())
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		p := valid
		p.Price = -1
		assert.Error(t, p.Validate())
	})

	t.Run("negative cost is rejected", func(t *testing.T) {
		p := valid
		p.Cost = -1
		assert.Error(t, p.Validate())
	})
}

func TestRelationValidate(t *testing.T) {
	t.Run("inventory needs a product", func(t *testing.T) {
		inv := store.Inventory{Stock: 10}
		assert.Error(t, inv.Validate())
	})

	t.Run("order detail needs order and product", func(t *testing.T) {
		od := store.OrderDetail{Quantity: 1, Price: 35000}
		assert.Error(t, od.Validate())

		od.OrderID = 1
		assert.Error(t, od.Validate())

		od.ProductID = 2
		assert.NoError(t, od.Validate())
	})

	t.Run("order needs a date", func(t *testing.T) {
		o := store.Order{DistributorDetailID: 1, TotalPrice: 35000}
		assert.Error(t, o.Validate())

		o.Date = time.Now()
		assert.NoError(t, o.Validate())

		o.TotalPrice = -1
		assert.Error(t, o.Validate())
	})

	t.Run("payment needs a date", func(t *testing.T) {
		p := store.Payment{OrderID: 1, Amount: 35000}
		assert.Error(t, p.Validate())

		p.Date = time.Now()
		assert.NoError(t, p.Validate())

		p.Amount = -1
		assert.Error(t, p.Validate())
	})

	t.Run("revenue needs a month", func(t *testing.T) {
		rev := store.Revenue{Total: 100}
		assert.Error(t, rev.Validate())

		rev.Month = "2024-01"
		assert.NoError(t, rev.Validate())
	})
}
