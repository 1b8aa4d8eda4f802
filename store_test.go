package findmystore_test

import (
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		store   findmystore.Store
		wantErr bool
	}{
		{"valid", findmystore.Store{Name: "SmartMart", Lat: 17.4, Lng: 78.4}, false},
		{"missing name", findmystore.Store{Lat: 17.4, Lng: 78.4}, true},
		{"blank name", findmystore.Store{Name: "  "}, true},
		{"latitude out of range", findmystore.Store{Name: "x", Lat: 91}, true},
		{"longitude out of range", findmystore.Store{Name: "x", Lng: -181}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.store.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIsVerified(t *testing.T) {
	t.Parallel()

	assert.True(t, findmystore.IsVerified(4.3, 30))
	assert.True(t, findmystore.IsVerified(4.9, 1200))
	assert.False(t, findmystore.IsVerified(4.29, 500), "rating below threshold")
	assert.False(t, findmystore.IsVerified(4.8, 29), "too few ratings")
}

func TestCategory_PlaceType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "grocery_or_supermarket", findmystore.CategoryGrocery.PlaceType())
	assert.Equal(t, "electronics_store", findmystore.CategoryElectronics.PlaceType())
	assert.Equal(t, "store", findmystore.Category("").PlaceType())
	assert.Equal(t, "store", findmystore.CategoryGeneral.PlaceType())
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		t.Parallel()

		c, err := findmystore.ParseCategory("  Pharmacy ")
		require.NoError(t, err)
		assert.Equal(t, findmystore.CategoryPharmacy, c)
	})

	t.Run("empty means any", func(t *testing.T) {
		t.Parallel()

		c, err := findmystore.ParseCategory("")
		require.NoError(t, err)
		assert.Empty(t, c)
	})

	t.Run("rejects unknown", func(t *testing.T) {
		t.Parallel()

		_, err := findmystore.ParseCategory("hardware")
		require.Error(t, err)
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}

func TestStoreQuery_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("applies default radius", func(t *testing.T) {
		t.Parallel()

		q := findmystore.StoreQuery{City: " Hyderabad ", Category: "Grocery"}
		require.NoError(t, q.Normalize())
		assert.Equal(t, "Hyderabad", q.City)
		assert.Equal(t, findmystore.CategoryGrocery, q.Category)
		assert.InDelta(t, findmystore.DefaultRadiusKM, q.RadiusKM, 0.0001)
	})

	t.Run("clamps radius", func(t *testing.T) {
		t.Parallel()

		q := findmystore.StoreQuery{City: "Pune", RadiusKM: 500}
		require.NoError(t, q.Normalize())
		assert.InDelta(t, findmystore.MaxRadiusKM, q.RadiusKM, 0.0001)
	})

	t.Run("requires city", func(t *testing.T) {
		t.Parallel()

		q := findmystore.StoreQuery{}
		err := q.Normalize()
		require.Error(t, err)
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})
}
