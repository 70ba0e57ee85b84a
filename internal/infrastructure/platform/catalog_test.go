package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2bportal/backend/internal/application/reorder"
	"github.com/b2bportal/backend/internal/domain/shared"
)

func TestVariantService_GetConstraints(t *testing.T) {
	c := newTestNativeClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/catalog/variants", r.URL.Path)
		assert.Equal(t, "A-1,B-2", r.URL.Query().Get("sku:in"))
		_, _ = w.Write([]byte(`{"data": [
			{"node": {"sku": "A-1", "minQuantity": 3, "stock": 12, "isStock": true}},
			{"sku": "B-2", "maxQuantity": 10}
		]}`))
	}))

	constraints, err := NewVariantService(c).GetConstraints(context.Background(), []string{"A-1", "B-2"})
	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, 3, constraints[0].MinQuantity)
	assert.True(t, constraints[0].IsStock)
	assert.Equal(t, 10, constraints[1].MaxQuantity)
}

func TestVariantService_GetConstraintsEmptySKUList(t *testing.T) {
	called := false
	c := newTestNativeClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	constraints, err := NewVariantService(c).GetConstraints(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, constraints)
	assert.False(t, called)
}

func TestCartService_AddToCart(t *testing.T) {
	var received struct {
		LineItems []reorder.CartItem `json:"lineItems"`
	}
	c := newTestNativeClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/carts/items", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))

	items := []reorder.CartItem{{Quantity: 2, ProductID: 100, VariantID: 42}}
	require.NoError(t, NewCartService(c).AddToCart(context.Background(), items))
	assert.Equal(t, items, received.LineItems)
}

func TestCartService_RejectionSurfacesDetailVerbatim(t *testing.T) {
	c := newTestNativeClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"status": 422, "detail": "Variant 42 can only be purchased in multiples of 6"}`))
	}))

	err := NewCartService(c).AddToCart(context.Background(), []reorder.CartItem{{VariantID: 42}})
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "Variant 42 can only be purchased in multiples of 6", upstream.Detail)
	assert.ErrorIs(t, err, shared.ErrUpstreamRejected)
}

func TestShoppingListService_AddItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/shopping-lists/77/items", r.URL.Path)
		var received struct {
			Items []reorder.ListItem `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		require.Len(t, received.Items, 1)
		assert.Equal(t, "attribute[17]", received.Items[0].Options[0].OptionID)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c, err := NewNativeClient(Config{BaseURL: server.URL}, "", nil)
	require.NoError(t, err)

	err = NewShoppingListService(c).AddItems(context.Background(), 77, []reorder.ListItem{{
		Quantity:  1,
		VariantID: 42,
		Options:   []reorder.ListOption{{OptionID: "attribute[17]", OptionValue: "large"}},
	}})
	assert.NoError(t, err)
}
