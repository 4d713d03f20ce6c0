package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, name string) map[string]any {
	t.Helper()
	s, err := Document(name)
	require.NoError(t, err)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestProductSchema(t *testing.T) {
	doc := decode(t, "product")
	props := doc["properties"].(map[string]any)

	for _, field := range []string{"product_id", "product_name", "category", "quantity", "price", "supplier", "location", "reorder_level", "expiry_date", "status"} {
		assert.Contains(t, props, field)
	}

	price := props["price"].(map[string]any)
	assert.Equal(t, "string", price["type"])

	category := props["category"].(map[string]any)
	assert.ElementsMatch(t, []any{"Electronics", "Accessories", "Furniture", "Stationery", "Other"}, category["enum"])

	required := doc["required"].([]any)
	assert.Contains(t, required, "product_id")
	assert.NotContains(t, required, "expiry_date")
	assert.Equal(t, false, doc["additionalProperties"])
}

func TestProductUpdateSchema_DecimalPointer(t *testing.T) {
	props := decode(t, "Product-Update")["properties"].(map[string]any)
	assert.NotContains(t, props, "product_id")
	price := props["price"].(map[string]any)
	assert.Equal(t, "string", price["type"])
}

func TestTransactionSchema(t *testing.T) {
	props := decode(t, "transaction")["properties"].(map[string]any)
	assert.Contains(t, props, "transaction_type")
	assert.Contains(t, props, "date")
}

func TestDocument_Unknown(t *testing.T) {
	_, err := Document("order")
	assert.ErrorContains(t, err, "product, product-update, transaction")
	assert.Equal(t, []string{"product", "product-update", "transaction"}, Names())
}
