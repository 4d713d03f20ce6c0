package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"inventory-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	c, err := core.ParseCategory("electronics")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryElectronics, c)

	l, err := core.ParseLocation("warehouse_a")
	require.NoError(t, err)
	assert.Equal(t, core.LocationWarehouseA, l)

	l, err = core.ParseLocation("  store   front ")
	require.NoError(t, err)
	assert.Equal(t, core.LocationStoreFront, l)

	s, err := core.ParseStatus("INACTIVE")
	require.NoError(t, err)
	assert.Equal(t, core.StatusInactive, s)

	tt, err := core.ParseTransactionType("sale")
	require.NoError(t, err)
	assert.Equal(t, core.TransactionSale, tt)

	k, err := core.ParseReportKind("Low Stock Report")
	require.NoError(t, err)
	assert.Equal(t, core.ReportLowStock, k)
	k, err = core.ParseReportKind("supplier_analysis")
	require.NoError(t, err)
	assert.Equal(t, core.ReportSupplierAnalysis, k)

	_, err = core.ParseCategory("Toys")
	assert.Error(t, err)
	_, err = core.ParseLocation("Moon")
	assert.Error(t, err)
	_, err = core.ParseReportKind("profit")
	assert.Error(t, err)
}

func TestParseProductUpdate(t *testing.T) {
	u, err := core.ParseProductUpdate(map[string]string{
		"Product Name":  " Laptop Air ",
		"quantity":      "7",
		"price":         "65000.50",
		"location":      "store_front",
		"Reorder Level": "3",
		"status":        "inactive",
		"category":      "other",
		"supplier":      "NewCo",
	})
	require.NoError(t, err)
	require.NotNil(t, u.Quantity)
	assert.Equal(t, 7, *u.Quantity)
	assert.Equal(t, "65000.5", u.Price.String())
	assert.Equal(t, core.LocationStoreFront, *u.Location)
	assert.Equal(t, 3, *u.ReorderLevel)
	assert.Equal(t, core.StatusInactive, *u.Status)
	assert.Equal(t, core.CategoryOther, *u.Category)
	assert.False(t, u.IsEmpty())

	empty, err := core.ParseProductUpdate(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestParseProductUpdate_Errors(t *testing.T) {
	_, err := core.ParseProductUpdate(map[string]string{
		"quantity":   "many",
		"product_id": "P777",
		"colour":     "red",
	})
	require.ErrorIs(t, err, core.ErrValidation)
	details := core.AsError(err).Details()
	assert.Contains(t, details, "quantity")
	assert.Contains(t, details, "product_id")
	assert.Contains(t, details, "colour")
}

func TestErrorCodesAreDistinguishable(t *testing.T) {
	errs := map[core.Code]error{}
	store := newTestStore(t, true)

	_, errs[core.CodeDuplicateKey] = store.AddProduct(context.Background(), sampleProduct("P001"))
	qty := 1
	_, errs[core.CodeNotFound] = store.UpdateProduct(context.Background(), "nope", core.ProductUpdate{Quantity: &qty})
	bad := sampleProduct("P050")
	bad.Quantity = -1
	_, errs[core.CodeValidation] = store.AddProduct(context.Background(), bad)

	messages := map[string]bool{}
	for code, err := range errs {
		require.Error(t, err)
		assert.Equal(t, code, core.CodeOf(err))
		assert.False(t, messages[err.Error()])
		messages[err.Error()] = true
	}

	assert.True(t, errors.Is(errs[core.CodeDuplicateKey], core.ErrDuplicateKey))
	assert.False(t, errors.Is(errs[core.CodeDuplicateKey], core.ErrNotFound))
	assert.False(t, errors.Is(errs[core.CodeNotFound], core.ErrValidation))
}

func TestErrorWrappingAndMetadata(t *testing.T) {
	_, err := newTestStore(t, true).GetProduct(context.Background(), "X")
	wrapped := fmt.Errorf("lookup: %w", err)

	assert.ErrorIs(t, wrapped, core.ErrNotFound)
	assert.Equal(t, core.CodeNotFound, core.CodeOf(wrapped))
	assert.Equal(t, http.StatusNotFound, core.MetadataFor(core.CodeOf(wrapped)).HTTPStatus)
	assert.Equal(t, http.StatusConflict, core.MetadataFor(core.CodeDuplicateKey).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, core.MetadataFor("BOGUS").HTTPStatus)

	assert.Equal(t, core.CodeInternal, core.CodeOf(errors.New("plain")))
	assert.Equal(t, core.Code(""), core.CodeOf(nil))
	assert.Nil(t, core.AsError(errors.New("plain")))
}

func TestNormalize_ExpiryKeepsCalendarDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	expiry := time.Date(2027, 1, 2, 23, 30, 0, 0, ist)
	p := core.Product{ProductID: " P1 ", ExpiryDate: &expiry}

	p.Normalize()

	require.NotNil(t, p.ExpiryDate)
	assert.Equal(t, time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC), *p.ExpiryDate)
	assert.Equal(t, 23, expiry.Hour(), "caller's value is not modified")
	assert.Equal(t, "P1", p.ProductID)
}

func TestReportRows_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(struct {
		Slice core.CategoryQuantity
		Point core.DailyCount
	}{
		core.CategoryQuantity{Category: core.CategoryOther, Quantity: 3},
		core.DailyCount{Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Count: 2},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"Slice":{"category":"Other","quantity":3},"Point":{"date":"2026-03-14T00:00:00Z","count":2}}`,
		string(data))
}
