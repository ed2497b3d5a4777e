package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/inventory"
)

func TestCompute_SingleProduct(t *testing.T) {
	sellerID := id.New()
	productID := id.New()
	rows := []inventory.Row{
		{ProductID: productID, ProductName: "loaf", Price: 100, Recharge1: 10},
	}
	lines := []Line{{ProductID: productID, FinalQty: 2, ChangesQty: 1}}

	comp, err := Compute(sellerID, rows, lines, 10)
	require.NoError(t, err)

	require.Len(t, comp.Items, 1)
	item := comp.Items[0]
	assert.Equal(t, int64(10), item.Available)
	assert.Equal(t, int64(7), item.BilledQty)
	assert.Equal(t, int64(700), item.LineTotal)
	assert.Equal(t, int64(100), item.ChangesValue)

	assert.Equal(t, int64(700), comp.Subtotal)
	assert.Equal(t, int64(0), comp.ExemptTotal)
	assert.Equal(t, int64(100), comp.ChangesTotal)
	assert.Equal(t, int64(700), comp.CommissionBase)
	assert.Equal(t, int64(70), comp.CommissionValue)
	assert.Equal(t, int64(630), comp.PayableTotal)

	assert.Equal(t, int64(2), comp.Carry[productID])
}

func TestCompute_ExemptProduct(t *testing.T) {
	sellerID := id.New()
	productID := id.New()
	rows := []inventory.Row{
		{ProductID: productID, Price: 100, Recharge1: 10, CommissionExempt: true},
	}
	lines := []Line{{ProductID: productID, FinalQty: 2, ChangesQty: 1}}

	comp, err := Compute(sellerID, rows, lines, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(700), comp.Subtotal)
	assert.Equal(t, int64(700), comp.ExemptTotal)
	assert.Equal(t, int64(0), comp.CommissionBase)
	assert.Equal(t, int64(0), comp.CommissionValue)
	assert.Equal(t, int64(700), comp.PayableTotal)
}

func TestCompute_MixedExemptComposition(t *testing.T) {
	sellerID := id.New()
	plain, exempt := id.New(), id.New()
	rows := []inventory.Row{
		{ProductID: plain, Price: 50, Carry: 4},
		{ProductID: exempt, Price: 30, Carry: 10, CommissionExempt: true},
	}
	lines := []Line{
		{ProductID: plain},
		{ProductID: exempt, FinalQty: 5},
	}

	comp, err := Compute(sellerID, rows, lines, 20)
	require.NoError(t, err)

	// plain: 4*50=200 billed; exempt: 5*30=150 billed.
	assert.Equal(t, int64(350), comp.Subtotal)
	assert.Equal(t, int64(150), comp.ExemptTotal)
	assert.Equal(t, int64(200), comp.CommissionBase)
	assert.Equal(t, int64(40), comp.CommissionValue)
	assert.Equal(t, comp.Subtotal-comp.CommissionValue, comp.PayableTotal)
}

func TestCompute_InsufficientInventory(t *testing.T) {
	sellerID := id.New()
	productID := id.New()
	rows := []inventory.Row{{ProductID: productID, Price: 100, Recharge1: 5}}
	lines := []Line{{ProductID: productID, FinalQty: 4, ChangesQty: 2}}

	_, err := Compute(sellerID, rows, lines, 10)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientInventory))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, productID, appErr.Details["product_id"])
}

func TestCompute_UnknownLineProduct(t *testing.T) {
	sellerID := id.New()
	rows := []inventory.Row{{ProductID: id.New(), Price: 100}}
	lines := []Line{{ProductID: id.New()}}

	_, err := Compute(sellerID, rows, lines, 0)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnknownProductState))
}

func TestCompute_MissingCoverage(t *testing.T) {
	sellerID := id.New()
	covered, uncovered := id.New(), id.New()
	rows := []inventory.Row{
		{ProductID: covered, Price: 100, Carry: 1},
		{ProductID: uncovered, Price: 100, Carry: 1},
	}
	lines := []Line{{ProductID: covered}}

	_, err := Compute(sellerID, rows, lines, 0)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCompute_Conservation(t *testing.T) {
	sellerID := id.New()
	var rows []inventory.Row
	var lines []Line
	for i := 0; i < 5; i++ {
		pid := id.New()
		rows = append(rows, inventory.Row{
			ProductID: pid,
			Price:     int64(10 * (i + 1)),
			Carry:     int64(i),
			Recharge1: 7,
			Recharge2: int64(2 * i),
		})
		lines = append(lines, Line{ProductID: pid, FinalQty: int64(i), ChangesQty: 1})
	}

	comp, err := Compute(sellerID, rows, lines, 15)
	require.NoError(t, err)

	for _, item := range comp.Items {
		assert.Equal(t, item.Available, item.BilledQty+item.FinalQty+item.ChangesQty,
			"billed+final+changes must equal available for product %s", item.ProductID)
	}
}

func TestCommissionRounding(t *testing.T) {
	tests := []struct {
		base    int64
		percent int
		want    int64
	}{
		{700, 10, 70},
		{150, 50, 75},
		// half rounds away from zero
		{151, 50, 76},
		{149, 50, 75},
		{0, 50, 0},
		{1000, 0, 0},
		{333, 33, 110}, // 109.89
		{100, 100, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, commission(tt.base, tt.percent),
			"base=%d percent=%d", tt.base, tt.percent)
	}
}
