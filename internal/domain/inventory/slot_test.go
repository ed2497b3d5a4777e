package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotAdvance(t *testing.T) {
	tests := []struct {
		name string
		from Slot
		want Slot
	}{
		{"slot one opens slot two", SlotOne, SlotTwo},
		{"slot two opens slot three", SlotTwo, SlotThree},
		{"slot three closes the cycle", SlotThree, CycleClosed},
		{"closed cycle stays closed", CycleClosed, CycleClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Advance())
		})
	}
}

func TestSlotColumn(t *testing.T) {
	assert.Equal(t, "recharge_1", SlotOne.Column())
	assert.Equal(t, "recharge_2", SlotTwo.Column())
	assert.Equal(t, "recharge_3", SlotThree.Column())
	assert.Equal(t, "", CycleClosed.Column())
}

func TestSlotValid(t *testing.T) {
	assert.True(t, CycleClosed.Valid())
	assert.True(t, SlotOne.Valid())
	assert.True(t, SlotThree.Valid())
	assert.False(t, Slot(4).Valid())
	assert.False(t, Slot(-1).Valid())
}

func TestProductStateAvailable(t *testing.T) {
	st := ProductState{Carry: 2, Recharge1: 10, Recharge2: 3, Recharge3: 0}
	assert.Equal(t, int64(15), st.Available())
}

func TestProductStateSlotRoundTrip(t *testing.T) {
	var st ProductState
	for _, slot := range []Slot{SlotOne, SlotTwo, SlotThree} {
		st.SetSlotQty(slot, int64(slot)*7)
		assert.Equal(t, int64(slot)*7, st.SlotQty(slot))
	}
	st.SetSlotQty(CycleClosed, 99)
	assert.Equal(t, int64(0), st.SlotQty(CycleClosed))
}
