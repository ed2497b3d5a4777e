package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBase struct {
	ID      string `db:"id"`
	Version int    `db:"version"`
}

type testEntity struct {
	testBase
	Name     string `db:"name"`
	Price    int64  `db:"price"`
	Ignored  string `db:"-"`
	Untagged string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testEntity]()
	assert.ElementsMatch(t, []string{"id", "version", "name", "price"}, cols)
}

func TestStructToMap(t *testing.T) {
	e := testEntity{
		testBase: testBase{ID: "abc", Version: 3},
		Name:     "loaf",
		Price:    120,
		Ignored:  "nope",
		Untagged: "nope",
	}

	m := StructToMap(&e)
	assert.Equal(t, map[string]any{
		"id":      "abc",
		"version": 3,
		"name":    "loaf",
		"price":   int64(120),
	}, m)

	// Value and pointer produce the same map.
	assert.Equal(t, m, StructToMap(e))
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
