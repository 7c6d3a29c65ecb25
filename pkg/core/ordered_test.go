package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_SetKeepsFirstPosition(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("opera", 1)
	m.Set("chrome", 2)
	m.Set("opera", 3)

	assert.Equal(t, []string{"opera", "chrome"}, m.Keys())
	v, ok := m.Get("opera")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, m.Len())
}

func TestOrderedMap_UnmarshalPreservesDocumentOrder(t *testing.T) {
	payload := `{
		"success": true,
		"resumen": {
			"opera":   {"encontrado": false, "total_leidos": 0, "insertados": 0},
			"chrome":  {"encontrado": true, "total_leidos": 50, "insertados": 12},
			"firefox": {"encontrado": true, "total_leidos": 7, "insertados": 7}
		}
	}`

	var resp ActionResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	require.NotNil(t, resp.Summary)

	assert.Equal(t, []string{"opera", "chrome", "firefox"}, resp.Summary.Keys())

	chrome, ok := resp.Summary.Get("chrome")
	require.True(t, ok)
	assert.Equal(t, SourceResult{Found: true, ReadCount: 50, InsertedCount: 12}, chrome)
}

func TestOrderedMap_MarshalInInsertionOrder(t *testing.T) {
	stats := AggregateStats{Total: 500}
	stats.PerSource.Set("edge", 200)
	stats.PerSource.Set("chrome", 300)

	out, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":500,"por_navegador":{"edge":200,"chrome":300}}`, string(out))
	assert.Contains(t, string(out), `{"edge":200,"chrome":300}`)
}

func TestOrderedMap_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1,2]`},
		{"wrong value type", `{"chrome": "many"}`},
		{"truncated", `{"chrome": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m OrderedMap[int]
			assert.Error(t, json.Unmarshal([]byte(tt.input), &m))
		})
	}
}

func TestOrderedMap_NullAndNil(t *testing.T) {
	var m OrderedMap[int]
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, 0, m.Len())

	var nilMap *OrderedMap[int]
	assert.Equal(t, 0, nilMap.Len())
	_, ok := nilMap.Get("x")
	assert.False(t, ok)
	for range nilMap.All() {
		t.Fatal("nil map should not yield")
	}
}
