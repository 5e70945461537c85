package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrayPassesArrays(t *testing.T) {
	arr := []any{"a", float64(1)}
	assert.Equal(t, arr, ToArray(arr))
}

func TestToArraySingleArrayField(t *testing.T) {
	v, err := Parse(`{"icps":[{"title":"A"},{"title":"B"}]}`)
	require.NoError(t, err)

	inner, _ := v.(Object).Get("icps")
	assert.Equal(t, inner, ToArray(v))
	assert.Len(t, ToArray(v), 2)
}

func TestToArrayFirstArrayFieldInDocumentOrder(t *testing.T) {
	v, err := Parse(`{"note":"x","z":["first"],"a":["second"]}`)
	require.NoError(t, err)

	assert.Equal(t, []any{"first"}, ToArray(v))
}

func TestToArrayWrapsObjectWithoutArrays(t *testing.T) {
	v, err := Parse(`{"title":"Solo","description":"one item"}`)
	require.NoError(t, err)

	got := ToArray(v)
	require.Len(t, got, 1)
	assert.Equal(t, v, got[0])
}

func TestToArrayPlainMap(t *testing.T) {
	m := map[string]any{"b": []any{"b"}, "a": []any{"a"}}
	assert.Equal(t, []any{"a"}, ToArray(m))

	solo := map[string]any{"title": "x"}
	assert.Equal(t, []any{solo}, ToArray(solo))
}

func TestToArrayPrimitives(t *testing.T) {
	for _, v := range []any{nil, "text", float64(3), true} {
		got := ToArray(v)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}
