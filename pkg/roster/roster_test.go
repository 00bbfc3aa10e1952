package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaluna/shift-planner-api/pkg/models"
)

func TestNewIndexNormalizesIdentity(t *testing.T) {
	idx := NewIndex([]RawEmployee{
		{ID: "emp_a", Name: "Ana", Side: "FOH"},
		{UID: "emp_b", Name: "Ben", Role: "boh"},
		{Name: "Ghost"}, // no identity, dropped
		{ID: "emp_c", Name: "Cara", Side: "Back of House"},
	})

	require.Equal(t, 3, idx.Len())

	a, ok := idx.Get("emp_a")
	require.True(t, ok)
	assert.Equal(t, models.SideFOH, a.Side)

	b, ok := idx.Get("emp_b")
	require.True(t, ok, "uid must work as identity when id is missing")
	assert.Equal(t, "Ben", b.Name)
	assert.Equal(t, models.SideBOH, b.Side)

	c, ok := idx.Get("emp_c")
	require.True(t, ok)
	assert.Equal(t, models.SideBOH, c.Side)
}

func TestNewIndexDuplicateIDOverridesInPlace(t *testing.T) {
	idx := NewIndex([]RawEmployee{
		{ID: "emp_a", Name: "Ana", Side: "foh"},
		{ID: "emp_b", Name: "Ben", Side: "foh"},
		{ID: "emp_a", Name: "Ana Maria", Side: "foh"},
	})

	require.Equal(t, 2, idx.Len())
	a, _ := idx.Get("emp_a")
	assert.Equal(t, "Ana Maria", a.Name)
	assert.Equal(t, 0, idx.Position("emp_a"), "override keeps original feed position")
}

func TestBySidePreservesFeedOrder(t *testing.T) {
	idx := NewIndex([]RawEmployee{
		{ID: "emp_a", Side: "foh"},
		{ID: "emp_d", Side: "boh"},
		{ID: "emp_b", Side: "foh"},
		{ID: "emp_e", Side: "boh"},
	})

	foh := idx.BySide(models.SideFOH)
	require.Len(t, foh, 2)
	assert.Equal(t, "emp_a", foh[0].ID)
	assert.Equal(t, "emp_b", foh[1].ID)

	boh := idx.BySide(models.SideBOH)
	require.Len(t, boh, 2)
	assert.Equal(t, "emp_d", boh[0].ID)
}

func TestPositionUnknownSortsLast(t *testing.T) {
	idx := NewIndex([]RawEmployee{{ID: "emp_a", Side: "foh"}})
	assert.Equal(t, 1, idx.Position("missing"))
}
