package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetFeatured(t *testing.T) {
	d := NewDataset(Seed())

	assert.Equal(t, []string{"p1", "p3"}, ids(d.Featured(8)))
	assert.Equal(t, []string{"p1"}, ids(d.Featured(1)))
}

func TestDatasetRandomSamplesWithoutReplacement(t *testing.T) {
	d := NewDataset(Seed())

	for i := 0; i < 20; i++ {
		got := d.Random(3)
		require.Len(t, got, 3)
		seen := map[string]bool{}
		for _, p := range got {
			assert.False(t, seen[p.ID], "duplicate %s", p.ID)
			seen[p.ID] = true
		}
	}
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(d.Random(50)))
	assert.Empty(t, d.Random(0))
}

func TestDatasetRandomUsesPermutation(t *testing.T) {
	d := NewDataset(Seed())
	d.perm = func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = n - 1 - i
		}
		return out
	}

	assert.Equal(t, []string{"p5", "p4"}, ids(d.Random(2)))
}

func TestDatasetGetSubstitutesUnknownID(t *testing.T) {
	d := NewDataset(Seed())

	p, found, ok := d.Get("p3")
	assert.True(t, ok)
	assert.True(t, found)
	assert.Equal(t, "p3", p.ID)

	p, found, ok = d.Get("missing")
	assert.True(t, ok)
	assert.False(t, found)
	assert.Equal(t, "p1", p.ID)

	_, _, ok = NewDataset(nil).Get("p1")
	assert.False(t, ok)
}

func TestDatasetStatsAndCategories(t *testing.T) {
	ps := Seed()
	ps[1].Active = false
	d := NewDataset(ps)

	assert.Equal(t, Stats{Active: 4, Total: 5, Inactive: 1}, d.Stats())
	assert.Equal(t, []string{"hogar", "cocina", "textil", "outdoor", "moda", "remera"}, d.Categories())
}

func TestDatasetMutations(t *testing.T) {
	d := NewDataset(Seed())

	created := d.Create(ProductInput{Name: "Taza", Price: decimal.NewFromInt(7), Categories: []string{"cocina"}})
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.NotNil(t, created.CreatedAt)
	assert.NotNil(t, created.Sizes)
	assert.Equal(t, 6, d.Stats().Total)

	name := "Taza grande"
	inactive := false
	updated, ok := d.Update(created.ID, ProductPatch{Name: &name, Active: &inactive})
	require.True(t, ok)
	assert.Equal(t, "Taza grande", updated.Name)
	assert.False(t, updated.Active)
	assert.Equal(t, []string{"cocina"}, updated.Categories)

	_, ok = d.Update("missing", ProductPatch{Name: &name})
	assert.False(t, ok)

	assert.True(t, d.Delete(created.ID))
	assert.False(t, d.Delete(created.ID))
	assert.Equal(t, 5, d.Stats().Total)
}

func TestDatasetReturnsCopies(t *testing.T) {
	d := NewDataset(Seed())

	p, _, _ := d.Get("p1")
	p.Categories[0] = "mutated"

	again, _, _ := d.Get("p1")
	assert.Equal(t, "hogar", again.Categories[0])
}
