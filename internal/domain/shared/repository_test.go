package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		f := Filter{}.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultPageSize, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
		assert.Equal(t, "desc", f.OrderDir)
		assert.NotNil(t, f.Filters)
	})

	t.Run("clamps page size", func(t *testing.T) {
		f := Filter{Page: 2, PageSize: 1000}.Normalize()
		assert.Equal(t, MaxPageSize, f.PageSize)
		assert.Equal(t, MaxPageSize, f.Offset())
	})

	t.Run("accepts asc in any case", func(t *testing.T) {
		assert.Equal(t, "asc", Filter{OrderDir: "ASC"}.Normalize().OrderDir)
		assert.Equal(t, "desc", Filter{OrderDir: "sideways"}.Normalize().OrderDir)
	})

	t.Run("trims search", func(t *testing.T) {
		f := Filter{Search: "  arroz "}.Normalize()
		assert.Equal(t, "arroz", f.Search)
		assert.True(t, f.HasSearch())
		assert.False(t, Filter{Search: "   "}.HasSearch())
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(21), p.Total)

	p = NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestActivatable(t *testing.T) {
	a := NewActivatable()
	assert.True(t, a.IsActive)

	assert.ErrorIs(t, a.Activate(), ErrAlreadyActive)
	assert.NoError(t, a.Deactivate())
	assert.False(t, a.IsActive)
	assert.ErrorIs(t, a.Deactivate(), ErrAlreadyInactive)
	assert.NoError(t, a.Activate())
	assert.True(t, a.IsActive)
}

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Product not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "NOT_FOUND", CodeOf(err))
	assert.Equal(t, "", CodeOf(assert.AnError))
}
