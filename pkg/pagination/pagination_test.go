package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{"defaults", "/products", 1, DefaultPerPage, 0},
		{"explicit page", "/products?page=3", 3, DefaultPerPage, 20},
		{"explicit per_page", "/products?page=2&per_page=25", 2, 25, 25},
		{"ignores zero page", "/products?page=0", 1, DefaultPerPage, 0},
		{"ignores negative page", "/products?page=-2", 1, DefaultPerPage, 0},
		{"ignores junk", "/products?page=abc&per_page=xyz", 1, DefaultPerPage, 0},
		{"caps per_page", "/products?per_page=5000", 1, DefaultPerPage, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPer, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	params := Params{Page: 2, PerPage: 3, Offset: 3}

	t.Run("full page has next", func(t *testing.T) {
		res := NewResult([]string{"a", "b", "c"}, params)
		assert.True(t, res.HasNext)
		assert.True(t, res.HasPrev)
	})

	t.Run("short page has no next", func(t *testing.T) {
		res := NewResult([]string{"a"}, params)
		assert.False(t, res.HasNext)
	})

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		res := NewResult[string](nil, DefaultParams())
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
		assert.False(t, res.HasPrev)
	})
}
