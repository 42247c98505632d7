package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalogue = `[
	{"id": "1", "name": "Base de Maquillaje", "price": 45000, "category": "Maquillaje"},
	{"id": "5", "name": "Suero Hidratante Facial", "price": 55000, "category": "Skincare", "image_url": "https://example.com/5.jpg"}
]`

// writeFile writes content to a file in a temp dir, gzipping it when asked.
func writeFile(t *testing.T, name, content string, compress bool) string {
	t.Helper()

	data := []byte(content)
	if compress {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write(data)
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		data = buf.Bytes()
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFileLoader_Load_Success(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
	}{
		{name: "Plain JSON", compress: false},
		{name: "Gzipped JSON", compress: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "products.json", sampleCatalogue, tt.compress)

			products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

			require.NoError(t, err)
			require.Len(t, products, 2)
			assert.Equal(t, "Base de Maquillaje", products[0].Name)
			assert.True(t, products[1].Price.Equal(decimal.NewFromInt(55000)))
			assert.Equal(t, "https://example.com/5.jpg", products[1].ImageURL)
		})
	}
}

func TestFileLoader_Load_ShippedCatalogue(t *testing.T) {
	products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), filepath.Join("..", "..", "data", "products.json"))

	require.NoError(t, err)
	require.Len(t, products, 8)

	categories := map[string]int{}
	for _, p := range products {
		categories[p.Category]++
	}
	assert.Equal(t, map[string]int{"Maquillaje": 5, "Skincare": 2, "Accesorios": 1}, categories)
}

func TestFileLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		errMatch string
	}{
		{name: "Invalid JSON", content: `[{"id": "1",`, errMatch: "failed to decode products"},
		{name: "Not an array", content: `{"id": "1"}`, errMatch: "failed to decode products"},
		{name: "Missing ID", content: `[{"name": "x", "price": 1, "category": "c"}]`, errMatch: "id is required"},
		{name: "Missing name", content: `[{"id": "1", "price": 1, "category": "c"}]`, errMatch: "name is required"},
		{name: "Missing category", content: `[{"id": "1", "name": "x", "price": 1}]`, errMatch: "category is required"},
		{name: "Negative price", content: `[{"id": "1", "name": "x", "price": -1, "category": "c"}]`, errMatch: "price must not be negative"},
		{
			name:     "Duplicate ID",
			content:  `[{"id": "1", "name": "x", "price": 1, "category": "c"}, {"id": "1", "name": "y", "price": 2, "category": "c"}]`,
			errMatch: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "products.json", tt.content, false)

			products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

			require.Error(t, err)
			assert.Nil(t, products)
			assert.Contains(t, err.Error(), tt.errMatch)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), "/nonexistent/products.json")

	require.Error(t, err)
	assert.Nil(t, products)
	assert.Contains(t, err.Error(), "failed to open catalogue file")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	// Gzip magic followed by garbage.
	path := writeFile(t, "products.json.gz", "\x1f\x8bnot really gzip", false)

	products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

	require.Error(t, err)
	assert.Nil(t, products)
}

func TestFileLoader_Load_ContextCancellation(t *testing.T) {
	path := writeFile(t, "products.json", sampleCatalogue, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, err := NewFileLoader(zerolog.Nop()).Load(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, products)
}

func TestFileLoader_Load_EmptyArray(t *testing.T) {
	path := writeFile(t, "products.json", `[]`, false)

	products, err := NewFileLoader(zerolog.Nop()).Load(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, products)
}
