package offer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksByKeywordHits(t *testing.T) {
	store := NewMemoryStore(Seed())

	got := store.Search(DemoCompanyID, "¿Tienen fibra para mejorar la velocidad del internet?", 2)
	require.NotEmpty(t, got)
	assert.Equal(t, "Fibra 600 Mb", got[0].Title)
}

func TestSearchFoldsAccents(t *testing.T) {
	store := NewMemoryStore(Seed())
	got := store.Search(DemoCompanyID, "Quiero ver TELEVISIÓN", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "TV Full HD", got[0].Title)
}

func TestSearchHonoursCompanyScope(t *testing.T) {
	store := NewMemoryStore(Seed())

	assert.Empty(t, store.Search("other-company", "fibra internet", 0))
	got := store.Search("other-company", "necesito soporte", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Soporte técnico 24/7", got[0].Title)
}

func TestSearchEmptyQuery(t *testing.T) {
	assert.Nil(t, NewMemoryStore(Seed()).Search(DemoCompanyID, "  ¿? ", 3))
}

func TestListReturnsCopyPerCompany(t *testing.T) {
	store := NewMemoryStore(Seed())
	assert.Len(t, store.List(DemoCompanyID), 4)
	assert.Len(t, store.List("other-company"), 1)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`offers:
  - companyId: acme-1
    keywords: [zapatillas, running]
    title: Zapatillas Run
    description: Amortiguación extra
    price: $49
    url: https://acme.test/run
`), 0o644))

	store, err := LoadFile(path)
	require.NoError(t, err)
	got := store.Search("acme-1", "zapatillas para running", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Zapatillas Run", got[0].Title)
	assert.Equal(t, "$49", got[0].Price)
	assert.Equal(t, "https://acme.test/run", got[0].URL)
}

func TestLoadFileRequiresTitleAndDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offers:\n  - title: Solo título\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
