package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
watches:
  - name: classic
    type: analog
    asset: asset://watch/classic
    timezone: Europe/Berlin
    transform:
      position: {x: 0, y: 0.02, z: 0}
      scale: {x: 1, y: 1, z: 1}
    hands:
      hour:
        asset: asset://watch/classic/hour-hand
      minute:
        asset: asset://watch/classic/minute-hand
      second:
        asset: asset://watch/classic/second-hand
  - name: segment
    type: digital
    asset: asset://watch/segment
`

func TestDecodeCatalog(t *testing.T) {
	c, err := DecodeCatalog(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.Len(t, c.Watches, 2)

	spec, ok := c.Lookup("classic")
	require.True(t, ok)
	assert.Equal(t, TypeAnalog, spec.Type)
	assert.Equal(t, "Europe/Berlin", spec.Timezone)
	require.NotNil(t, spec.Transform)
	assert.Equal(t, 0.02, spec.Transform.Position.Y)
	assert.Equal(t, "asset://watch/classic/minute-hand", string(spec.Hands[HandMinute].Asset))

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestDecodeCatalogMissingHand(t *testing.T) {
	yaml := `
watches:
  - name: broken
    type: analog
    asset: asset://watch/broken
    hands:
      hour:
        asset: asset://watch/broken/hour-hand
      minute:
        asset: asset://watch/broken/minute-hand
`
	_, err := DecodeCatalog(strings.NewReader(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second hand")
}

func TestDecodeCatalogHandWithoutAsset(t *testing.T) {
	yaml := `
watches:
  - name: broken
    type: analog
    asset: asset://watch/broken
    hands:
      hour: {asset: asset://h}
      minute: {asset: asset://m}
      second: {}
`
	_, err := DecodeCatalog(strings.NewReader(yaml))
	require.Error(t, err)
}

func TestDecodeCatalogUnknownType(t *testing.T) {
	yaml := `
watches:
  - name: odd
    type: sundial
    asset: asset://watch/odd
`
	_, err := DecodeCatalog(strings.NewReader(yaml))
	require.Error(t, err)
}

func TestDecodeCatalogDuplicateName(t *testing.T) {
	yaml := `
watches:
  - name: segment
    type: digital
    asset: asset://a
  - name: segment
    type: digital
    asset: asset://b
`
	_, err := DecodeCatalog(strings.NewReader(yaml))
	require.Error(t, err)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.validate())

	spec, ok := c.Lookup("classic")
	require.True(t, ok)
	for _, hand := range HandNames {
		assert.NotEmpty(t, spec.Hands[hand].Asset)
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Watches, 2)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(catalogYAML))
	}))
	defer srv.Close()

	c, err := FetchCatalog(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, c.Watches, 2)
}

func TestFetchCatalogBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchCatalog(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestSpecCopiesAreImmutable(t *testing.T) {
	c := DefaultCatalog()
	spec, _ := c.Lookup("classic")

	owned := spec.WithOwner("alice").WithTimezone("UTC")
	assert.Equal(t, "alice", owned.Owner)
	assert.Equal(t, "UTC", owned.Timezone)

	again, _ := c.Lookup("classic")
	assert.Empty(t, again.Owner, "catalog specs must not be mutated by dispensing")
	assert.Empty(t, again.Timezone)
}
