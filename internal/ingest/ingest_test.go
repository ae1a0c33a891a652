package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companymatch/internal/search"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Run("parses records and trims whitespace", func(t *testing.T) {
		path := writeFixture(t, "corpus.json", `[
			{
				"domain": " acme.com ",
				"companyCommercialName": "Acme Corp",
				"companyLegalName": "Acme Corporation Ltd",
				"phone": "+1 555 0100",
				"socialMedia": ["https://facebook.com/acme", " https://twitter.com/acme "],
				"address": "1 Main St"
			},
			{"domain": "beta.org"}
		]`)

		records, err := LoadJSON(path)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "acme.com", records[0].Domain)
		assert.Equal(t, "Acme Corp", records[0].CommercialName)
		assert.Equal(t, "Acme Corporation Ltd", records[0].LegalName)
		assert.Equal(t, []string{"https://facebook.com/acme", "https://twitter.com/acme"}, records[0].SocialMedia)
		assert.Equal(t, "1 Main St", records[0].Address)

		assert.Equal(t, "beta.org", records[1].Domain)
		assert.Nil(t, records[1].SocialMedia)
	})

	t.Run("social media as comma string is split", func(t *testing.T) {
		path := writeFixture(t, "corpus.json",
			`[{"domain":"acme.com","socialMedia":"https://facebook.com/acme, https://twitter.com/acme"}]`)

		records, err := LoadJSON(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, []string{"https://facebook.com/acme", "https://twitter.com/acme"}, records[0].SocialMedia)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		path := writeFixture(t, "corpus.json", `{"domain": "not an array"}`)
		_, err := LoadJSON(path)
		assert.Error(t, err)
	})
}

func TestLoadCSV(t *testing.T) {
	t.Run("maps header variants", func(t *testing.T) {
		path := writeFixture(t, "corpus.csv",
			"website,name,legal_name,phone,social_media,address\n"+
				"acme.com,Acme Corp,Acme Corporation Ltd,+1 555 0100,\"https://facebook.com/acme,https://twitter.com/acme\",1 Main St\n"+
				"beta.org,Beta,,,,\n")

		records, err := LoadCSV(path)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "acme.com", records[0].Domain)
		assert.Equal(t, "Acme Corp", records[0].CommercialName)
		assert.Equal(t, "Acme Corporation Ltd", records[0].LegalName)
		assert.Equal(t, []string{"https://facebook.com/acme", "https://twitter.com/acme"}, records[0].SocialMedia)

		assert.Equal(t, "beta.org", records[1].Domain)
		assert.Empty(t, records[1].Phone)
		assert.Nil(t, records[1].SocialMedia)
	})

	t.Run("missing header is an error", func(t *testing.T) {
		path := writeFixture(t, "corpus.csv", "")
		_, err := LoadCSV(path)
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile("corpus.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoaderRun(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests multiple files into the backend", func(t *testing.T) {
		jsonPath := writeFixture(t, "a.json", `[{"domain":"acme.com"},{"domain":"beta.org"}]`)
		csvPath := writeFixture(t, "b.csv", "domain\ngamma.net\n")

		backend := search.NewMemoryBackend("companies")
		summary, err := NewLoader(backend, nil).Run(ctx, []string{jsonPath, csvPath})
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Indexed)
		assert.Equal(t, 0, summary.Errors)

		stats, err := backend.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.DocumentsCount)
	})

	t.Run("unreadable file aborts with partial totals", func(t *testing.T) {
		jsonPath := writeFixture(t, "a.json", `[{"domain":"acme.com"}]`)

		backend := search.NewMemoryBackend("companies")
		summary, err := NewLoader(backend, nil).Run(ctx, []string{jsonPath, filepath.Join(t.TempDir(), "missing.json")})
		require.Error(t, err)
		assert.Equal(t, 1, summary.Indexed)
	})
}
