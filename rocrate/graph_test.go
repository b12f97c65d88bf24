package rocrate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davelopez/ro-crate-zip-explorer/rocrate"
)

const sampleCrate = `{
  "@context": "https://w3id.org/ro/crate/1.1/context",
  "@graph": [
    {
      "@id": "ro-crate-metadata.json",
      "@type": "CreativeWork",
      "conformsTo": {"@id": "https://w3id.org/ro/crate/1.1"},
      "about": {"@id": "./"}
    },
    {
      "@id": "./",
      "@type": "Dataset",
      "name": "Example Dataset",
      "description": "A dataset used for testing."
    },
    {
      "@id": "results/summary.csv",
      "@type": "File",
      "name": "Summary table",
      "description": "Aggregated results."
    }
  ]
}`

func TestParse_WrappedDocument(t *testing.T) {
	g, err := rocrate.Parse([]byte(sampleCrate))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	e, ok := g.Entity("results/summary.csv")
	require.True(t, ok)
	name, _ := e.String("name")
	assert.Equal(t, "Summary table", name)
}

func TestParse_BareGraphArray(t *testing.T) {
	bare := `[{"@id": "a.txt", "@type": "File"}]`
	g, err := rocrate.Parse([]byte(bare))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestParse_MalformedInput(t *testing.T) {
	_, err := rocrate.Parse([]byte("not json"))
	assert.ErrorIs(t, err, rocrate.ErrMalformedGraph)
}

func TestCrate_RootDataEntity(t *testing.T) {
	g, err := rocrate.Parse([]byte(sampleCrate))
	require.NoError(t, err)
	crate := rocrate.NewCrate(g)

	root, ok := crate.RootDataEntity()
	require.True(t, ok)
	name, _ := root.String("name")
	assert.Equal(t, "Example Dataset", name)
}

func TestCrate_ConformsTo(t *testing.T) {
	g, err := rocrate.Parse([]byte(sampleCrate))
	require.NoError(t, err)
	crate := rocrate.NewCrate(g)

	assert.Equal(t, []string{"https://w3id.org/ro/crate/1.1"}, crate.ConformsTo())
}

func TestCrate_NoDescriptorMeansNoRoot(t *testing.T) {
	bare := `[{"@id": "a.txt", "@type": "File"}]`
	g, err := rocrate.Parse([]byte(bare))
	require.NoError(t, err)
	crate := rocrate.NewCrate(g)

	_, ok := crate.RootDataEntity()
	assert.False(t, ok)
	assert.Nil(t, crate.ConformsTo())
}
