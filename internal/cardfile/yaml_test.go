package cardfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encukou/ptcgdex/internal/domain"
)

const sampleSetFile = `
name: Base Set
total: 102
release date: "1999-01-09"
cards:
  - name: Pikachu
    class: P
    hp: 40
  - name: Raichu
    class: P
    hp: 80
`

func TestDecodeDocumentsSetFile(t *testing.T) {
	docs, err := DecodeDocuments(strings.NewReader(sampleSetFile))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	require.NotNil(t, doc.Set)
	assert.Equal(t, "Base Set", doc.Set.Name)
	require.NotNil(t, doc.Set.Total)
	assert.Equal(t, 102, *doc.Set.Total)
	require.NotNil(t, doc.Set.ReleaseDate)
	assert.Equal(t, time.Date(1999, 1, 9, 0, 0, 0, 0, time.UTC), *doc.Set.ReleaseDate)
	assert.Nil(t, doc.Set.BanDate)

	require.Len(t, doc.Cards, 2)
	name, _, err := doc.Cards[0].PopString("name")
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", name)
}

func TestDecodeDocumentsBareCards(t *testing.T) {
	in := "name: Pikachu\n---\nname: Raichu\n"
	docs, err := DecodeDocuments(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Nil(t, docs[0].Set)
	require.Len(t, docs[1].Cards, 1)
}

func TestDecodeDocumentsSetFileMissingName(t *testing.T) {
	in := "total: 10\ncards: []\n"
	_, err := DecodeDocuments(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
}

func TestDecodeDocumentsSetFileLeftover(t *testing.T) {
	in := "name: Base Set\nmystery: 1\ncards: []\n"
	_, err := DecodeDocuments(strings.NewReader(in))
	require.Error(t, err)

	var mismatch *domain.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"mystery"}, mismatch.Leftover)
}

func TestDecodeDocumentsBadDate(t *testing.T) {
	in := "name: Base Set\nrelease date: someday\ncards: []\n"
	_, err := DecodeDocuments(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestEncodeDecodeCardRecord(t *testing.T) {
	hp := 40
	legal := true
	rec := CardRecord{
		Name:  "Pikachu",
		Class: "P",
		Types: []string{"Lightning"},
		HP:    &hp,
		Stage: "Basic",
		Legal: &legal,
		Mechanics: []MechanicRecord{
			{Name: "Thunder Jolt", Class: "attack", Cost: "LC", Damage: "30"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeDocuments(&buf, rec))

	docs, err := DecodeDocuments(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Len(t, docs[0].Cards, 1)

	card := docs[0].Cards[0]
	name, _, err := card.PopString("name")
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", name)
	gotHP, _, err := card.PopInt("hp")
	require.NoError(t, err)
	assert.Equal(t, 40, gotHP)
}

func TestTextRoundTrip(t *testing.T) {
	long := "It raises its tail to check its surroundings, and the tail is sometimes struck by lightning in this pose."
	rec := CardRecord{Name: "Pikachu", DexEntry: Text(long)}

	var buf bytes.Buffer
	require.NoError(t, EncodeDocuments(&buf, rec))

	docs, err := DecodeDocuments(&buf)
	require.NoError(t, err)
	entry, _, err := docs[0].Cards[0].PopString("dex entry")
	require.NoError(t, err)
	assert.Equal(t, long, entry)
}

func TestEncodeOmitsEmptyFields(t *testing.T) {
	legal := false
	rec := CardRecord{Name: "Potion", Class: "T", Legal: &legal}

	var buf bytes.Buffer
	require.NoError(t, EncodeDocuments(&buf, rec))

	out := buf.String()
	assert.Contains(t, out, "legal: false")
	assert.NotContains(t, out, "hp:")
	assert.NotContains(t, out, "mechanics:")
}
