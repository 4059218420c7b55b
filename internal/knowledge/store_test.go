package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.KnowledgeConfig{}, NewLocalEmbeddingFunc(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestStoreSearchEmpty(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), "anything", "", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStoreAddGeneratesID(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Add(context.Background(), Document{
		Title:   "Reset a password",
		Content: "How to reset a forgotten password through the portal",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.Count())
}

func TestStoreAddKeepsCallerID(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Add(context.Background(), Document{
		ID:      "doc-1",
		Title:   "Custom",
		Content: "custom content",
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
}

func TestStoreRoundTripMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, Document{
		ID:                   "doc-vpn",
		Title:                "VPN troubleshooting",
		Content:              "VPN tunnel drops repeatedly on hotel networks",
		Category:             "Network Issues",
		Steps:                []string{"Check credentials", "Re-add the profile"},
		EstimatedTimeMinutes: 15,
		SuccessRate:          0.8,
	})
	require.NoError(t, err)

	// Identical query text embeds identically, so the hit clears any floor.
	results, err := store.Search(ctx, "VPN tunnel drops repeatedly on hotel networks", "", 5, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "doc-vpn", r.ID)
	assert.Equal(t, "VPN troubleshooting", r.Title)
	assert.Equal(t, "Network Issues", r.Category)
	assert.Equal(t, []string{"Check credentials", "Re-add the profile"}, r.Steps)
	assert.Equal(t, 15, r.EstimatedTimeMinutes)
	assert.InDelta(t, 0.8, r.SuccessRate, 1e-9)
	assert.Equal(t, "knowledge_base", r.Source)
	assert.Greater(t, r.Score, 0.5)
}

func TestStoreSearchCategoryFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, Document{ID: "a", Title: "A", Content: "printer jam in the copy room", Category: "Printer Problems"})
	require.NoError(t, err)
	_, err = store.Add(ctx, Document{ID: "b", Title: "B", Content: "printer driver reinstall guide", Category: "Software Problems"})
	require.NoError(t, err)

	results, err := store.Search(ctx, "printer", "Printer Problems", 1, -1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestStoreSearchLimitClampedToSize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, Document{ID: "only", Title: "Only", Content: "single document"})
	require.NoError(t, err)

	// Limit above collection size must not error.
	results, err := store.Search(ctx, "single document", "", 50, -1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStoreSearchSimilarityFloor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, Document{ID: "x", Title: "X", Content: "wifi keeps dropping on the third floor"})
	require.NoError(t, err)

	// An impossible floor drops every hit.
	results, err := store.Search(ctx, "wifi keeps dropping on the third floor", "", 5, 1.1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSeedDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaultCorpus), added)
	assert.Equal(t, len(defaultCorpus), store.Count())

	// Idempotent on a non-empty store.
	added, err = store.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, len(defaultCorpus), store.Count())
}

func TestLocalEmbeddingDeterministic(t *testing.T) {
	embed := NewLocalEmbeddingFunc()

	a, err := embed(context.Background(), "the same text")
	require.NoError(t, err)
	b, err := embed(context.Background(), "the same text")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, localEmbeddingDims)

	// Unit norm within float tolerance.
	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}
