// file: services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerosync-web/models"
)

const testCatalogYAML = `
server: {ip: 127.0.0.1:30120, playersOnline: 3, maxPlayers: 64, status: maintenance}
rules:
  - {id: a, category: Roleplay, title: No Random Deathmatch, description: Do not kill without a reason.}
  - {id: b, category: Roleplay, title: Fail RP, description: Unrealistic actions are fail RP.}
  - {id: c, category: Crime, title: Robbery Limits, description: Robberies need police on duty.}
  - {id: d, category: Crime, title: Green Zones, description: No crime in hospitals.}
staff:
  - {id: m, name: Mira, role: Moderator}
  - {id: z, name: Zero, role: Owner}
  - {id: k, name: Kernel, role: Developer}
store:
  - {id: t1, name: Tokens, price: "4.99", category: tokens, benefits: [one, two]}
  - {id: g1, name: Gift, price: "9.99", category: gifts}
  - {id: p1, name: Gold, price: "30.00", category: priority}
`

func newTestCatalog(t *testing.T) *CatalogService {
	svc, err := LoadCatalogService([]byte(testCatalogYAML))
	require.NoError(t, err)
	return svc
}

// Test: the catalog compiled into the binary is valid and non-empty
func TestDefaultCatalogLoads(t *testing.T) {
	svc, err := NewDefaultCatalogService()
	require.NoError(t, err)

	assert.NotEmpty(t, svc.Rules())
	assert.NotEmpty(t, svc.Staff())
	assert.NotEmpty(t, svc.StoreItems(models.CategoryTokens))
	assert.NotEmpty(t, svc.StoreItems(models.CategoryGifts))
	assert.NotEmpty(t, svc.StoreItems(models.CategoryPriority))
	assert.True(t, svc.ServerInfo().Status.Valid())
}

func TestLoadCatalog_RejectsBadData(t *testing.T) {
	_, err := LoadCatalogService([]byte("server: [unclosed"))
	assert.Error(t, err)

	_, err = LoadCatalogService([]byte(`server: {ip: x, status: exploded}`))
	assert.ErrorIs(t, err, models.ErrInvalidCatalog)
}

func TestLoadCatalog_ParsesPrices(t *testing.T) {
	svc := newTestCatalog(t)
	items := svc.StoreItems(models.CategoryTokens)
	require.Len(t, items, 1)
	assert.Equal(t, "4.99", items[0].Price.String())
	assert.Equal(t, []string{"one", "two"}, items[0].Benefits)
}

func TestStoreItems_FiltersByCategory(t *testing.T) {
	svc := newTestCatalog(t)
	assert.Len(t, svc.StoreItems(""), 3)
	gifts := svc.StoreItems(models.CategoryGifts)
	require.Len(t, gifts, 1)
	assert.Equal(t, "g1", gifts[0].ID)
}

// Test: callers cannot mutate the catalog through returned slices
func TestStoreItems_ReturnsCopies(t *testing.T) {
	svc := newTestCatalog(t)
	items := svc.StoreItems(models.CategoryTokens)
	items[0].Benefits[0] = "tampered"
	rules := svc.Rules()
	rules[0].Title = "tampered"

	assert.Equal(t, "one", svc.StoreItems(models.CategoryTokens)[0].Benefits[0])
	assert.Equal(t, "No Random Deathmatch", svc.Rules()[0].Title)
}

func TestStaff_OrderedByRank(t *testing.T) {
	svc := newTestCatalog(t)
	staff := svc.Staff()
	require.Len(t, staff, 3)
	assert.Equal(t, []string{"Zero", "Kernel", "Mira"}, []string{staff[0].Name, staff[1].Name, staff[2].Name})
}

func TestRuleCategories_FirstAppearanceOrder(t *testing.T) {
	svc := newTestCatalog(t)
	assert.Equal(t, []string{"Roleplay", "Crime"}, svc.RuleCategories())
}

func TestSearchRules(t *testing.T) {
	svc := newTestCatalog(t)

	// empty query returns everything in rulebook order
	all := svc.SearchRules("", "")
	require.Len(t, all, 4)
	assert.Equal(t, "a", all[0].ID)

	// category filter is case-insensitive
	crime := svc.SearchRules("", "crime")
	assert.Len(t, crime, 2)

	// substring in description
	hits := svc.SearchRules("hospitals", "")
	require.Len(t, hits, 1)
	assert.Equal(t, "d", hits[0].ID)

	// quoted phrase stays together
	hits = svc.SearchRules(`"fail rp"`, "")
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)

	// fuzzy title match
	hits = svc.SearchRules("rbbry", "")
	require.Len(t, hits, 1)
	assert.Equal(t, "c", hits[0].ID)

	// every term must match
	assert.Empty(t, svc.SearchRules("robbery hospitals", ""))

	// category and query combine
	assert.Empty(t, svc.SearchRules("hospitals", "Roleplay"))
}

func TestSearchRules_UnbalancedQuotesFallBack(t *testing.T) {
	svc := newTestCatalog(t)
	hits := svc.SearchRules(`"green`, "")
	require.Len(t, hits, 1)
	assert.Equal(t, "d", hits[0].ID)
}

func TestOverrideServerIP(t *testing.T) {
	svc := newTestCatalog(t)
	svc.OverrideServerIP("")
	assert.Equal(t, "127.0.0.1:30120", svc.ServerInfo().IP)
	svc.OverrideServerIP("10.0.0.1:30120")
	assert.Equal(t, "10.0.0.1:30120", svc.ServerInfo().IP)
}
