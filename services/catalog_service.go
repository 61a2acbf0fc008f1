// File: services/catalog_service.go
package services

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"zerosync-web/logger"
	"zerosync-web/models"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogServiceInterface is what the controllers read the static tables through.
type CatalogServiceInterface interface {
	ServerInfo() models.ServerInfo
	Rules() []models.Rule
	RuleCategories() []string
	SearchRules(query, category string) []models.Rule
	Staff() []models.StaffMember
	StoreItems(category models.StoreCategory) []models.StoreItem
}

// CatalogService serves read-only copies of the catalog tables.
type CatalogService struct {
	catalog       models.Catalog
	querySplitter splitter.Splitter
}

var _ CatalogServiceInterface = (*CatalogService)(nil)

// NewDefaultCatalogService loads the catalog compiled into the binary.
func NewDefaultCatalogService() (*CatalogService, error) {
	return LoadCatalogService(defaultCatalogYAML)
}

// LoadCatalogService parses and validates a YAML catalog.
func LoadCatalogService(data []byte) (*CatalogService, error) {
	var catalog models.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	// quoted phrases stay together, e.g. `"fail rp" vdm`
	sp, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("build query splitter: %w", err)
	}

	logger.Info.Printf("[LoadCatalogService] Loaded %d rules, %d staff, %d store items",
		len(catalog.Rules), len(catalog.Staff), len(catalog.Store))
	return &CatalogService{catalog: catalog, querySplitter: sp}, nil
}

// OverrideServerIP replaces the advertised connect address.
func (s *CatalogService) OverrideServerIP(ip string) {
	if ip == "" {
		return
	}
	logger.Info.Printf("[OverrideServerIP] Advertising %s instead of %s", ip, s.catalog.Server.IP)
	s.catalog.Server.IP = ip
}

// ServerInfo returns the connect banner data.
func (s *CatalogService) ServerInfo() models.ServerInfo {
	return s.catalog.Server
}

// Rules returns every rule in rulebook order.
func (s *CatalogService) Rules() []models.Rule {
	return append([]models.Rule(nil), s.catalog.Rules...)
}

// RuleCategories returns categories in order of first appearance.
func (s *CatalogService) RuleCategories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range s.catalog.Rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// SearchRules filters by category (case-insensitive, empty means all) and then
// by query terms. Every term must match; a term matches when it is a substring
// of the title or description, or a fuzzy match of the title. Results are
// ordered best match first, rulebook order breaking ties.
func (s *CatalogService) SearchRules(query, category string) []models.Rule {
	terms := s.queryTerms(query)

	type scored struct {
		rule  models.Rule
		score int
		index int
	}
	var hits []scored
	for i, r := range s.catalog.Rules {
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		total, ok := 0, true
		for _, term := range terms {
			score := matchRule(term, r)
			if score < 0 {
				ok = false
				break
			}
			total += score
		}
		if ok {
			hits = append(hits, scored{rule: r, score: total, index: i})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score < hits[b].score
		}
		return hits[a].index < hits[b].index
	})

	out := make([]models.Rule, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.rule)
	}
	logger.Debug.Printf("[SearchRules] query=%q category=%q terms=%q hits=%d", query, category, terms, len(out))
	return out
}

// matchRule returns 0 for a substring hit, the fuzzy distance for a fuzzy
// title hit, or -1 for no match.
func matchRule(term string, r models.Rule) int {
	lowerTerm := strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(r.Description), lowerTerm) {
		return 0
	}
	if rank := fuzzy.RankMatchFold(term, r.Title); rank >= 0 {
		return rank + 1
	}
	return -1
}

func (s *CatalogService) queryTerms(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	parts, err := s.querySplitter.Split(query)
	if err != nil {
		// unbalanced quotes; fall back to plain words
		logger.Debug.Printf("[queryTerms] splitter rejected %q: %v", query, err)
		parts = strings.Fields(query)
	}
	var terms []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(p, "\"“”"))
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

// staff ordering on the roster page
var roleRank = map[models.StaffRole]int{
	models.RoleOwner:     0,
	models.RoleDeveloper: 1,
	models.RoleHeadAdmin: 2,
	models.RoleAdmin:     3,
	models.RoleModerator: 4,
}

// Staff returns the roster ordered by rank, catalog order within a rank.
func (s *CatalogService) Staff() []models.StaffMember {
	out := append([]models.StaffMember(nil), s.catalog.Staff...)
	sort.SliceStable(out, func(a, b int) bool {
		return roleRank[out[a].Role] < roleRank[out[b].Role]
	})
	return out
}

// StoreItems returns the items in a category; an empty category returns all.
func (s *CatalogService) StoreItems(category models.StoreCategory) []models.StoreItem {
	var out []models.StoreItem
	for _, item := range s.catalog.Store {
		if category == "" || item.Category == category {
			item.Benefits = append([]string(nil), item.Benefits...)
			out = append(out, item)
		}
	}
	return out
}
