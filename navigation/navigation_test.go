// file: navigation/navigation_test.go
package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func activeLabels(links []NavLink) []string {
	var out []string
	for _, l := range links {
		if l.Active {
			out = append(out, l.Label)
		}
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path      string
		canonical string
		page      Page
		ok        bool
	}{
		{"/", "/", PageHome, true},
		{"", "/", PageHome, true},
		{"/rules", "/rules", PageRules, true},
		{"/rules/", "/rules", PageRules, true},
		{"/team", "/staff", PageStaff, true},
		{"/application", "/apply", PageApply, true},
		{"/queue-priority", "/queue-priority", PageQueuePriority, true},
		{"/nope", "/nope", PageNotFound, false},
		{"/Rules", "/Rules", PageNotFound, false},
	}
	for _, tt := range tests {
		canonical, page, ok := Resolve(tt.path)
		assert.Equal(t, tt.canonical, canonical, tt.path)
		assert.Equal(t, tt.page, page, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}

func TestActive_ExactlyOnePerRoute(t *testing.T) {
	tests := []struct {
		path, query string
		want        string
	}{
		{"/", "", "Home"},
		{"/rules", "q=vdm", "Rules"},
		{"/staff", "", "Staff"},
		{"/team", "", "Staff"},
		{"/store", "", "Tokens"},
		{"/store", "cat=tokens", "Tokens"},
		{"/store", "cat=gifts", "Gifts"},
		{"/store", "cat=GIFTS", "Gifts"},
		{"/store", "cat=priority", "Queue Priority"},
		{"/tos", "", "Terms"},
		{"/apply", "", "Application"},
		{"/application", "", "Application"},
		{"/queue-priority", "", "Queue Priority"},
	}
	for _, tt := range tests {
		links := Active(tt.path, tt.query)
		assert.Len(t, links, len(NavLinks))
		assert.Equal(t, []string{tt.want}, activeLabels(links), "%s?%s", tt.path, tt.query)
	}
}

func TestActive_StoreQueryDistinguishesLinks(t *testing.T) {
	tokens := Active("/store", "cat=tokens")
	gifts := Active("/store", "cat=gifts")
	assert.NotEqual(t, activeLabels(tokens), activeLabels(gifts))
}

func TestActive_UnknownHasNone(t *testing.T) {
	assert.Empty(t, activeLabels(Active("/does-not-exist", "")))
	assert.Empty(t, activeLabels(Active("/store", "cat=vehicles")))
	assert.Empty(t, activeLabels(NoneActive()))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "/store?cat=tokens", Canonical("/store", ""))
	assert.Equal(t, "/store?cat=gifts", Canonical("/store", "cat=gifts&sort=price"))
	assert.Equal(t, "/rules", Canonical("/rules", "category=Crime"))
	assert.Equal(t, "/staff", Canonical("/team", ""))
	assert.Equal(t, "", Canonical("/missing", ""))
}

func TestFooterLinks(t *testing.T) {
	labels := make([]string, 0, len(CommunityLinks))
	for _, l := range CommunityLinks {
		assert.True(t, l.External)
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"Discord", "Twitter", "TikTok", "YouTube", "Instagram", "Facebook"}, labels)
	assert.Equal(t, DiscordInvite, ResourceLinks[len(ResourceLinks)-1].Href)
}
