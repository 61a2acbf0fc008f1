// Package navigation owns the route table and decides which nav link is active.
// file: navigation/navigation.go
package navigation

import (
	"net/url"
	"strings"
)

// Page identifies a content view. Templates are named "<page>.html".
type Page string

const (
	PageHome          Page = "home"
	PageRules         Page = "rules"
	PageStaff         Page = "staff"
	PageStore         Page = "store"
	PageTOS           Page = "tos"
	PageApply         Page = "apply"
	PageQueuePriority Page = "queue-priority"
	PageNotFound      Page = "not-found"
)

// Link is a labelled href.
type Link struct {
	Label    string
	Href     string
	External bool
}

// NavLink is a Link as rendered for one request.
type NavLink struct {
	Link
	Active bool
}

// Routes maps canonical paths to pages.
var Routes = map[string]Page{
	"/":               PageHome,
	"/rules":          PageRules,
	"/staff":          PageStaff,
	"/store":          PageStore,
	"/tos":            PageTOS,
	"/apply":          PageApply,
	"/queue-priority": PageQueuePriority,
}

// Aliases are alternate paths that resolve to a canonical route.
var Aliases = map[string]string{
	"/team":        "/staff",
	"/application": "/apply",
}

// DefaultStoreCategory is assumed when /store has no cat parameter.
const DefaultStoreCategory = "tokens"

// NavLinks is the top bar, in display order.
var NavLinks = []Link{
	{Label: "Home", Href: "/"},
	{Label: "Rules", Href: "/rules"},
	{Label: "Queue Priority", Href: "/queue-priority"},
	{Label: "Tokens", Href: "/store?cat=tokens"},
	{Label: "Gifts", Href: "/store?cat=gifts"},
	{Label: "Application", Href: "/apply"},
	{Label: "Staff", Href: "/staff"},
	{Label: "Terms", Href: "/tos"},
}

const DiscordInvite = "https://discord.com/invite/F5ZpJdyJYe"

// CommunityLinks are the outbound social links in the footer.
var CommunityLinks = []Link{
	{Label: "Discord", Href: DiscordInvite, External: true},
	{Label: "Twitter", Href: "https://x.com/6zerosync3", External: true},
	{Label: "TikTok", Href: "https://www.tiktok.com/@6zerosync3", External: true},
	{Label: "YouTube", Href: "https://www.youtube.com/@6zerosync3", External: true},
	{Label: "Instagram", Href: "https://www.instagram.com/6zerosync3/", External: true},
	{Label: "Facebook", Href: "https://www.facebook.com/6ZeroSync3", External: true},
}

// ResourceLinks are the footer's internal shortcuts.
var ResourceLinks = []Link{
	{Label: "Server Rules", Href: "/rules"},
	{Label: "Web Store", Href: "/store"},
	{Label: "Terms of Service", Href: "/tos"},
	{Label: "Official Support", Href: DiscordInvite, External: true},
}

// Resolve maps a request path (alias or canonical, with or without a trailing
// slash) to its canonical path and page.
func Resolve(path string) (string, Page, bool) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	if target, ok := Aliases[path]; ok {
		path = target
	}
	page, ok := Routes[path]
	if !ok {
		return path, PageNotFound, false
	}
	return path, page, true
}

// Canonical returns the location a nav link must equal to be active. Only
// the store route keeps its query, reduced to the cat parameter; priority
// items live on the queue page.
func Canonical(path, rawQuery string) string {
	canonical, page, ok := Resolve(path)
	if !ok {
		return ""
	}
	if page != PageStore {
		return canonical
	}
	q, _ := url.ParseQuery(rawQuery)
	cat := strings.ToLower(strings.TrimSpace(q.Get("cat")))
	switch cat {
	case "":
		cat = DefaultStoreCategory
	case "priority":
		return "/queue-priority"
	}
	return canonical + "?cat=" + url.QueryEscape(cat)
}

// Active renders the nav bar for a request. At most one link is active, and
// exactly one for every known route.
func Active(path, rawQuery string) []NavLink {
	current := Canonical(path, rawQuery)
	links := make([]NavLink, len(NavLinks))
	found := false
	for i, l := range NavLinks {
		links[i] = NavLink{Link: l}
		if !found && current != "" && l.Href == current {
			links[i].Active = true
			found = true
		}
	}
	return links
}

// NoneActive renders the nav bar with nothing selected, for error pages.
func NoneActive() []NavLink {
	links := make([]NavLink, len(NavLinks))
	for i, l := range NavLinks {
		links[i] = NavLink{Link: l}
	}
	return links
}
