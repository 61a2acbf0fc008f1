// File: models/catalog.go
package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidCatalog is returned when catalog data holds values outside the defined enums.
var ErrInvalidCatalog = errors.New("invalid catalog entry")

// ----------------------- server info -----------------------

// ServerStatus is the advertised state of the game server.
type ServerStatus string

const (
	StatusOnline      ServerStatus = "online"
	StatusOffline     ServerStatus = "offline"
	StatusMaintenance ServerStatus = "maintenance"
)

// Valid reports whether s is a known status.
func (s ServerStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusMaintenance:
		return true
	}
	return false
}

// ServerInfo is the connect banner shown on the home page. Never written by the site.
type ServerInfo struct {
	IP            string       `json:"ip" yaml:"ip"`
	PlayersOnline int          `json:"playersOnline" yaml:"playersOnline"`
	MaxPlayers    int          `json:"maxPlayers" yaml:"maxPlayers"`
	Status        ServerStatus `json:"status" yaml:"status"`
}

// ConnectURL is the game-client deep link for the server.
func (s ServerInfo) ConnectURL() string {
	return "fivem://connect/" + s.IP
}

// ------------------------ rules ------------------------

// Rule is a single entry in the server rulebook.
type Rule struct {
	ID          string `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// ------------------------ staff ------------------------

// StaffRole is the rank shown on a staff card.
type StaffRole string

const (
	RoleOwner     StaffRole = "Owner"
	RoleDeveloper StaffRole = "Developer"
	RoleHeadAdmin StaffRole = "Head Admin"
	RoleAdmin     StaffRole = "Admin"
	RoleModerator StaffRole = "Moderator"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleOwner, RoleDeveloper, RoleHeadAdmin, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// StaffMember is one card on the staff page.
type StaffMember struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Role      StaffRole `json:"role" yaml:"role"`
	Avatar    string    `json:"avatar" yaml:"avatar"`
	DiscordID string    `json:"discordId" yaml:"discordId"`
}

// ------------------------ store ------------------------

// StoreCategory groups store items for the Tokens / Gifts / Queue Priority pages.
type StoreCategory string

const (
	CategoryTokens   StoreCategory = "tokens"
	CategoryGifts    StoreCategory = "gifts"
	CategoryPriority StoreCategory = "priority"
)

// Valid reports whether c is a known category.
func (c StoreCategory) Valid() bool {
	switch c {
	case CategoryTokens, CategoryGifts, CategoryPriority:
		return true
	}
	return false
}

// StoreItem is a purchasable package. Price is in USD.
type StoreItem struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Description string          `json:"description" yaml:"description"`
	Benefits    []string        `json:"benefits" yaml:"benefits"`
	Image       string          `json:"image" yaml:"image"`
	Category    StoreCategory   `json:"category" yaml:"category"`
}

// ---------------------- catalog ----------------------

// Catalog is every static table the site renders.
type Catalog struct {
	Server ServerInfo    `yaml:"server"`
	Rules  []Rule        `yaml:"rules"`
	Staff  []StaffMember `yaml:"staff"`
	Store  []StoreItem   `yaml:"store"`
}

// Validate checks enum fields and ID uniqueness.
func (c *Catalog) Validate() error {
	if !c.Server.Status.Valid() {
		return fmt.Errorf("%w: server status %q", ErrInvalidCatalog, c.Server.Status)
	}
	seen := make(map[string]bool)
	for _, r := range c.Rules {
		if r.ID == "" || seen["rule:"+r.ID] {
			return fmt.Errorf("%w: rule id %q", ErrInvalidCatalog, r.ID)
		}
		seen["rule:"+r.ID] = true
	}
	for _, s := range c.Staff {
		if !s.Role.Valid() {
			return fmt.Errorf("%w: staff %q has role %q", ErrInvalidCatalog, s.Name, s.Role)
		}
		if s.ID == "" || seen["staff:"+s.ID] {
			return fmt.Errorf("%w: staff id %q", ErrInvalidCatalog, s.ID)
		}
		seen["staff:"+s.ID] = true
	}
	for _, item := range c.Store {
		if !item.Category.Valid() {
			return fmt.Errorf("%w: item %q has category %q", ErrInvalidCatalog, item.Name, item.Category)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %q has negative price", ErrInvalidCatalog, item.Name)
		}
		if item.ID == "" || seen["item:"+item.ID] {
			return fmt.Errorf("%w: item id %q", ErrInvalidCatalog, item.ID)
		}
		seen["item:"+item.ID] = true
	}
	return nil
}
