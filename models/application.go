// File: models/application.go
package models

import "time"

// WhitelistApplication is the form a prospective player submits to request access.
type WhitelistApplication struct {
	CharacterName string `form:"characterName" json:"characterName" validate:"required,min=3,max=48"`
	DiscordTag    string `form:"discordTag" json:"discordTag" validate:"required,discordtag"`
	Age           int    `form:"age" json:"age" validate:"required,gte=16,lte=99"`
	Experience    string `form:"experience" json:"experience" validate:"required,oneof=none some experienced"`
	Backstory     string `form:"backstory" json:"backstory" validate:"required,min=50,max=4000"`
}

// ApplicationReceipt acknowledges a submission. Nothing is stored or forwarded.
type ApplicationReceipt struct {
	Reference     string    `json:"reference"`
	CharacterName string    `json:"characterName"`
	ReceivedAt    time.Time `json:"receivedAt"`
}
