// file: services/application_service_test.go
package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerosync-web/models"
)

func validApplication() models.WhitelistApplication {
	return models.WhitelistApplication{
		CharacterName: "Tommy Vercetti",
		DiscordTag:    "tommy.v",
		Age:           27,
		Experience:    "some",
		Backstory:     strings.Repeat("Moved to Los Santos after a deal went wrong. ", 3),
	}
}

func TestApplicationService_Submit(t *testing.T) {
	svc := NewApplicationService()
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("BST", 6*3600))
	svc.now = func() time.Time { return fixed }

	app := validApplication()
	app.CharacterName = "  Tommy Vercetti  "
	receipt, err := svc.Submit(app)
	require.NoError(t, err)

	_, perr := uuid.Parse(receipt.Reference)
	assert.NoError(t, perr)
	assert.Equal(t, "Tommy Vercetti", receipt.CharacterName)
	assert.Equal(t, fixed.UTC(), receipt.ReceivedAt)
}

func TestApplicationService_UniqueReferences(t *testing.T) {
	svc := NewApplicationService()
	a, err := svc.Submit(validApplication())
	require.NoError(t, err)
	b, err := svc.Submit(validApplication())
	require.NoError(t, err)
	assert.NotEqual(t, a.Reference, b.Reference)
}

func TestApplicationService_DiscordTag(t *testing.T) {
	svc := NewApplicationService()
	cases := map[string]bool{
		"tommy.v":      true,
		"zero_sync":    true,
		"Tommy#1234":   true,
		"a":            false,
		"Has Spaces":   false,
		"tommy#12":     false,
		"@tommy":       false,
		"UPPER":        false,
		"":             false,
	}
	for tag, ok := range cases {
		app := validApplication()
		app.DiscordTag = tag
		_, err := svc.Submit(app)
		if ok {
			assert.NoError(t, err, tag)
			continue
		}
		var appErr *ApplicationError
		if assert.ErrorAs(t, err, &appErr, tag) {
			assert.Contains(t, appErr.Fields, "discordTag", tag)
		}
	}
}

func TestApplicationService_FieldErrors(t *testing.T) {
	svc := NewApplicationService()
	app := models.WhitelistApplication{
		CharacterName: "Al",
		DiscordTag:    "tommy.v",
		Age:           15,
		Experience:    "expert",
		Backstory:     "Too short.",
	}

	_, err := svc.Submit(app)
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)

	assert.Equal(t, "must be at least 3 characters", appErr.Fields["characterName"])
	assert.Equal(t, "must be at least 16", appErr.Fields["age"])
	assert.Equal(t, "must be one of: none some experienced", appErr.Fields["experience"])
	assert.Equal(t, "must be at least 50 characters", appErr.Fields["backstory"])
	assert.NotContains(t, appErr.Fields, "discordTag")
	assert.Contains(t, err.Error(), "invalid application")
}

func TestApplicationService_RequiredFields(t *testing.T) {
	svc := NewApplicationService()
	_, err := svc.Submit(models.WhitelistApplication{CharacterName: "   "})

	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	for _, field := range []string{"characterName", "discordTag", "age", "experience", "backstory"} {
		assert.Equal(t, "is required", appErr.Fields[field], field)
	}
}
