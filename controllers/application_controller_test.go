// file: controllers/application_controller_test.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zerosync-web/models"
	"zerosync-web/services"
)

const testBackstory = "Grew up on the docks of Elysian Island and learned to keep quiet about what came off the boats."

func validApplication() models.WhitelistApplication {
	return models.WhitelistApplication{
		CharacterName: "Tommy Vercetti",
		DiscordTag:    "tommy.v",
		Age:           21,
		Experience:    "some",
		Backstory:     testBackstory,
	}
}

func applicationForm(app models.WhitelistApplication) url.Values {
	return url.Values{
		"characterName": {app.CharacterName},
		"discordTag":    {app.DiscordTag},
		"age":           {"21"},
		"experience":    {app.Experience},
		"backstory":     {app.Backstory},
	}
}

func setupApplicationRoutes(env *testEnv, apps services.ApplicationServiceInterface) {
	ac := NewApplicationController(apps, env.pages, nil)
	env.router.POST("/apply", ac.Submit)
}

func TestSubmitApplication_FormShowsReceipt(t *testing.T) {
	env := setupTestRouter(t, models.Session{})
	apps := new(MockApplicationService)
	receipt := models.ApplicationReceipt{Reference: "ZS-1234", CharacterName: "Tommy Vercetti", ReceivedAt: time.Now().UTC()}
	apps.On("Submit", validApplication()).Return(receipt, nil).Once()
	setupApplicationRoutes(env, apps)

	w := perform(env.router, "POST", "/apply", form(applicationForm(validApplication())),
		withHeader("Content-Type", formContentType))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thanks, Tommy Vercetti.")
	assert.Contains(t, w.Body.String(), "<code>ZS-1234</code>")
	assert.Contains(t, w.Body.String(), `data-page="apply"`)
	apps.AssertExpectations(t)
}

func TestSubmitApplication_FormRejectedKeepsInput(t *testing.T) {
	env := setupTestRouter(t, models.Session{})
	apps := new(MockApplicationService)
	apps.On("Submit", mock.Anything).Return(models.ApplicationReceipt{},
		&services.ApplicationError{Fields: map[string]string{"age": "must be at least 16"}}).Once()
	setupApplicationRoutes(env, apps)

	w := perform(env.router, "POST", "/apply", form(applicationForm(validApplication())),
		withHeader("Content-Type", formContentType))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Age must be at least 16")
	assert.Contains(t, w.Body.String(), `value="Tommy Vercetti"`)
	assert.NotContains(t, w.Body.String(), "Your reference is")
}

func TestSubmitApplication_NonNumericAge(t *testing.T) {
	env := setupTestRouter(t, models.Session{})
	apps := new(MockApplicationService)
	setupApplicationRoutes(env, apps)

	values := applicationForm(validApplication())
	values.Set("age", "twenty")
	w := perform(env.router, "POST", "/apply", form(values),
		withHeader("Content-Type", formContentType), withHeader("Accept", "application/json"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"errors":{"age":"must be a number"}}`, w.Body.String())
	apps.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestSubmitApplication_JSON(t *testing.T) {
	env := setupTestRouter(t, models.Session{})
	setupApplicationRoutes(env, services.NewApplicationService())

	body, err := json.Marshal(validApplication())
	require.NoError(t, err)
	w := perform(env.router, "POST", "/apply", strings.NewReader(string(body)),
		withHeader("Content-Type", "application/json"))
	require.Equal(t, http.StatusCreated, w.Code)

	var receipt models.ApplicationReceipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.Reference)
	assert.Equal(t, "Tommy Vercetti", receipt.CharacterName)
}

func TestSubmitApplication_JSONFieldErrors(t *testing.T) {
	env := setupTestRouter(t, models.Session{})
	setupApplicationRoutes(env, services.NewApplicationService())

	w := perform(env.router, "POST", "/apply",
		strings.NewReader(`{"characterName":"Al","discordTag":"tommy.v","age":15,"experience":"some","backstory":"short"}`),
		withHeader("Content-Type", "application/json"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "must be at least 3 characters", body.Errors["characterName"])
	assert.Equal(t, "must be at least 16", body.Errors["age"])
	assert.Contains(t, body.Errors, "backstory")
	assert.NotContains(t, body.Errors, "discordTag")
}

func TestSubmitApplication_ServiceFailure(t *testing.T) {
	env := setupTestRouter(t, models.Session{})
	apps := new(MockApplicationService)
	apps.On("Submit", mock.Anything).Return(models.ApplicationReceipt{}, errors.New("boom")).Once()
	setupApplicationRoutes(env, apps)

	w := perform(env.router, "POST", "/apply", form(applicationForm(validApplication())),
		withHeader("Content-Type", formContentType))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
