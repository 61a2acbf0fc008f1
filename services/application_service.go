// File: services/application_service.go
package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"zerosync-web/logger"
	"zerosync-web/models"
)

// Current Discord usernames, or the legacy name#0000 form.
var discordTagPattern = regexp.MustCompile(`^(?:[a-z0-9_.]{2,32}|[^#@:]{2,32}#[0-9]{4})$`)

// ApplicationError carries one message per rejected form field.
type ApplicationError struct {
	Fields map[string]string
}

func (e *ApplicationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

// ApplicationServiceInterface accepts whitelist applications.
type ApplicationServiceInterface interface {
	Submit(app models.WhitelistApplication) (models.ApplicationReceipt, error)
}

// ApplicationService validates submissions and issues a receipt. Nothing is
// persisted or forwarded anywhere.
type ApplicationService struct {
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

var _ ApplicationServiceInterface = (*ApplicationService)(nil)

func NewApplicationService() *ApplicationService {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the form field name rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return formName(f.Tag.Get("form"), f.Name)
	})
	if err := v.RegisterValidation("discordtag", func(fl validator.FieldLevel) bool {
		return discordTagPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	return &ApplicationService{
		validate: v,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Submit trims and validates app and returns a receipt.
func (s *ApplicationService) Submit(app models.WhitelistApplication) (models.ApplicationReceipt, error) {
	app.CharacterName = strings.TrimSpace(app.CharacterName)
	app.DiscordTag = strings.TrimSpace(app.DiscordTag)
	app.Experience = strings.TrimSpace(app.Experience)
	app.Backstory = strings.TrimSpace(app.Backstory)

	if err := s.validate.Struct(app); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.ApplicationReceipt{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
		logger.Warn.Printf("[Submit] rejected application: %d invalid fields", len(fields))
		return models.ApplicationReceipt{}, &ApplicationError{Fields: fields}
	}

	receipt := models.ApplicationReceipt{
		Reference:     s.newID(),
		CharacterName: app.CharacterName,
		ReceivedAt:    s.now().UTC(),
	}
	logger.Info.Printf("[Submit] application %s received for %q", receipt.Reference, receipt.CharacterName)
	return receipt, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "discordtag":
		return "must be a Discord username"
	default:
		return "is invalid"
	}
}

func formName(tag, fallback string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
