package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"telehealth-backend/config"
	"telehealth-backend/internal/domain/gateway"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrInvalidNumber is returned when a recipient number does not reduce to
// exactly 10 digits; no provider call is made in that case.
var ErrInvalidNumber = errors.New("invalid mobile number")

var nonDigits = regexp.MustCompile(`\D`)

type twilioSender struct {
	client             *twilio.RestClient
	from               string
	defaultCountryCode string
	log                *logrus.Logger
}

// NewTwilioSender wraps the Twilio SDK behind the NotificationSender surface.
func NewTwilioSender(cfg config.TwilioConfig, log *logrus.Logger) gateway.NotificationSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	countryCode := cfg.DefaultCountryCode
	if countryCode == "" {
		countryCode = "+91"
	}

	return &twilioSender{
		client:             client,
		from:               cfg.From,
		defaultCountryCode: countryCode,
		log:                log,
	}
}

// Send delivers a templated text message. The number is validated locally
// before the provider is contacted.
func (s *twilioSender) Send(ctx context.Context, number, message, countryCode string) error {
	sanitized, err := s.sanitizeNumber(number)
	if err != nil {
		return err
	}

	if countryCode == "" {
		countryCode = s.defaultCountryCode
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(countryCode + sanitized)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return nil
}

func (s *twilioSender) sanitizeNumber(number string) (string, error) {
	sanitized := nonDigits.ReplaceAllString(number, "")
	if len(sanitized) != 10 {
		return "", ErrInvalidNumber
	}
	return sanitized, nil
}
