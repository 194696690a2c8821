package sms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrInvalidNumber = errors.New("invalid phone number")

// Client sends SMS through Twilio from a fixed sender number.
type Client struct {
	rest       *twilio.RestClient
	fromNumber string
}

func New(accountSID, authToken, fromNumber string) *Client {
	return &Client{
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		fromNumber: fromNumber,
	}
}

// ValidateNumber accepts E.164-style numbers: a leading '+' followed by digits.
func ValidateNumber(number string) error {
	if !strings.HasPrefix(number, "+") || len(number) < 4 {
		return fmt.Errorf("%w: %s", ErrInvalidNumber, number)
	}
	for _, r := range number[1:] {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %s", ErrInvalidNumber, number)
		}
	}
	return nil
}

func (c *Client) Send(toNumber, body string) error {
	if err := ValidateNumber(toNumber); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{
		To:   &toNumber,
		From: &c.fromNumber,
		Body: &body,
	}

	if _, err := c.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", toNumber, err)
	}
	return nil
}
