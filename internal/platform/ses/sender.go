// Package ses sends notification email through Amazon SES (API v2).
package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ErrNoFromAddress is returned when the sender address is not configured.
var ErrNoFromAddress = errors.New("ses from address is not set")

// API is the subset of the SES v2 client used by Sender.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender sends plain-text email from a fixed address. It satisfies
// notify.Sender.
type Sender struct {
	client API
	from   string
}

// NewSender creates a Sender over an existing SES client.
func NewSender(client API, from string) (*Sender, error) {
	if from == "" {
		return nil, ErrNoFromAddress
	}
	return &Sender{client: client, from: from}, nil
}

// NewSenderFromEnvironment loads AWS credentials the default way (env,
// shared config, instance role) and creates a Sender. An empty region
// leaves the region to the default chain.
func NewSenderFromEnvironment(ctx context.Context, region, from string) (*Sender, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSender(sesv2.NewFromConfig(cfg), from)
}

// Send implements notify.Sender.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	return nil
}
