package stripe

// Config holds the gateway credentials.
type Config struct {
	// SecretKey authenticates API calls such as creating payment intents.
	SecretKey string

	// WebhookSecret is the signing secret of the webhook endpoint.
	WebhookSecret string

	// Currency is the ISO code charged for orders, lower case.
	Currency string
}

// Validate checks that webhooks can be verified.
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return ErrNotConfigured
	}
	return nil
}
