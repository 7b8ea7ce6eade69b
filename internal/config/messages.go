package config

import "fmt"

const (
	errRequiredEnvNotSetFmt = "required environment variable %s is not set"
	errSecretTooShortFmt    = "%s must be at least %d characters"
	errSecretLowEntropyFmt  = "%s has insufficient entropy (appears non-random). Use a cryptographically secure random string."
)

type messageBuilders struct {
	requiredEnvNotSet func(string) string
	secretTooShort    func(string, int) string
	secretLowEntropy  func(string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		requiredEnvNotSet: func(key string) string {
			return fmt.Sprintf(errRequiredEnvNotSetFmt, key)
		},
		secretTooShort: func(key string, min int) string {
			return fmt.Sprintf(errSecretTooShortFmt, key, min)
		},
		secretLowEntropy: func(key string) string {
			return fmt.Sprintf(errSecretLowEntropyFmt, key)
		},
	}
}

var messages = newMessageBuilders()
