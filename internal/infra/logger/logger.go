package logger

import (
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// New returns the process-wide zap.Logger: JSON in production, colourised
// console output everywhere else.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		lg, err = cfg.Build()
	})
	return lg, err
}

// RequestIDKey stores the request identifier on a context.Context.
type RequestIDKey struct{}

var emailRegex = regexp.MustCompile(`^([^@]{1,3})[^@]*(@.+)$`)

// MaskEmail hides the local part of an address beyond its first characters:
// john.doe@example.com becomes joh***@example.com. Usernames double as email
// addresses here, so they are masked before logging.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	if matches := emailRegex.FindStringSubmatch(email); len(matches) == 3 {
		return matches[1] + "***" + matches[2]
	}

	if parts := strings.SplitN(email, "@", 2); len(parts) == 2 {
		return "***@" + parts[1]
	}
	return "***"
}

// MaskIP hides the final segment of an address, keeping the network prefix:
// 192.168.1.100 becomes 192.168.1.***.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if idx := strings.LastIndex(ip, "."); idx > 0 {
		return ip[:idx] + ".***"
	}
	if idx := strings.LastIndex(ip, ":"); idx > 0 {
		return ip[:idx] + ":***"
	}
	return "***"
}
