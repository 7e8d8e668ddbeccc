package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var errMalformedHash = errors.New("argon2: malformed encoded hash")

// Argon2Config holds the Argon2id cost parameters used when hashing new
// passwords. Stored hashes embed their own parameters, so changing the
// active configuration never invalidates existing credentials.
type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (c Argon2Config) validate() error {
	switch {
	case c.Memory < 8*1024:
		return errors.New("argon2: memory below 8 MiB")
	case c.Iterations == 0:
		return errors.New("argon2: iterations must be positive")
	case c.Parallelism == 0:
		return errors.New("argon2: parallelism must be positive")
	case c.SaltLength < 8:
		return errors.New("argon2: salt shorter than 8 bytes")
	case c.KeyLength < 16:
		return errors.New("argon2: key shorter than 16 bytes")
	}
	return nil
}

var (
	hashingMu  sync.RWMutex
	hashingCfg = Argon2Config{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
)

// ConfigureArgon2 replaces the cost parameters applied to newly hashed
// passwords. Called once at startup from the application wiring.
func ConfigureArgon2(cfg Argon2Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	hashingMu.Lock()
	hashingCfg = cfg
	hashingMu.Unlock()
	return nil
}

func currentConfig() Argon2Config {
	hashingMu.RLock()
	defer hashingMu.RUnlock()
	return hashingCfg
}

// HashPassword derives an Argon2id hash of the password and encodes it in the
// PHC string format: $argon2id$v=19$m=...,t=...,p=...$<salt>$<key>.
func HashPassword(password string) (string, error) {
	cfg := currentConfig()

	salt := make([]byte, cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, cfg.KeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		cfg.Memory, cfg.Iterations, cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword reports whether password matches the stored encoded hash.
// The comparison is constant-time over the derived keys.
func VerifyPassword(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	cfg, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodeHash(encoded string) (Argon2Config, []byte, []byte, error) {
	var zero Argon2Config

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return zero, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return zero, nil, nil, errMalformedHash
	}
	if version != argon2.Version {
		return zero, nil, nil, fmt.Errorf("argon2: unsupported version %d", version)
	}

	var cfg Argon2Config
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &cfg.Memory, &cfg.Iterations, &cfg.Parallelism); err != nil {
		return zero, nil, nil, errMalformedHash
	}
	if cfg.Memory == 0 || cfg.Iterations == 0 || cfg.Parallelism == 0 {
		return zero, nil, nil, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return zero, nil, nil, fmt.Errorf("argon2: decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return zero, nil, nil, fmt.Errorf("argon2: decode key: %w", err)
	}
	if len(key) == 0 {
		return zero, nil, nil, errMalformedHash
	}

	cfg.SaltLength = uint32(len(salt))
	cfg.KeyLength = uint32(len(key))
	return cfg, salt, key, nil
}
