package app

import (
	"fmt"

	credentialService "github.com/allisson/phiguard/internal/credential/service"
	credentialUsecase "github.com/allisson/phiguard/internal/credential/usecase"
)

// Hasher returns the credential hasher, wrapped with metrics when enabled.
func (c *Container) Hasher() (credentialService.Hasher, error) {
	var err error
	c.hasherInit.Do(func() {
		c.hasher, err = c.initHasher()
		if err != nil {
			c.initErrors["hasher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hasher"]; exists {
		return nil, storedErr
	}
	return c.hasher, nil
}

// Authenticator returns the password authenticator, wrapped with metrics when enabled.
func (c *Container) Authenticator() (credentialUsecase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// initHasher creates the PBKDF2 hasher.
func (c *Container) initHasher() (credentialService.Hasher, error) {
	var hasher credentialService.Hasher = credentialService.NewPBKDF2Hasher(c.config.PasswordIterations)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for hasher: %w", err)
		}
		hasher = credentialService.NewHasherWithMetrics(hasher, businessMetrics)
	}
	return hasher, nil
}

// initAuthenticator creates the authenticator with all its dependencies.
func (c *Container) initAuthenticator() (credentialUsecase.Authenticator, error) {
	store, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for authenticator: %w", err)
	}

	hasher, err := c.Hasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get hasher for authenticator: %w", err)
	}

	trail, err := c.AuditTrail()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit trail for authenticator: %w", err)
	}

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto engine for authenticator: %w", err)
	}

	authenticator := credentialUsecase.NewAuthenticator(
		store,
		hasher,
		trail,
		engine,
		credentialUsecase.AuthenticatorConfig{
			RateLimitPerMinute: c.config.LoginRateLimitPerMinute,
			RateLimitBurst:     c.config.LoginRateLimitBurst,
		},
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authenticator: %w", err)
		}
		return credentialUsecase.NewAuthenticatorWithMetrics(authenticator, businessMetrics), nil
	}
	return authenticator, nil
}
