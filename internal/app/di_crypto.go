package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	cryptoUsecase "github.com/allisson/phiguard/internal/crypto/usecase"
	"github.com/allisson/phiguard/internal/keystore"
)

// KeyStore returns the secure key-value store selected by KEYSTORE_DRIVER,
// sealed with a KMS keeper when KMS_KEY_URI is set.
func (c *Container) KeyStore() (keystore.Store, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the HKDF key deriver.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewHKDFKeyDeriver()
	})
	return c.keyDeriver
}

// CryptoEngine returns the undecorated engine. Use Engine for normal operation;
// this accessor exists so the alert hook can be installed.
func (c *Container) CryptoEngine() (*cryptoUsecase.CryptoEngine, error) {
	var err error
	c.cryptoEngineInit.Do(func() {
		c.cryptoEngine, err = c.initCryptoEngine()
		if err != nil {
			c.initErrors["cryptoEngine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoEngine"]; exists {
		return nil, storedErr
	}
	return c.cryptoEngine, nil
}

// Engine returns the crypto engine, wrapped with metrics when enabled.
func (c *Container) Engine() (cryptoUsecase.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// initKeyStore creates the key store backend and optional KMS wrapping.
func (c *Container) initKeyStore() (keystore.Store, error) {
	var store keystore.Store
	switch c.config.KeyStoreDriver {
	case "memory":
		store = keystore.NewMemoryStore()
	case "file":
		fileStore, err := keystore.NewFileStore(c.config.KeyStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file key store: %w", err)
		}
		store = fileStore
	case "keychain":
		keychainStore, err := keystore.NewKeychainStore(c.config.KeyStoreNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to open keychain key store: %w", err)
		}
		store = keychainStore
	default:
		return nil, fmt.Errorf("unsupported key store driver: %s", c.config.KeyStoreDriver)
	}

	if c.config.KMSKeyURI == "" {
		return store, nil
	}

	keeper, err := keystore.OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	c.keeper = keeper

	c.Logger().Info("key store values are sealed with a kms keeper",
		slog.String("driver", c.config.KeyStoreDriver),
	)
	return keystore.NewKeeperStore(keeper, store), nil
}

// initCryptoEngine creates the engine core.
func (c *Container) initCryptoEngine() (*cryptoUsecase.CryptoEngine, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.CryptoAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse crypto algorithm: %w", err)
	}

	store, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for crypto engine: %w", err)
	}

	return cryptoUsecase.NewEngine(store, c.KeyDeriver(), c.AEADManager(), algorithm, c.Logger()), nil
}

// initEngine decorates the engine core with metrics if enabled.
func (c *Container) initEngine() (cryptoUsecase.Engine, error) {
	core, err := c.CryptoEngine()
	if err != nil {
		return nil, err
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for crypto engine: %w", err)
		}
		return cryptoUsecase.NewEngineWithMetrics(core, businessMetrics), nil
	}

	return core, nil
}
