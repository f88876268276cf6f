package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	"github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/keystore"
)

// CryptoEngine implements Engine on top of a secure key-value store.
type CryptoEngine struct {
	store       keystore.Store
	deriver     cryptoService.KeyDeriver
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
	logger      *slog.Logger

	masterMu  sync.Mutex
	masterKey *cryptoDomain.MasterKey

	cache *keyCache
	group singleflight.Group
	alert atomic.Pointer[AlertHook]
}

// NewEngine creates the crypto engine. The master key is not touched until the
// first operation that needs it.
func NewEngine(
	store keystore.Store,
	deriver cryptoService.KeyDeriver,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) *CryptoEngine {
	return &CryptoEngine{
		store:       store,
		deriver:     deriver,
		aeadManager: aeadManager,
		algorithm:   algorithm,
		logger:      logger,
		cache:       newKeyCache(),
	}
}

// SetAlertHook installs the hook invoked on authentication failures. Passing nil
// removes it.
func (e *CryptoEngine) SetAlertHook(hook AlertHook) {
	if hook == nil {
		e.alert.Store(nil)
		return
	}
	e.alert.Store(&hook)
}

// getMasterKey returns a clone of the master key, loading it from the store or
// generating and persisting it on first use. The caller must Close the clone.
func (e *CryptoEngine) getMasterKey(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	e.masterMu.Lock()
	defer e.masterMu.Unlock()

	if e.masterKey != nil {
		return e.masterKey.Clone(), nil
	}

	raw, err := e.store.Retrieve(ctx, cryptoDomain.MasterKeyStorageKey)
	switch {
	case err == nil:
		mk, err := cryptoDomain.NewMasterKey(cryptoDomain.MasterKeyStorageKey, raw)
		cryptoDomain.Zero(raw)
		if err != nil {
			e.logger.Error("stored master key is corrupt", slog.Int("length", len(raw)))
			return nil, fmt.Errorf("%w: stored master key has invalid length", cryptoDomain.ErrKeyUnavailable)
		}
		e.masterKey = mk
	case errors.Is(err, keystore.ErrKeyNotFound):
		mk, err := e.generateMasterKey(ctx)
		if err != nil {
			return nil, err
		}
		e.masterKey = mk
		e.logger.Info("master key generated", slog.String("storage_key", mk.ID))
	default:
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnavailable, err)
	}

	return e.masterKey.Clone(), nil
}

func (e *CryptoEngine) generateMasterKey(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	raw := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(raw)

	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%w: failed to generate master key: %v", cryptoDomain.ErrKeyUnavailable, err)
	}
	if err := e.store.Save(ctx, cryptoDomain.MasterKeyStorageKey, raw); err != nil {
		return nil, fmt.Errorf("%w: failed to persist master key: %v", cryptoDomain.ErrKeyUnavailable, err)
	}
	return cryptoDomain.NewMasterKey(cryptoDomain.MasterKeyStorageKey, raw)
}

// subjectKey returns the cache entry for subjectID, deriving it on a miss.
// Concurrent misses for the same subject share one derivation. The shared work
// ignores cancellation, while each caller still stops waiting when its own
// context ends.
func (e *CryptoEngine) subjectKey(ctx context.Context, subjectID string) (*cachedKey, error) {
	if subjectID == "" {
		return nil, cryptoDomain.ErrInvalidSubject
	}
	if entry, ok := e.cache.get(subjectID); ok {
		return entry, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(subjectID, func() (any, error) {
		return e.derive(shared, subjectID)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrKeyUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cachedKey), nil
	}
}

// derive builds the cache entry for subjectID. An entry derived across a purge
// is handed back with its key already wiped, so only its cipher is usable.
func (e *CryptoEngine) derive(ctx context.Context, subjectID string) (*cachedKey, error) {
	if entry, ok := e.cache.get(subjectID); ok {
		return entry, nil
	}

	generation := e.cache.currentGeneration()

	mk, err := e.getMasterKey(ctx)
	if err != nil {
		return nil, err
	}
	defer mk.Close()

	key, err := e.deriver.DeriveKey(mk, subjectID)
	if err != nil {
		return nil, err
	}

	cipher, err := e.aeadManager.CreateCipher(key, e.algorithm)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, err
	}

	entry := &cachedKey{key: key, cipher: cipher}
	if !e.cache.put(subjectID, entry, generation) {
		entry.wipe()
	}
	return entry, nil
}

// DeriveKey returns a copy of the subject's derived key.
func (e *CryptoEngine) DeriveKey(ctx context.Context, subjectID string) ([]byte, error) {
	for {
		entry, err := e.subjectKey(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		if key, ok := entry.copyKey(); ok {
			return key, nil
		}
		// The entry was wiped by a concurrent clear; derive again.
	}
}

// Encrypt seals plaintext for subjectID.
func (e *CryptoEngine) Encrypt(ctx context.Context, plaintext []byte, subjectID string) (cryptoDomain.Envelope, error) {
	entry, err := e.subjectKey(ctx, subjectID)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	envelope, err := entry.cipher.Seal(plaintext)
	if err != nil {
		e.logger.Error("envelope encryption failed", slog.String("algorithm", string(e.algorithm)))
		return cryptoDomain.Envelope{}, err
	}
	return envelope, nil
}

// Decrypt opens envelope for subjectID.
func (e *CryptoEngine) Decrypt(ctx context.Context, envelope cryptoDomain.Envelope, subjectID string) ([]byte, error) {
	if err := envelope.Validate(); err != nil {
		return nil, err
	}

	entry, err := e.subjectKey(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	plaintext, err := entry.cipher.Open(envelope)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrAuthenticationFailed) {
			e.logger.Warn("envelope authentication failed")
			if hook := e.alert.Load(); hook != nil {
				(*hook)(ctx, subjectID)
			}
		}
		return nil, err
	}
	return plaintext, nil
}

// ClearCache zeroes and drops every derived key and the cached master key.
func (e *CryptoEngine) ClearCache() {
	e.cache.purge()

	e.masterMu.Lock()
	defer e.masterMu.Unlock()
	if e.masterKey != nil {
		e.masterKey.Close()
		e.masterKey = nil
	}
}

// ClearSubject zeroes and drops the derived key of subjectID.
func (e *CryptoEngine) ClearSubject(subjectID string) {
	e.cache.remove(subjectID)
}
