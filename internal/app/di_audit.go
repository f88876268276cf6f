package app

import (
	"context"
	"fmt"

	auditRepository "github.com/allisson/phiguard/internal/audit/repository"
	auditService "github.com/allisson/phiguard/internal/audit/service"
	auditUsecase "github.com/allisson/phiguard/internal/audit/usecase"
)

// RecordRepository returns the audit record store selected by DB_DRIVER.
func (c *Container) RecordRepository() (auditUsecase.RecordRepository, error) {
	var err error
	c.recordRepoInit.Do(func() {
		c.recordRepo, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepo"]; exists {
		return nil, storedErr
	}
	return c.recordRepo, nil
}

// Signer returns the audit record signer.
func (c *Container) Signer() auditService.Signer {
	c.signerInit.Do(func() {
		c.signer = auditService.NewSigner()
	})
	return c.signer
}

// AuditTrail returns the audit trail, wrapped with metrics when enabled.
// Building it installs the security alerter on the crypto engine.
func (c *Container) AuditTrail() (auditUsecase.AuditTrail, error) {
	var err error
	c.auditTrailInit.Do(func() {
		c.auditTrail, err = c.initAuditTrail()
		if err != nil {
			c.initErrors["auditTrail"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditTrail"]; exists {
		return nil, storedErr
	}
	return c.auditTrail, nil
}

// SecurityAlerter returns the alerter installed on the crypto engine.
func (c *Container) SecurityAlerter() (*auditUsecase.SecurityAlerter, error) {
	if _, err := c.AuditTrail(); err != nil {
		return nil, err
	}
	return c.securityAlerter, nil
}

// initRecordRepository creates the record store for the configured driver.
func (c *Container) initRecordRepository() (auditUsecase.RecordRepository, error) {
	switch c.config.DBDriver {
	case "memory":
		return auditRepository.NewMemoryRecordRepository(), nil
	case "postgres", "mysql":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for record repository: %w", err)
		}
		if c.config.DBDriver == "mysql" {
			return auditRepository.NewMySQLRecordRepository(db), nil
		}
		return auditRepository.NewPostgreSQLRecordRepository(db), nil
	case "mongodb":
		db, err := c.MongoDatabase()
		if err != nil {
			return nil, fmt.Errorf("failed to get mongodb for record repository: %w", err)
		}
		repo := auditRepository.NewMongoDBRecordRepository(db)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare mongodb record repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditTrail creates the audit trail and wires the security alerter into
// the crypto engine.
func (c *Container) initAuditTrail() (auditUsecase.AuditTrail, error) {
	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto engine for audit trail: %w", err)
	}

	repo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for audit trail: %w", err)
	}

	core, err := c.CryptoEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto engine for security alerter: %w", err)
	}

	var trail auditUsecase.AuditTrail = auditUsecase.NewAuditTrail(
		engine,
		repo,
		c.Signer(),
		c.config.DeviceID,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for audit trail: %w", err)
		}
		trail = auditUsecase.NewAuditTrailWithMetrics(trail, businessMetrics)
	}

	c.securityAlerter = auditUsecase.NewSecurityAlerter(trail, c.Logger())
	core.SetAlertHook(c.securityAlerter.Alert)

	return trail, nil
}
