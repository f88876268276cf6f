package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConnectMongo_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MongoConfig
		wantErr string
	}{
		{name: "empty uri", cfg: MongoConfig{Database: "phiguard"}, wantErr: "mongo uri is empty"},
		{name: "empty database", cfg: MongoConfig{URI: "mongodb://localhost:27017"}, wantErr: "mongo database name is empty"},
		{
			name:    "malformed uri",
			cfg:     MongoConfig{URI: "not-a-mongo-uri", Database: "phiguard"},
			wantErr: "failed to connect to mongodb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, db, err := ConnectMongo(context.Background(), tt.cfg)
			assert.Nil(t, client)
			assert.Nil(t, db)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
