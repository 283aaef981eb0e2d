package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultBuildWorkers, cfg.Scoring.BuildWorkers)
	assert.Equal(t, DefaultModelName, cfg.Model.Name)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultRequestTopic, cfg.Kafka.RequestTopic)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.Bucket)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 9999, Mode: "test"},
		Scoring: ScoringConfig{BuildWorkers: 16},
		Model:   ModelConfig{Name: "chembl"},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, 16, cfg.Scoring.BuildWorkers)
	assert.Equal(t, "chembl", cfg.Model.Name)
}

//Personal.AI order the ending
