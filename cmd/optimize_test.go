package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ppc-cli/internal/config"
	"github.com/sells-group/ppc-cli/internal/model"
)

func resetFlags(t *testing.T) {
	t.Helper()
	cfg = &config.Config{}
	optClientName = ""
	optTargetACOS = 0
	optMinCR = 0
	optMarketLeader = false
	optLargeInventory = false
	t.Cleanup(func() { cfg = nil })
}

func TestClientConfigFromFlags(t *testing.T) {
	resetFlags(t)
	cfg.Client = model.ClientConfig{Name: "configured", TargetACOS: 0.25}

	// No flags set: configured values pass through.
	client := clientConfigFromFlags()
	assert.Equal(t, "configured", client.Name)
	assert.InDelta(t, 0.25, client.TargetACOS, 1e-9)

	// Flags override the config file.
	optClientName = "acme"
	optTargetACOS = 0.15
	optMinCR = 0.08
	optMarketLeader = true
	client = clientConfigFromFlags()
	assert.Equal(t, "acme", client.Name)
	assert.InDelta(t, 0.15, client.TargetACOS, 1e-9)
	assert.InDelta(t, 0.08, client.MinConversionRate, 1e-9)
	assert.True(t, client.IsMarketLeader)
}

func TestEncodeResult(t *testing.T) {
	result := &model.OptimizationResult{
		Summary: model.Summary{TotalKeywords: 3, KeywordsToPause: 1},
	}

	data, err := encodeResult(result, "json")
	require.NoError(t, err)
	var decodedJSON map[string]any
	require.NoError(t, json.Unmarshal(data, &decodedJSON))

	data, err = encodeResult(result, "yaml")
	require.NoError(t, err)
	var decodedYAML map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decodedYAML))

	_, err = encodeResult(result, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
