package abandons_test

import (
	"testing"

	"abandon-report/core/config"
	"abandon-report/core/reconcile"
	"abandon-report/feature/abandons"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromConfig(t *testing.T) {
	opts, err := abandons.OptionsFromConfig(config.ReportConfig{
		MasterPolicy:   "Lenient",
		LookupPolicy:   "strict",
		FilterReasons:  true,
		AllowedReasons: "motivo a | motivo b",
		ManualMarker:   "REVISAR",
	})
	require.NoError(t, err)

	assert.Equal(t, reconcile.PolicyLenient, opts.MasterPolicy)
	assert.Equal(t, reconcile.PolicyStrict, opts.LookupPolicy)
	assert.True(t, opts.FilterReasons)
	assert.Equal(t, []string{"motivo a", "motivo b"}, opts.AllowedReasons)
	assert.Equal(t, "REVISAR", opts.ManualMarker)
}

func TestOptionsFromConfig_Defaults(t *testing.T) {
	opts, err := abandons.OptionsFromConfig(config.ReportConfig{MasterPolicy: "strict", LookupPolicy: "lenient"})
	require.NoError(t, err)
	assert.Equal(t, reconcile.DefaultAllowedReasons, opts.AllowedReasons)
	assert.Equal(t, reconcile.DefaultManualMarker, opts.ManualMarker)
}

func TestOptionsFromConfig_InvalidPolicy(t *testing.T) {
	_, err := abandons.OptionsFromConfig(config.ReportConfig{MasterPolicy: "fuzzy", LookupPolicy: "lenient"})
	assert.Error(t, err)
}
