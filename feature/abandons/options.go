package abandons

import (
	"abandon-report/core/config"
	"abandon-report/core/reconcile"
)

// OptionsFromConfig builds engine options from the report configuration.
func OptionsFromConfig(cfg config.ReportConfig) (reconcile.Options, error) {
	opts := reconcile.DefaultOptions()

	master, err := reconcile.ParsePolicy(cfg.MasterPolicy)
	if err != nil {
		return opts, err
	}
	lookup, err := reconcile.ParsePolicy(cfg.LookupPolicy)
	if err != nil {
		return opts, err
	}

	opts.MasterPolicy = master
	opts.LookupPolicy = lookup
	opts.FilterReasons = cfg.FilterReasons
	if reasons := cfg.ReasonList(); len(reasons) > 0 {
		opts.AllowedReasons = reasons
	}
	if cfg.ManualMarker != "" {
		opts.ManualMarker = cfg.ManualMarker
	}
	return opts, opts.Validate()
}
