package config

import "strings"

// ReportConfig holds the defaults of a report run. Command-line flags override them.
type ReportConfig struct {
	// MasterPath is the compensation master list (CSV or XLSX).
	MasterPath string `mapstructure:"master_path" default:"CL_Aeropuerto_Master_Compensaciones.xlsx"`
	// ReservationsPath is the journey log export.
	ReservationsPath string `mapstructure:"reservations_path" default:"Detalle Reservas_Full Data.csv"`
	// TransactionsDir is the folder scanned for transaction CSV extracts.
	TransactionsDir string `mapstructure:"transactions_dir" default:"transacciones"`
	// OutputPath is where the consolidated report is written.
	OutputPath string `mapstructure:"output_path" default:"Reporte_Detalle_Pasajeros_Abandonos.csv"`
	// MasterPolicy is the identifier policy applied to the master table (strict, lenient).
	MasterPolicy string `mapstructure:"master_policy" default:"strict"`
	// LookupPolicy is the identifier policy applied to reservations and transactions.
	LookupPolicy string `mapstructure:"lookup_policy" default:"lenient"`
	// FilterReasons keeps only rows whose reason is in AllowedReasons.
	FilterReasons bool `mapstructure:"filter_reasons" default:"false"`
	// AllowedReasons is a "|" separated allow-list of compensation reasons.
	AllowedReasons string `mapstructure:"allowed_reasons" default:"usuario pierde el vuelo|reserva no encuentra conductor o no llega el conductor"`
	// ManualMarker is the text written when a timestamp needs manual entry.
	ManualMarker string `mapstructure:"manual_marker" default:"Ingresar Manualmente"`
	// CacheTTLSeconds keeps parsed reservation extracts in memory between API runs.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
}

// ReasonList splits AllowedReasons into its entries, dropping blanks.
func (c ReportConfig) ReasonList() []string {
	var reasons []string
	for _, r := range strings.Split(c.AllowedReasons, "|") {
		if r = strings.TrimSpace(r); r != "" {
			reasons = append(reasons, r)
		}
	}
	return reasons
}
