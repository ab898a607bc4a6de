package checks

import (
	"context"

	"abandon-report/core/storage"
	"abandon-report/feature/abandons"
)

// InputReport describes the extracts a storage-backed run would read.
type InputReport struct {
	Master       string   `json:"master"`
	Reservations string   `json:"reservations"`
	Transactions []string `json:"transactions"`
	Missing      []string `json:"missing"`
	Ready        bool     `json:"ready"`
}

// CheckInputs resolves the latest master and reservations extracts and every
// transaction extract. A run is ready when master and reservations are present;
// transactions are optional.
func CheckInputs(ctx context.Context, client storage.Client, bucket string) (*InputReport, error) {
	report := &InputReport{Missing: []string{}}

	master, err := storage.ListKeys(ctx, client, bucket, abandons.PrefixMaster, ".csv", ".xlsx")
	if err != nil {
		return nil, err
	}
	if len(master) > 0 {
		report.Master = master[len(master)-1]
	} else {
		report.Missing = append(report.Missing, abandons.PrefixMaster)
	}

	reservations, err := storage.ListKeys(ctx, client, bucket, abandons.PrefixReservations, ".csv", ".xlsx")
	if err != nil {
		return nil, err
	}
	if len(reservations) > 0 {
		report.Reservations = reservations[len(reservations)-1]
	} else {
		report.Missing = append(report.Missing, abandons.PrefixReservations)
	}

	report.Transactions, err = storage.ListKeys(ctx, client, bucket, abandons.PrefixTransactions, ".csv")
	if err != nil {
		return nil, err
	}
	if report.Transactions == nil {
		report.Transactions = []string{}
	}

	report.Ready = report.Master != "" && report.Reservations != ""
	return report, nil
}
