package abandons

import (
	"abandon-report/core/reconcile"
	"abandon-report/core/tabular"
)

// Canonical field names.
const (
	fieldCompensationDate = "compensation_date"
	fieldContactEmail     = "contact_email"
	fieldCaseNumber       = "case_number"
	fieldOperatorEmail    = "operator_email"
	fieldAmount           = "amount"
	fieldReason           = "reason"
	fieldReservationID    = "reservation_id"
	fieldClassification   = "classification"
	fieldStartLocalAt     = "start_local_at"
	fieldMode             = "mode"
	fieldFromAirport      = "from_airport"
	fieldToAirport        = "to_airport"
)

// MasterColumns locate the master fields. Only the reservation id is required.
var MasterColumns = []tabular.Column{
	{Field: fieldReservationID, Names: []string{"id_reserva"}, Contains: []string{"id_reserva"}, Required: true},
	{Field: fieldCompensationDate, Names: []string{"Fecha", "Datetime Compensación"}, Contains: []string{"fecha"}},
	{Field: fieldContactEmail, Names: []string{"Dirección de correo electrónico"}, Contains: []string{"direccion de correo"}},
	{Field: fieldCaseNumber, Names: []string{"Numero", "Número"}, Contains: []string{"numero"}},
	{Field: fieldOperatorEmail, Names: []string{"Correo registrado en Cabify para realizar la carga"}, Contains: []string{"correo registrado"}},
	{Field: fieldAmount, Names: []string{"Total Compensación", "Monto a compensar"}, Contains: []string{"total compensacion", "monto"}},
	{Field: fieldReason, Names: []string{"Motivo compensación"}, Contains: []string{"motivo"}},
	{Field: fieldClassification, Names: []string{"Clasificación", "Compensación Aeropuerto"}, Contains: []string{"clasificacion"}},
}

// ReservationColumns locate the journey log fields.
var ReservationColumns = []tabular.Column{
	{Field: fieldReservationID, Names: []string{"id_reservation_id"}, Contains: []string{"id_reserv"}, Required: true},
	{Field: fieldStartLocalAt, Names: []string{"tm_start_local_at"}, Contains: []string{"tm_start"}, Required: true},
}

// TransactionColumns locate the transaction extract fields. A file missing any
// of them is skipped.
var TransactionColumns = []tabular.Column{
	{Field: fieldReservationID, Names: []string{"Id Reserva"}, Contains: []string{"id reserva"}, Required: true},
	{Field: fieldMode, Names: []string{"Modo"}, Required: true},
	{Field: fieldFromAirport, Names: []string{"F.Desde Aerop"}, Contains: []string{"desde aerop"}, Required: true},
	{Field: fieldToAirport, Names: []string{"F.Hacia Aerop"}, Contains: []string{"hacia aerop"}, Required: true},
}

// PriorColumns locate the case number of a previously generated report.
var PriorColumns = []tabular.Column{
	{Field: fieldCaseNumber, Names: []string{"Numero", "Número"}, Contains: []string{"numero"}, Required: true},
}

// MasterRecords maps a master table onto records.
func MasterRecords(t *tabular.Table) ([]reconcile.MasterRecord, error) {
	s, err := tabular.Resolve(t, MasterColumns)
	if err != nil {
		return nil, err
	}

	records := make([]reconcile.MasterRecord, 0, t.Len())
	s.Each(func(_ int, row []string) {
		records = append(records, reconcile.MasterRecord{
			CompensationDate: s.Get(row, fieldCompensationDate),
			ContactEmail:     s.Get(row, fieldContactEmail),
			CaseNumber:       s.Get(row, fieldCaseNumber),
			OperatorEmail:    s.Get(row, fieldOperatorEmail),
			Amount:           s.Get(row, fieldAmount),
			Reason:           s.Get(row, fieldReason),
			ReservationID:    s.Get(row, fieldReservationID),
			Classification:   s.Get(row, fieldClassification),
		})
	})
	return records, nil
}

// ReservationRecords maps a journey log table onto records.
func ReservationRecords(t *tabular.Table) ([]reconcile.ReservationRecord, error) {
	s, err := tabular.Resolve(t, ReservationColumns)
	if err != nil {
		return nil, err
	}

	records := make([]reconcile.ReservationRecord, 0, t.Len())
	s.Each(func(_ int, row []string) {
		records = append(records, reconcile.ReservationRecord{
			ReservationID: s.Get(row, fieldReservationID),
			StartLocalAt:  s.Get(row, fieldStartLocalAt),
		})
	})
	return records, nil
}

// TransactionRecords maps one transaction extract onto records.
func TransactionRecords(t *tabular.Table) ([]reconcile.TransactionRecord, error) {
	s, err := tabular.Resolve(t, TransactionColumns)
	if err != nil {
		return nil, err
	}

	records := make([]reconcile.TransactionRecord, 0, t.Len())
	s.Each(func(_ int, row []string) {
		records = append(records, reconcile.TransactionRecord{
			ReservationID: s.Get(row, fieldReservationID),
			Mode:          s.Get(row, fieldMode),
			FromAirport:   s.Get(row, fieldFromAirport),
			ToAirport:     s.Get(row, fieldToAirport),
		})
	})
	return records, nil
}

// CaseNumbers reads the case numbers of a prior report.
func CaseNumbers(t *tabular.Table) ([]string, error) {
	s, err := tabular.Resolve(t, PriorColumns)
	if err != nil {
		return nil, err
	}

	numbers := make([]string, 0, t.Len())
	s.Each(func(_ int, row []string) {
		numbers = append(numbers, s.Get(row, fieldCaseNumber))
	})
	return numbers, nil
}
