package reconcile

import "strconv"

// DefaultManualMarker is written in place of a time that needs manual review.
const DefaultManualMarker = "Ingresar Manualmente"

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04:05"
)

// Report column names, in output order.
const (
	ColumnCompensationDatetime = "Datetime Compensación"
	ColumnContactEmail         = "Dirección de correo electrónico"
	ColumnCaseNumber           = "Numero"
	ColumnOperatorEmail        = "Correo registrado en Cabify para realizar la carga"
	ColumnAmount               = "Monto a compensar"
	ColumnReason               = "Motivo compensación"
	ColumnReservationID        = "id_reserva"
	ColumnClassification       = "Compensación Aeropuerto"
	ColumnStartLocalAt         = "Tm_start_local_at"
	ColumnDate                 = "Fecha"
	ColumnHour                 = "Hora"
)

// Header returns the report columns in output order.
func Header() []string {
	return []string{
		ColumnCompensationDatetime,
		ColumnContactEmail,
		ColumnCaseNumber,
		ColumnOperatorEmail,
		ColumnAmount,
		ColumnReason,
		ColumnReservationID,
		ColumnClassification,
		ColumnStartLocalAt,
		ColumnDate,
		ColumnHour,
	}
}

// Row is one line of the report.
type Row struct {
	CompensationDatetime string `json:"compensation_datetime"`
	ContactEmail         string `json:"contact_email"`
	CaseNumber           string `json:"case_number"`
	OperatorEmail        string `json:"operator_email"`
	Amount               string `json:"amount"`
	Reason               string `json:"reason"`
	ReservationID        string `json:"reservation_id"`
	Classification       string `json:"classification"`
	StartLocalAt         string `json:"start_local_at"`
	Date                 string `json:"date"`
	Hour                 string `json:"hour"`

	// Resolution is the outcome behind the three derived fields.
	Resolution Resolution `json:"-"`
}

// Values returns the row cells in Header order.
func (r Row) Values() []string {
	return []string{
		r.CompensationDatetime,
		r.ContactEmail,
		r.CaseNumber,
		r.OperatorEmail,
		r.Amount,
		r.Reason,
		r.ReservationID,
		r.Classification,
		r.StartLocalAt,
		r.Date,
		r.Hour,
	}
}

// Values returns the cells of every row in Header order.
func Values(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

// Formatter derives display fields from resolutions.
type Formatter struct {
	// ManualMarker replaces date fields of manual resolutions.
	ManualMarker string
}

// NewFormatter returns a Formatter using marker, or DefaultManualMarker when empty.
func NewFormatter(marker string) Formatter {
	if marker == "" {
		marker = DefaultManualMarker
	}
	return Formatter{ManualMarker: marker}
}

// Date returns the day/month/year of res, the marker or "".
func (f Formatter) Date(res Resolution) string {
	switch res.Kind {
	case ResolvedTime:
		return res.Time.Format(dateLayout)
	case ResolvedManual:
		return f.ManualMarker
	default:
		return ""
	}
}

// Hour returns the hour of day of res without padding, or "".
func (f Formatter) Hour(res Resolution) string {
	if res.Kind != ResolvedTime {
		return ""
	}
	return strconv.Itoa(res.Time.Hour())
}

// Full returns the day/month/year hour:minute:second of res, the marker or "".
func (f Formatter) Full(res Resolution) string {
	switch res.Kind {
	case ResolvedTime:
		return res.Time.Format(dateTimeLayout)
	case ResolvedManual:
		return f.ManualMarker
	default:
		return ""
	}
}

// Row projects a joined record and its resolution into a report row.
func (f Formatter) Row(rec *JoinedRecord, res Resolution) Row {
	m := rec.Master
	return Row{
		CompensationDatetime: m.CompensationDate,
		ContactEmail:         m.ContactEmail,
		CaseNumber:           m.CaseNumber,
		OperatorEmail:        m.OperatorEmail,
		Amount:               m.Amount,
		Reason:               m.Reason,
		ReservationID:        m.ReservationID,
		Classification:       m.Classification,
		StartLocalAt:         f.Full(res),
		Date:                 f.Date(res),
		Hour:                 f.Hour(res),
		Resolution:           res,
	}
}
