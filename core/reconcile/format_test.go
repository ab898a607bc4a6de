package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatter(t *testing.T) {
	f := NewFormatter("")
	at := At(time.Date(2025, 3, 1, 8, 5, 9, 0, time.UTC), RuleReservation)

	tests := []struct {
		name     string
		res      Resolution
		wantDate string
		wantHour string
		wantFull string
	}{
		{"time", at, "01/03/2025", "8", "01/03/2025 08:05:09"},
		{"midnight", At(time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC), RuleFromAirport), "16/12/2025", "0", "16/12/2025 00:00:00"},
		{"evening", At(time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC), RuleToAirport), "02/01/2025", "23", "02/01/2025 23:00:00"},
		{"manual", Manual(RuleManualEntry), "Ingresar Manualmente", "", "Ingresar Manualmente"},
		{"absent", Absent(RuleNoTransaction), "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDate, f.Date(tt.res))
			assert.Equal(t, tt.wantHour, f.Hour(tt.res))
			assert.Equal(t, tt.wantFull, f.Full(tt.res))
		})
	}
}

func TestFormatter_CustomMarker(t *testing.T) {
	f := NewFormatter("REVISAR")
	assert.Equal(t, "REVISAR", f.Date(Manual(RuleManualEntry)))
	assert.Equal(t, "REVISAR", f.Full(Manual(RuleManualEntry)))
}

func TestFormatter_Row(t *testing.T) {
	rec := &JoinedRecord{Master: MasterRecord{
		CompensationDate: "2025-03-02",
		ContactEmail:     "p@example.com",
		CaseNumber:       "T1",
		OperatorEmail:    "op@example.com",
		Amount:           "15000",
		Reason:           "Usuario pierde el vuelo",
		ReservationID:    "55",
		Classification:   "Abandono",
	}}

	row := NewFormatter("").Row(rec, Manual(RuleManualEntry))

	assert.Equal(t, []string{
		"2025-03-02", "p@example.com", "T1", "op@example.com", "15000",
		"Usuario pierde el vuelo", "55", "Abandono",
		DefaultManualMarker, DefaultManualMarker, "",
	}, row.Values())
	assert.Len(t, Header(), len(row.Values()))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "time", ResolvedTime.String())
	assert.Equal(t, "manual", ResolvedManual.String())
	assert.Equal(t, "absent", ResolvedAbsent.String())
}
