package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Compensación":                 "compensacion",
		"  Dirección   de correo  ":    "direccion de correo",
		"F.Desde Aerop":                "f.desde aerop",
		"Motivo compensación":          "motivo compensacion",
		"Correo registrado en Cabify ": "correo registrado en cabify",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestResolve(t *testing.T) {
	table := &Table{
		Name:   "master.csv",
		Header: []string{"Numero", "ID_Reserva (sistema)", "Motivo Compensacion"},
		Rows:   [][]string{{"1", "R1", "x"}},
	}

	schema, err := Resolve(table, []Column{
		{Field: "case", Names: []string{"Numero"}, Required: true},
		{Field: "reservation", Names: []string{"id_reserva"}, Contains: []string{"id_reserva"}, Required: true},
		{Field: "reason", Names: []string{"Motivo compensación"}},
		{Field: "date", Names: []string{"Fecha"}},
	})
	require.NoError(t, err)

	row := table.Rows[0]
	assert.Equal(t, "1", schema.Get(row, "case"))
	assert.Equal(t, "R1", schema.Get(row, "reservation"))
	assert.Equal(t, "x", schema.Get(row, "reason"))
	assert.Equal(t, "", schema.Get(row, "date"))
	assert.Equal(t, "", schema.Header("date"))
	assert.Equal(t, "ID_Reserva (sistema)", schema.Header("reservation"))
}

func TestResolve_ExactBeatsSubstring(t *testing.T) {
	table := &Table{Header: []string{"id_reserva_old", "id_reserva"}}

	schema, err := Resolve(table, []Column{
		{Field: "legacy", Contains: []string{"id_reserva"}},
		{Field: "reservation", Names: []string{"id_reserva"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "id_reserva", schema.Header("reservation"))
	assert.Equal(t, "id_reserva_old", schema.Header("legacy"))
}

func TestResolve_MissingRequired(t *testing.T) {
	table := &Table{Name: "reservations.csv", Header: []string{"foo"}}

	_, err := Resolve(table, []Column{{Field: "tm_start_local_at", Names: []string{"tm_start_local_at"}, Required: true}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "tm_start_local_at", loadErr.Column)
	assert.Equal(t, "reservations.csv", loadErr.Source)
}

func TestSchemaEach(t *testing.T) {
	table := &Table{Header: []string{"a"}, Rows: [][]string{{"1"}, {"2"}}}
	schema, err := Resolve(table, []Column{{Field: "a", Names: []string{"a"}}})
	require.NoError(t, err)

	var seen []int
	schema.Each(func(n int, row []string) { seen = append(seen, n) })
	assert.Equal(t, []int{1, 2}, seen)
}
