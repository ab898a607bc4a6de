package abandons_test

import (
	"testing"

	"abandon-report/core/tabular"
	"abandon-report/feature/abandons"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffReports(t *testing.T) {
	current := &tabular.Table{
		Name:   "current.csv",
		Header: []string{"Fecha", "Numero", "Hora"},
		Rows: [][]string{
			{"01-03-2025", "T1", "8"},
			{"02-03-2025", "T2", "9"},
			{"03-03-2025", "", "10"},
		},
	}
	prior := &tabular.Table{
		Name:   "prior.csv",
		Header: []string{"Número"},
		Rows:   [][]string{{" T1 "}},
	}

	out, err := abandons.DiffReports(current, prior)
	require.NoError(t, err)
	assert.Equal(t, current.Header, out.Header)
	assert.Equal(t, [][]string{{"02-03-2025", "T2", "9"}, {"03-03-2025", "", "10"}}, out.Rows)
}

func TestDiffReports_MissingColumn(t *testing.T) {
	current := &tabular.Table{Name: "current.csv", Header: []string{"Fecha"}}
	prior := &tabular.Table{Name: "prior.csv", Header: []string{"Numero"}}

	_, err := abandons.DiffReports(current, prior)
	assert.ErrorIs(t, err, tabular.ErrMissingColumn)
}
