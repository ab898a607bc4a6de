package abandons_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const masterCSV = `Fecha,Dirección de correo electrónico,Numero,Correo registrado en Cabify para realizar la carga,Total Compensación,Motivo compensación,id_reserva,Clasificación
2025-03-02,a@example.com,T1,op@example.com,10000,Usuario pierde el vuelo,55,Abandono
2025-03-02,b@example.com,T2,op@example.com,5000,Usuario pierde el vuelo,56.0,Abandono
2025-03-02,c@example.com,T3,op@example.com,2000,Otro motivo,57,Abandono
2025-03-02,d@example.com,T4,op@example.com,2000,Otro motivo,http://bad,Abandono
`

const reservationsCSV = `id_reservation_id;tm_start_local_at
55.0;01-03-2025 8:00:00
`

const transactionsCSV = `Id Reserva,Modo,F.Desde Aerop,F.Hacia Aerop
56,Round,"16-12-2025, 12:00:00 a. m.",
`

const brokenTransactionsCSV = `foo,bar
1,2
`

const priorCSV = `Numero,Fecha
T1,01/03/2025
`

// inputs holds the paths of a written fixture set.
type inputs struct {
	dir          string
	master       string
	reservations string
	transactions string
	prior        string
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeInputs(t *testing.T) inputs {
	t.Helper()
	dir := t.TempDir()
	in := inputs{
		dir:          dir,
		master:       writeFile(t, filepath.Join(dir, "master.csv"), masterCSV),
		reservations: writeFile(t, filepath.Join(dir, "reservas.csv"), reservationsCSV),
		transactions: filepath.Join(dir, "transacciones"),
		prior:        writeFile(t, filepath.Join(dir, "prior.csv"), priorCSV),
	}
	writeFile(t, filepath.Join(in.transactions, "tx1.csv"), transactionsCSV)
	writeFile(t, filepath.Join(in.transactions, "broken.csv"), brokenTransactionsCSV)
	writeFile(t, filepath.Join(in.transactions, "notes.txt"), "ignored")
	return in
}
