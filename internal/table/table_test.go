package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKeepsColumnsAndPadsShortRows(t *testing.T) {
	in := "Fecha,Tipo,Categoria,Concepto,Monto,Extra\n" +
		"2026-01-05,Gasto,Supermercado,,500,x\n" +
		"2026-01-10,Ingreso,Nómina (UNAM)\n"

	tb, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Fecha", "Tipo", "Categoria", "Concepto", "Monto", "Extra"}, tb.Columns)
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, "x", tb.Get(0, "Extra"))
	assert.Equal(t, "", tb.Get(1, "Monto"))
	assert.Len(t, tb.Rows[1], 6)
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n"},
		{"duplicate header", "a,b,a\n1,2,3\n"},
		{"row longer than header", "a,b\n1,2,3\n"},
		{"bad quoting", "a,b\n\"1,2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestReadStripsBOMAndSpaces(t *testing.T) {
	tb, err := Read(strings.NewReader("\ufeffCategoria , Limite_Mensual\nSupermercado,1000\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Categoria", "Limite_Mensual"}, tb.Columns)
}

func TestWriteReadRoundTrip(t *testing.T) {
	tb := New("Fecha", "Concepto", "Monto")
	tb.Append(map[string]string{"Fecha": "2026-01-05", "Concepto": "pan, leche \"bio\"", "Monto": "12.5"})
	tb.Append(map[string]string{"Fecha": "2026-01-06", "Monto": "3"})

	b, err := tb.Encode()
	require.NoError(t, err)

	back, err := Read(strings.NewReader(string(b)))
	require.NoError(t, err)
	assert.Equal(t, tb, back)
}

func TestAppendAddsMissingColumns(t *testing.T) {
	tb := New("A", "B")
	tb.Append(map[string]string{"A": "1", "B": "2"})
	tb.Append(map[string]string{"A": "3", "C": "4", "D": "5"}, "A", "B", "C", "D")

	assert.Equal(t, []string{"A", "B", "C", "D"}, tb.Columns)
	assert.Equal(t, []string{"1", "2", "", ""}, tb.Rows[0])
	assert.Equal(t, []string{"3", "", "4", "5"}, tb.Rows[1])
}

func TestSetAndMissing(t *testing.T) {
	tb := New("Categoria")
	tb.Append(map[string]string{"Categoria": "Psicóloga"})
	tb.Set(0, "Limite_Mensual", "800")

	assert.Equal(t, "800", tb.Get(0, "Limite_Mensual"))
	assert.Equal(t, []string{"Monto"}, tb.Missing("Categoria", "Monto"))
	assert.Empty(t, tb.Missing("Categoria", "Limite_Mensual"))
}

func TestDropLastRemovesFileOrderTail(t *testing.T) {
	tb := New("Fecha")
	for _, d := range []string{"2026-03-01", "2026-01-01", "2026-02-01"} {
		tb.Append(map[string]string{"Fecha": d})
	}

	require.True(t, tb.DropLast())
	assert.Equal(t, [][]string{{"2026-03-01"}, {"2026-01-01"}}, tb.Rows)

	empty := New("Fecha")
	assert.False(t, empty.DropLast())
}

func TestCloneIsDeep(t *testing.T) {
	tb := New("A")
	tb.Append(map[string]string{"A": "1"})
	c := tb.Clone()
	c.Rows[0][0] = "changed"
	assert.Equal(t, "1", tb.Rows[0][0])
}
