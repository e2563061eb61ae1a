package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

const (
	movementsFile = "movimientos_2026.csv"
	budgetsFile   = "presupuesto_2026.csv"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir, map[string]string{
		storage.Movements: movementsFile,
		storage.Budgets:   budgetsFile,
	})
	require.NoError(t, err)

	ledger := services.NewLedgerService(store, services.WithClock(func() time.Time { return today }))
	srv, err := NewServer(":0", ledger, services.NewBackupService(ledger), Options{
		Logger:         applog.New(applog.Config{Output: io.Discard, Component: applog.ComponentApp}),
		MaxUploadBytes: 1 << 10,
	})
	require.NoError(t, err)
	return srv, dir
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	return do(srv, httptest.NewRequest(http.MethodGet, path, nil))
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(srv, req)
}

func addMovement(t *testing.T, srv *Server, date, typ, category, amount string) {
	t.Helper()
	rr := postForm(srv, "/movements", url.Values{
		"date": {date}, "type": {typ}, "category": {category}, "amount": {amount},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Finanzas Personales")
	assert.Contains(t, rr.Body.String(), "/ui/dashboard?month=2026-01")
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := get(srv, path)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
	assert.Contains(t, get(srv, "/metrics").Body.String(), "http_requests_total")
}

func TestUnknownPathAndWrongMethod(t *testing.T) {
	srv, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(srv, "/nope").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(srv, "/movements").Code)
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/static/app.css", "/static/app.js"} {
		rr := get(srv, path)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
		assert.NotEmpty(t, rr.Body.String())
	}
}

func TestPartialsRenderOnEmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/ui/entry-form", `value="2026-01-20"`},
		{"/ui/budget-form", "Límite mensual"},
		{"/ui/dashboard", "Aún no hay movimientos"},
		{"/ui/history", "Aún no hay movimientos."},
		{"/ui/budgets", "Sin presupuestos definidos."},
		{"/ui/backup", "Recuperar historial"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(srv, tt.path)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestCreateMovement(t *testing.T) {
	srv, dir := newTestServer(t)

	rr := postForm(srv, "/movements", url.Values{
		"date": {"2026-01-05"}, "type": {"Gasto"}, "category": {"Supermercado"}, "amount": {"500"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "¡Gasto registrado!")
	trigger := rr.Header().Get("HX-Trigger")
	assert.Contains(t, trigger, EventLedgerChanged)
	assert.Contains(t, trigger, EventFormReset)
	assert.Contains(t, trigger, EventNotification)

	b, err := os.ReadFile(filepath.Join(dir, movementsFile))
	require.NoError(t, err)
	assert.Equal(t, "Fecha,Tipo,Categoria,Concepto,Monto\n2026-01-05,Gasto,Supermercado,,500\n", string(b))
}

func TestCreateMovementKeepsNoteAsSubmitted(t *testing.T) {
	srv, dir := newTestServer(t)

	note := "  " + strings.Repeat("a", 201) + " "
	rr := postForm(srv, "/movements", url.Values{
		"date": {"2026-01-05"}, "type": {"Gasto"}, "category": {"Supermercado"},
		"note": {note}, "amount": {"500"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	b, err := os.ReadFile(filepath.Join(dir, movementsFile))
	require.NoError(t, err)
	assert.Equal(t, "Fecha,Tipo,Categoria,Concepto,Monto\n2026-01-05,Gasto,Supermercado,\""+note+"\",500\n", string(b))

	body := get(srv, "/ui/history").Body.String()
	assert.Contains(t, body, note)
}

func TestCreateMovementRejectsInvalidAmount(t *testing.T) {
	srv, dir := newTestServer(t)

	for _, amount := range []string{"0", "-10", "abc", ""} {
		rr := postForm(srv, "/movements", url.Values{
			"date": {"2026-01-05"}, "type": {"Gasto"}, "category": {"Supermercado"}, "amount": {amount},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, amount)
		assert.Contains(t, rr.Body.String(), "Monto inválido")
		assert.Contains(t, rr.Header().Get("HX-Trigger"), EventFormReset)
		assert.NotContains(t, rr.Header().Get("HX-Trigger"), EventLedgerChanged)
	}

	_, err := os.Stat(filepath.Join(dir, movementsFile))
	assert.True(t, os.IsNotExist(err), "rejected movements must not touch the store")
}

func TestDashboardMonthTotals(t *testing.T) {
	srv, _ := newTestServer(t)
	addMovement(t, srv, "2026-01-05", "Gasto", "Supermercado", "500")
	addMovement(t, srv, "2026-01-10", "Ingreso", "Nómina (UNAM)", "20000")
	addMovement(t, srv, "2026-02-01", "Gasto", "Renta", "9000")

	rr := get(srv, "/ui/dashboard?month=2026-01")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Enero 2026")
	assert.Contains(t, body, "$20,000.00")
	assert.Contains(t, body, "$500.00")
	assert.Contains(t, body, "$19,500.00")
	assert.NotContains(t, body, "$9,000.00")
	assert.Contains(t, body, "Supermercado")
	assert.Contains(t, body, "month=2025-12")
	assert.Contains(t, body, "month=2026-02")

	rr = get(srv, "/ui/dashboard?month=2025-12")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Sin gastos este mes.")
}

func TestBudgetSemaforo(t *testing.T) {
	srv, dir := newTestServer(t)
	addMovement(t, srv, "2026-01-05", "Gasto", "Supermercado", "500")

	rr := postForm(srv, "/budgets", url.Values{"category": {"Supermercado"}, "limit": {"400"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Meta actualizada")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), EventLedgerChanged)

	rr = postForm(srv, "/budgets", url.Values{"category": {"Supermercado"}, "limit": {"-5"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	b, err := os.ReadFile(filepath.Join(dir, budgetsFile))
	require.NoError(t, err)
	assert.Equal(t, "Categoria,Limite_Mensual\nSupermercado,400\n", string(b))

	body := get(srv, "/ui/dashboard?month=2026-01").Body.String()
	assert.Contains(t, body, "Excedido por $100")
	assert.Contains(t, body, `class="exceeded"`)
	assert.Contains(t, body, `value="1.000"`)

	assert.Contains(t, get(srv, "/ui/budgets").Body.String(), "Supermercado")
}

func TestHistoryAndDeleteLast(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postForm(srv, "/movements/delete-last", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No hay registros para borrar")
	assert.NotContains(t, rr.Header().Get("HX-Trigger"), EventLedgerChanged)

	addMovement(t, srv, "2026-01-10", "Gasto", "Renta", "9000")
	addMovement(t, srv, "2026-01-02", "Gasto", "Café", "45")

	body := get(srv, "/ui/history").Body.String()
	require.Less(t, strings.Index(body, "10/01/2026"), strings.Index(body, "02/01/2026"))

	// file order, not date order
	rr = postForm(srv, "/movements/delete-last", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Eliminado")

	body = get(srv, "/ui/history").Body.String()
	assert.Contains(t, body, "Renta")
	assert.NotContains(t, body, "Café")
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(srv, "/backup/movements.csv").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/backup/budgets.csv").Code)

	addMovement(t, srv, "2026-01-05", "Gasto", "Supermercado", "500")
	rr := get(srv, "/backup/movements.csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=finanzas_respaldo_2026-01-20.csv", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "Fecha,Tipo,Categoria,Concepto,Monto\n2026-01-05,Gasto,Supermercado,,500\n", rr.Body.String())

	assert.Contains(t, get(srv, "/ui/backup").Body.String(), "/backup/movements.csv")
}

func TestRestoreMovements(t *testing.T) {
	srv, dir := newTestServer(t)

	backup := "Fecha,Tipo,Categoria,Concepto,Monto\n2026-01-05,Gasto,Supermercado,,500\n"
	rr := do(srv, multipartRequest(t, "/backup/movements", "file", "respaldo.csv", backup))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Historial recuperado")
	assert.Contains(t, rr.Header().Get("HX-Trigger"), EventLedgerChanged)

	b, err := os.ReadFile(filepath.Join(dir, movementsFile))
	require.NoError(t, err)
	assert.Equal(t, backup, string(b))
}

func TestRestoreMovementsRejectsWrongFormat(t *testing.T) {
	srv, dir := newTestServer(t)

	rr := do(srv, multipartRequest(t, "/backup/movements", "file", "x.csv", "Nombre,Valor\na,1\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "El archivo no tiene el formato correcto.")

	rr = do(srv, multipartRequest(t, "/backup/movements", "", "", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(srv, multipartRequest(t, "/backup/movements", "file", "big.csv", strings.Repeat("x", 4<<10)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	_, err := os.Stat(filepath.Join(dir, movementsFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRestoreBudgets(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(srv, multipartRequest(t, "/backup/budgets", "file", "p.csv", "Categoria,Limite_Mensual\nRenta,9000\n"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Presupuestos recuperados")

	assert.Contains(t, get(srv, "/ui/budgets").Body.String(), "Renta")
	assert.Contains(t, get(srv, "/ui/entry-form").Body.String(), "Renta")
}

func TestRequestMetricsCount(t *testing.T) {
	srv, _ := newTestServer(t)
	get(srv, "/healthz")
	get(srv, "/nope")

	m := srv.Metrics()
	assert.Equal(t, int64(2), m.TotalRequests)
	assert.Equal(t, int64(1), m.ClientErrors)
}
