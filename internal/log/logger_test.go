package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerComponents(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})

	l.WithComponent(ComponentLedger).Info("Movement recorded", FieldCategory, "Supermercado")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.NotContains(t, out, "component=app")
	assert.Contains(t, out, "category=Supermercado")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, ComponentLedger, l.WithComponent(ComponentLedger).Component())
}

func TestFields(t *testing.T) {
	f := NewFields().Component(ComponentBackup).Operation(OpRestore).Table("movements", 3).Err(errors.New("boom"), ErrorTypeValidation)
	assert.Equal(t, Fields{
		FieldComponent, ComponentBackup,
		FieldOperation, OpRestore,
		FieldTable, "movements", FieldRows, 3,
		FieldError, "boom", FieldErrorType, ErrorTypeValidation,
	}, f)
	assert.Len(t, NewFields().Err(nil, ErrorTypeInternal), 0)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentHTTP, Output: &buf})

	ctx := NewContext(context.Background(), l.With(FieldRequestID, "abc"))
	FromContext(ctx).Info("inside")

	assert.True(t, strings.Contains(buf.String(), "component=http"))
	assert.True(t, strings.Contains(buf.String(), "request_id=abc"))
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}
