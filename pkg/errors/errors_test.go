package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New(ErrCodeNotFound, "drug not found")
	assert.Equal(t, "[COMMON_003] drug not found", e.Error())

	e = e.WithDetail("name=paracetamol")
	assert.Equal(t, "[COMMON_003] drug not found: name=paracetamol", e.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "query failed"))

	cause := stderrors.New("connection refused")
	e := Wrap(cause, ErrCodeDatabaseError, "query failed")
	assert.ErrorIs(t, e, cause)
	assert.True(t, IsCode(e, ErrCodeDatabaseError))
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := New(ErrCodeCatalogBatchNotFound, "batch missing")
	outer := fmt.Errorf("scoring: %w", inner)

	assert.True(t, IsCode(outer, ErrCodeCatalogBatchNotFound))
	assert.False(t, IsCode(outer, ErrCodeCatalogDrugNotFound))
	assert.True(t, IsNotFound(outer))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(New(ErrCodeComplaintInvalidSeverity, "bad severity")))
	assert.True(t, IsValidation(InvalidParam("price must be positive")))
	assert.False(t, IsValidation(Internal("boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeRiskUnknownStrategy, GetCode(New(ErrCodeRiskUnknownStrategy, "no such strategy")))
	assert.Equal(t, ErrCodeInternal, GetCode(stderrors.New("plain")))
}

func TestWithDetail_NilReceiver(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("ignored"))
}
