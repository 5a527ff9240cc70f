package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
)

type addRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_id":3,"quantity":0}`))
	var body addRequest
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "quantity must be at least 1", pkgerrors.ClientMessage(err))
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_id":3,"quantity":1,"price":"0.01"}`))
	var body addRequest
	err := DecodeJSONBody(req, &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ", "order_id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, raw := range []string{"", "abc", "-1", "0"} {
		_, err := ParseID(raw, "order_id")
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), raw)
	}
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "mañan", SanitizeString("  mañana  ", 5))
	assert.Equal(t, "ok", SanitizeString(" ok ", 0))
}
