package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghuser/catalog/pkg/errhttp"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

func TestBindItemInput_JSONAcceptsStringsAndNumbers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"name":"Drill","price":12.50,"category_id":"3","serial_number_name":null}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	in, err := bindItemInput(req)
	require.NoError(t, err)
	require.Equal(t, appsvcs.ItemInput{Name: "Drill", Price: "12.50", CategoryID: "3"}, in)
}

func TestBindItemInput_RejectsObjects(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"price":{"amount":1}}`))
	req.Header.Set("Content-Type", "application/json")

	_, err := bindItemInput(req)
	require.ErrorIs(t, err, errhttp.ErrMalformedBody)
}

func TestBindItemInput_BodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 16)

	_, err := bindItemInput(req)
	require.Equal(t, http.StatusRequestEntityTooLarge, errhttp.Status(err))
}

func TestItemID(t *testing.T) {
	require.NotPanics(t, func() {
		_, err := itemID(httptest.NewRequest(http.MethodGet, "/", nil))
		require.Error(t, err)
	})
}
