package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// textValue accepts a JSON string or number and keeps its literal text, so
// {"price": 12.5} and {"price": "12.5"} bind the same way.
type textValue string

func (v *textValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = textValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("want a string or a number, got %s", b)
		}
		*v = textValue(n)
	}
	return nil
}

// itemPayload lists the only body fields an item write may set. Anything
// else in the body, such as id or version, is ignored.
type itemPayload struct {
	Name             textValue `json:"name"`
	Price            textValue `json:"price"`
	CategoryID       textValue `json:"category_id"`
	SerialNumberName textValue `json:"serial_number_name"`
}

// bindItemInput reads an item write from a JSON body or from form values.
func bindItemInput(r *http.Request) (appsvcs.ItemInput, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var p itemPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return appsvcs.ItemInput{}, err
			}
			return appsvcs.ItemInput{}, fmt.Errorf("%w: %v", errhttp.ErrMalformedBody, err)
		}
		return appsvcs.ItemInput{
			Name:             string(p.Name),
			Price:            string(p.Price),
			CategoryID:       string(p.CategoryID),
			SerialNumberName: string(p.SerialNumberName),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return appsvcs.ItemInput{}, err
		}
		return appsvcs.ItemInput{}, fmt.Errorf("%w: %v", errhttp.ErrMalformedBody, err)
	}
	return appsvcs.ItemInput{
		Name:             r.PostForm.Get("name"),
		Price:            r.PostForm.Get("price"),
		CategoryID:       r.PostForm.Get("category_id"),
		SerialNumberName: r.PostForm.Get("serial_number_name"),
	}, nil
}
