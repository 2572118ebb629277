package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/flash"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/item/application/api"
	"github.com/ghuser/catalog/services/item/application/handlers"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
	"github.com/ghuser/catalog/services/item/infrastructure/persistence/memory"
)

type server struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.NewStore()
	store.SeedCategories("Tools", "Books")

	log := logger.Discard()
	d := &handlers.Deps{
		Services: &appsvcs.Services{Item: appsvcs.NewItemService(store, log)},
		Flash:    flash.New(flash.NewCookieStore([]byte(strings.Repeat("a", 32)), []byte(strings.Repeat("b", 32)), false)),
		Errors:   errhttp.NewWriter(log, false),
		Logger:   log,
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) { api.Mount(r, d) })
	return &server{t: t, router: r}
}

// do sends a request carrying the cookies of earlier responses.
func (s *server) do(method, path, contentType, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		s.cookies = cs
	}
	return rec
}

func (s *server) json(method, path, body string) *httptest.ResponseRecorder {
	return s.do(method, path, "application/json", body)
}

func (s *server) form(method, path string, v url.Values) *httptest.ResponseRecorder {
	return s.do(method, path, "application/x-www-form-urlencoded", v.Encode())
}

func (s *server) list() handlers.ListItemsResponse {
	s.t.Helper()
	rec := s.do(http.MethodGet, "/api/items", "", "")
	require.Equal(s.t, http.StatusOK, rec.Code)
	var resp handlers.ListItemsResponse
	require.NoError(s.t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, handlers.ListPath, rec.Header().Get("Location"))
}

func TestCreate_JSONThenListShowsFlashOnce(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodPost, "/api/items",
		`{"name":"Drill","price":129.9,"category_id":1,"serial_number_name":"SN-1"}`)
	requireRedirect(t, rec)

	resp := s.list()
	require.Equal(t, []string{"Item created."}, resp.Flashes)
	require.Len(t, resp.Items, 1)
	got := resp.Items[0]
	require.Equal(t, "Drill", got.Name)
	require.Equal(t, "129.9", got.Price)
	require.Equal(t, "SN-1", got.SerialNumberName)
	require.Equal(t, "Tools", got.Category.Name)

	require.Empty(t, s.list().Flashes)
}

func TestCreate_Form(t *testing.T) {
	s := newServer(t)

	rec := s.form(http.MethodPost, "/api/items", url.Values{
		"name":        {"Atlas"},
		"price":       {"45.00"},
		"category_id": {"2"},
	})
	requireRedirect(t, rec)

	items := s.list().Items
	require.Len(t, items, 1)
	require.Equal(t, "Books", items[0].Category.Name)
	require.Empty(t, items[0].SerialNumberName)
}

func TestCreate_IgnoresFieldsOutsideAllowList(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodPost, "/api/items",
		`{"id":99,"version":7,"name":"Saw","price":"5","category_id":"1"}`)
	requireRedirect(t, rec)

	items := s.list().Items
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ID)
	require.Equal(t, int32(1), items[0].Version)
}

func TestCreate_ValidationEchoesInput(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodPost, "/api/items", `{"name":"  ","price":"lots","category_id":"1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
		Input  appsvcs.ItemInput `json:"input"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Contains(t, body.Fields, "name")
	require.Contains(t, body.Fields, "price")
	require.Equal(t, "lots", body.Input.Price)
	require.Equal(t, "1", body.Input.CategoryID)

	require.Empty(t, s.list().Items)
}

func TestCreate_MalformedBody(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodPost, "/api/items", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.json(http.MethodPost, "/api/items", `{"name":"A","price":[1],"category_id":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewItem_ListsCategories(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/items/new", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.NewItemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, []handlers.CategoryResponse{{ID: 2, Name: "Books"}, {ID: 1, Name: "Tools"}}, resp.Categories)
}

func TestEditForm(t *testing.T) {
	s := newServer(t)
	requireRedirect(t, s.json(http.MethodPost, "/api/items", `{"name":"Lamp","price":"20","category_id":"1","serial_number_name":"SN-L"}`))

	rec := s.do(http.MethodGet, "/api/items/1/edit", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.EditItemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "Lamp", resp.Item.Name)
	require.Equal(t, "SN-L", resp.Item.SerialNumberName)
	require.Len(t, resp.Categories, 2)

	for _, path := range []string{"/api/items/2/edit", "/api/items/abc/edit", "/api/items/0/edit"} {
		rec := s.do(http.MethodGet, path, "", "")
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestEdit_PutAndPost(t *testing.T) {
	s := newServer(t)
	requireRedirect(t, s.json(http.MethodPost, "/api/items", `{"name":"Lamp","price":"20","category_id":"1","serial_number_name":"SN-L"}`))

	requireRedirect(t, s.json(http.MethodPut, "/api/items/1", `{"name":"Desk lamp","price":"24.5","category_id":2,"serial_number_name":""}`))
	resp := s.list()
	require.Equal(t, []string{"Item created.", "Item updated."}, resp.Flashes)
	require.Equal(t, "Desk lamp", resp.Items[0].Name)
	require.Equal(t, "24.5", resp.Items[0].Price)
	require.Empty(t, resp.Items[0].SerialNumberName)

	requireRedirect(t, s.form(http.MethodPost, "/api/items/1", url.Values{
		"name":               {"Floor lamp"},
		"price":              {"80"},
		"category_id":        {"1"},
		"serial_number_name": {"SN-F"},
	}))
	got := s.list().Items[0]
	require.Equal(t, "Floor lamp", got.Name)
	require.Equal(t, "SN-F", got.SerialNumberName)
}

func TestEdit_MissingItem(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodPut, "/api/items/9", `{"name":"X","price":"1","category_id":"1"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteForm(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/items/3/delete", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"item":null}`, rec.Body.String())

	requireRedirect(t, s.json(http.MethodPost, "/api/items", `{"name":"Rug","price":"60","category_id":"1"}`))
	rec = s.do(http.MethodGet, "/api/items/1/delete", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.DeleteItemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Item)
	require.Equal(t, "Rug", resp.Item.Name)
}

func TestDelete(t *testing.T) {
	s := newServer(t)
	requireRedirect(t, s.json(http.MethodPost, "/api/items", `{"name":"A","price":"1","category_id":"1"}`))
	requireRedirect(t, s.json(http.MethodPost, "/api/items", `{"name":"B","price":"2","category_id":"1"}`))

	requireRedirect(t, s.do(http.MethodDelete, "/api/items/1", "", ""))
	requireRedirect(t, s.do(http.MethodPost, "/api/items/2/delete", "", ""))

	resp := s.list()
	require.Empty(t, resp.Items)
	require.Contains(t, resp.Flashes, "Item deleted.")

	// Already gone.
	requireRedirect(t, s.do(http.MethodDelete, "/api/items/1", "", ""))
}
