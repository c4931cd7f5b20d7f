package wire

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-review/pkg/events"
	"catalog-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type testApp struct {
	t      *testing.T
	router *chi.Mux
}

func newTestApp(t *testing.T, managerEmails ...string) *testApp {
	t.Helper()

	config := &utils.Config{
		JWT:   utils.JWTConfig{Secret: testSecret, ExpiryHours: 1},
		Items: utils.ItemsConfig{ManagerEmails: managerEmails},
	}

	app, err := Wiring(newMemRepository(), events.NopPublisher{}, config, zap.NewNop())
	require.NoError(t, err)

	return &testApp{t: t, router: app.Router}
}

func (a *testApp) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type userBody struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Password *string `json:"password"`
}

type itemBody struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	Reviews       []struct {
		Rating   int    `json:"rating"`
		UserName string `json:"userName"`
	} `json:"reviews"`
}

type reviewBody struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ItemID    string `json:"itemId"`
	Rating    int    `json:"rating"`
	UserName  string `json:"userName"`
	ItemTitle string `json:"itemTitle"`
}

// register creates a user and logs in, returning the user id and token.
func (a *testApp) register(email, name string) (string, string) {
	a.t.Helper()

	code, env := a.do(http.MethodPost, "/users", "", map[string]any{
		"email": email, "name": name, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	user := decode[userBody](a.t, env.Data)

	code, env = a.do(http.MethodPost, "/auth/login", "", map[string]any{
		"email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusOK, code, env.Message)
	auth := decode[struct {
		Token string `json:"token"`
	}](a.t, env.Data)
	require.NotEmpty(a.t, auth.Token)

	return user.ID, auth.Token
}

func (a *testApp) createItem(title, itemType string) itemBody {
	a.t.Helper()

	code, env := a.do(http.MethodPost, "/item", "", map[string]any{"title": title, "type": itemType})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[itemBody](a.t, env.Data)
}

func (a *testApp) createReview(token, itemID string, rating int) reviewBody {
	a.t.Helper()

	code, env := a.do(http.MethodPost, "/reviews", token, map[string]any{"itemId": itemID, "rating": rating})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[reviewBody](a.t, env.Data)
}

func TestEndToEndFlow(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(http.MethodPost, "/users", "", map[string]any{
		"email": "a@x.com", "name": "A", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code)
	created := decode[userBody](t, env.Data)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Nil(t, created.Password)
	assert.NotContains(t, string(env.Data), "password")

	code, env = app.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "password")
	token := decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token
	require.NotEmpty(t, token)

	item := app.createItem("Movie", "movie")
	assert.Equal(t, "MOVIE", item.Type)
	assert.Equal(t, 0.0, item.AverageRating)

	review := app.createReview(token, item.ID, 4)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, created.ID, review.UserID)

	code, env = app.do(http.MethodGet, "/item/"+item.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	detail := decode[itemBody](t, env.Data)
	assert.Equal(t, 4.0, detail.AverageRating)
	assert.Equal(t, 1, detail.TotalReviews)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "A", detail.Reviews[0].UserName)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register("a@x.com", "A")
	item := app.createItem("Movie", "movie")

	for _, rating := range []int{0, 6, -1} {
		for _, itemID := range []string{item.ID, "00000000-0000-0000-0000-000000000000", "not-a-uuid"} {
			code, env := app.do(http.MethodPost, "/reviews", token, map[string]any{"itemId": itemID, "rating": rating})
			assert.Equal(t, http.StatusBadRequest, code, "rating %d item %s", rating, itemID)
			assert.False(t, env.Status)
		}
	}
}

func TestCreateReview_RequiresAuth(t *testing.T) {
	app := newTestApp(t)
	item := app.createItem("Movie", "movie")

	code, _ := app.do(http.MethodPost, "/reviews", "", map[string]any{"itemId": item.ID, "rating": 3})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodPost, "/reviews", "forged", map[string]any{"itemId": item.ID, "rating": 3})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAverageRating(t *testing.T) {
	app := newTestApp(t)
	item := app.createItem("Dune", "book")

	for i, rating := range []int{5, 4, 4} {
		_, token := app.register(string(rune('a'+i))+"@x.com", "U")
		app.createReview(token, item.ID, rating)
	}

	code, env := app.do(http.MethodGet, "/item/"+item.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	detail := decode[itemBody](t, env.Data)
	assert.Equal(t, 4.3, detail.AverageRating)
	assert.Equal(t, 3, detail.TotalReviews)

	code, env = app.do(http.MethodGet, "/item?type=book", "", nil)
	require.Equal(t, http.StatusOK, code)
	items := decode[[]itemBody](t, env.Data)
	require.Len(t, items, 1)
	assert.Equal(t, 4.3, items[0].AverageRating)
	assert.Equal(t, 3, items[0].TotalReviews)
}

func TestUpdateUser_NonOwnerForbidden(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register("a@x.com", "A")
	otherID, _ := app.register("b@x.com", "B")

	bodies := []any{
		map[string]any{"name": "Hijacked"},
		map[string]any{"email": "not-an-email"},
		"{broken json",
		nil,
	}
	for _, body := range bodies {
		code, _ := app.do(http.MethodPut, "/users/"+otherID, token, body)
		assert.Equal(t, http.StatusForbidden, code, "body %v", body)
	}

	code, _ := app.do(http.MethodPut, "/users/not-a-uuid", token, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(http.MethodDelete, "/users/"+otherID, token, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUpdateUser_Owner(t *testing.T) {
	app := newTestApp(t)
	id, token := app.register("a@x.com", "A")

	code, env := app.do(http.MethodPut, "/users/"+id, token, map[string]any{"name": "Renamed", "password": "newsecret"})
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decode[userBody](t, env.Data)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NotContains(t, string(env.Data), "password")

	code, _ = app.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "a@x.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "password")
}

func TestGetReviews(t *testing.T) {
	app := newTestApp(t)
	userID, token := app.register("a@x.com", "A")
	_, otherToken := app.register("b@x.com", "B")
	first := app.createItem("First", "movie")
	second := app.createItem("Second", "movie")

	older := app.createReview(token, first.ID, 3)
	newer := app.createReview(token, second.ID, 5)
	app.createReview(otherToken, first.ID, 1)

	code, _ := app.do(http.MethodGet, "/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := app.do(http.MethodGet, "/reviews?userId="+userID, "", nil)
	require.Equal(t, http.StatusOK, code)
	reviews := decode[[]reviewBody](t, env.Data)
	require.Len(t, reviews, 2)
	assert.Equal(t, newer.ID, reviews[0].ID)
	assert.Equal(t, older.ID, reviews[1].ID)
	assert.Equal(t, "A", reviews[0].UserName)
	assert.Equal(t, "Second", reviews[0].ItemTitle)

	code, env = app.do(http.MethodGet, "/reviews?itemId="+first.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]reviewBody](t, env.Data), 2)

	code, _ = app.do(http.MethodGet, "/reviews?itemId=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReviewOwnership(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register("a@x.com", "A")
	_, otherToken := app.register("b@x.com", "B")
	item := app.createItem("Movie", "movie")
	review := app.createReview(token, item.ID, 2)

	code, _ := app.do(http.MethodPut, "/reviews/"+review.ID, otherToken, map[string]any{"rating": 5})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(http.MethodDelete, "/reviews/"+review.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := app.do(http.MethodPut, "/reviews/"+review.ID, token, map[string]any{"rating": 5})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, 5, decode[reviewBody](t, env.Data).Rating)

	code, _ = app.do(http.MethodDelete, "/reviews/"+review.ID, token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(http.MethodDelete, "/reviews/"+review.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteUser_RemovesReviews(t *testing.T) {
	app := newTestApp(t)
	userID, token := app.register("a@x.com", "A")
	item := app.createItem("Movie", "movie")
	app.createReview(token, item.ID, 4)

	code, env := app.do(http.MethodDelete, "/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = app.do(http.MethodGet, "/reviews?userId="+userID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]reviewBody](t, env.Data))

	code, _ = app.do(http.MethodGet, "/users/"+userID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteItem(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register("a@x.com", "A")
	item := app.createItem("Movie", "movie")
	app.createReview(token, item.ID, 4)

	code, _ := app.do(http.MethodDelete, "/item/"+item.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := app.do(http.MethodDelete, "/item/"+item.ID, token, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = app.do(http.MethodGet, "/item/"+item.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = app.do(http.MethodGet, "/reviews?itemId="+item.ID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]reviewBody](t, env.Data))
}

func TestItemManagerAllowList(t *testing.T) {
	app := newTestApp(t, "boss@x.com")
	_, token := app.register("a@x.com", "A")
	_, bossToken := app.register("boss@x.com", "Boss")
	item := app.createItem("Movie", "movie")

	code, _ := app.do(http.MethodPut, "/item/"+item.ID, token, map[string]any{"title": "Renamed"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := app.do(http.MethodPut, "/item/"+item.ID, bossToken, map[string]any{"title": "Renamed", "type": "series"})
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decode[itemBody](t, env.Data)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "SERIES", updated.Type)
}

func TestUpdateItem_EmptyTextClears(t *testing.T) {
	app := newTestApp(t)
	_, token := app.register("a@x.com", "A")

	code, env := app.do(http.MethodPost, "/item", "", map[string]any{
		"title": "Movie", "type": "movie", "description": "Long", "genre": "Drama",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	item := decode[itemBody](t, env.Data)

	code, env = app.do(http.MethodPut, "/item/"+item.ID, token, map[string]any{"description": "", "genre": ""})
	require.Equal(t, http.StatusOK, code, env.Message)

	fields := decode[map[string]any](t, env.Data)
	assert.Nil(t, fields["description"])
	assert.Nil(t, fields["genre"])
	assert.Contains(t, fields, "description")
}

func TestLogin_Failures(t *testing.T) {
	app := newTestApp(t)
	app.register("a@x.com", "A")

	code, _ := app.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodPost, "/auth/login", "", map[string]any{"email": "nobody@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env := app.do(http.MethodPost, "/users", "", map[string]any{"email": "a@x.com", "name": "A2", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "email")
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestWiring_RejectsEmptySecret(t *testing.T) {
	_, err := Wiring(newMemRepository(), events.NopPublisher{}, &utils.Config{}, zap.NewNop())
	assert.Error(t, err)
}
