package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuth_SignupLoginMe(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/auth/signup", `{"username":"stacker","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tok := cookieNamed(rec, s.cfg.CookieName)
	require.NotNil(t, tok)
	assert.True(t, tok.HttpOnly)

	assert.Equal(t, http.StatusConflict,
		do(t, s, http.MethodPost, "/auth/signup", `{"username":"STACKER","password":"password123"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPost, "/auth/signup", `{"username":"x","password":"password123"}`).Code)

	rec = do(t, s, http.MethodGet, "/auth/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"stacker"`)

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/auth/me", "").Code)

	assert.Equal(t, http.StatusUnauthorized,
		do(t, s, http.MethodPost, "/auth/login", `{"username":"stacker","password":"nope-nope"}`).Code)
	rec = do(t, s, http.MethodPost, "/auth/login", `{"username":"stacker","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, cookieNamed(rec, s.cfg.CookieName))

	rec = do(t, s, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := cookieNamed(rec, s.cfg.CookieName)
	require.NotNil(t, out)
	assert.Equal(t, "", out.Value)
	assert.True(t, out.MaxAge < 0)
}

func TestAuth_BearerToken(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/auth/signup", `{"username":"bearer_user","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	tok := cookieNamed(rec, s.cfg.CookieName)

	req := httptest.NewRequest(http.MethodGet, "/stats/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"solves":0`)

	req = httptest.NewRequest(http.MethodGet, "/stats/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SolvesAttributedAndClaimed(t *testing.T) {
	s := newTestServer(t)

	// A guest solves first.
	sess := decode[sessionBody](t, do(t, s, http.MethodPost, "/sessions", ""))
	base := "/sessions/" + sess.SessionID
	do(t, s, http.MethodPost, base+"/compile", `{"commands":"`+classicThree+`"}`)
	do(t, s, http.MethodPost, base+"/play", "")
	rec := do(t, s, http.MethodPost, base+"/tick", `{"frames":1000}`)
	anon := cookieNamed(rec, anonCookieName)
	require.NotNil(t, anon)

	// Signing up claims the guest solve.
	rec = do(t, s, http.MethodPost, "/auth/signup", `{"username":"claimer","password":"password123"}`, anon)
	require.Equal(t, http.StatusCreated, rec.Code)
	tok := cookieNamed(rec, s.cfg.CookieName)

	// A signed-in solve is attributed directly.
	sess = decode[sessionBody](t, do(t, s, http.MethodPost, "/sessions", "", tok))
	base = "/sessions/" + sess.SessionID
	do(t, s, http.MethodPost, base+"/compile", `{"commands":"`+classicThree+`"}`, tok)
	do(t, s, http.MethodPost, base+"/play", "", tok)
	do(t, s, http.MethodPost, base+"/tick", `{"frames":1000}`, tok)

	rec = do(t, s, http.MethodGet, "/stats/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"solves":2`)
	assert.Contains(t, rec.Body.String(), `"optimal":2`)

	lb := decode[lbRes](t, do(t, s, http.MethodGet, "/leaderboard?disks=3", ""))
	require.Len(t, lb.Top, 2)
	assert.Equal(t, "claimer", lb.Top[0].Player)
	assert.Equal(t, "claimer", lb.Top[1].Player)
}
