package oauth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-api/internal/infrastructure/oauth"
)

// fakeIdP simula los endpoints de token y perfil de un proveedor.
func fakeIdP(t *testing.T, profile string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "buen-code" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogle_FetchProfile(t *testing.T) {
	srv := fakeIdP(t, `{"sub":"g-1","email":"ann@x.com","email_verified":true,"name":"Ann B","given_name":"Ann"}`)
	p := oauth.NewGoogle(oauth.Credentials{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"}).
		WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL+"/me")

	profile, err := p.FetchProfile(context.Background(), "buen-code")
	require.NoError(t, err)
	assert.Equal(t, "g-1", profile.ID)
	assert.Equal(t, "ann@x.com", profile.Email)
	assert.Equal(t, "Ann B", profile.DisplayName)

	_, err = p.FetchProfile(context.Background(), "mal-code")
	assert.Error(t, err)
}

func TestGoogle_EmailNoVerificadoSeDescarta(t *testing.T) {
	srv := fakeIdP(t, `{"sub":"g-1","email":"ann@x.com","email_verified":false}`)
	p := oauth.NewGoogle(oauth.Credentials{ClientID: "id"}).WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL+"/me")

	profile, err := p.FetchProfile(context.Background(), "buen-code")
	require.NoError(t, err)
	assert.Empty(t, profile.Email)
}

func TestFacebook_FetchProfileYAuthURL(t *testing.T) {
	srv := fakeIdP(t, `{"id":"fb-9","email":"bob@x.com","name":"Bob","first_name":"Bob"}`)
	p := oauth.NewFacebook(oauth.Credentials{ClientID: "fb-client", RedirectURL: "http://localhost/api/auth/facebook/callback"}).
		WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL+"/me")

	assert.Equal(t, "facebook", p.Name())
	u, err := url.Parse(p.AuthCodeURL("xyz"))
	require.NoError(t, err)
	assert.Equal(t, "xyz", u.Query().Get("state"))
	assert.Equal(t, "fb-client", u.Query().Get("client_id"))
	assert.Equal(t, "email", u.Query().Get("scope"))

	profile, err := p.FetchProfile(context.Background(), "buen-code")
	require.NoError(t, err)
	assert.Equal(t, "fb-9", profile.ID)
	assert.Equal(t, "bob@x.com", profile.Email)
}
