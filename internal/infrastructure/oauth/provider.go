// Package oauth implementa los proveedores de login social (Google, Facebook)
// sobre golang.org/x/oauth2 y el almacén del parámetro state en Redis.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/jhoicas/farmacia-api/internal/application/auth"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

var _ auth.OAuthProvider = (*Provider)(nil)

const (
	googleProfileURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	facebookProfileURL = "https://graph.facebook.com/me?fields=id,name,first_name,email"
)

// Credentials client id/secret y URL de callback registrada en el proveedor.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Provider flujo authorization code + lectura del perfil.
type Provider struct {
	name       string
	cfg        *oauth2.Config
	profileURL string
	decode     func([]byte) (*dto.OAuthProfile, error)
}

// NewGoogle crea el proveedor de Google (scopes email y profile).
func NewGoogle(c Credentials) *Provider {
	return &Provider{
		name: entity.ProviderGoogle,
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		profileURL: googleProfileURL,
		decode:     decodeGoogle,
	}
}

// NewFacebook crea el proveedor de Facebook (scope email).
func NewFacebook(c Credentials) *Provider {
	return &Provider{
		name: entity.ProviderFacebook,
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoints.Facebook,
			Scopes:       []string{"email"},
		},
		profileURL: facebookProfileURL,
		decode:     decodeFacebook,
	}
}

// WithEndpoints reemplaza las URLs del proveedor (servidores de prueba).
func (p *Provider) WithEndpoints(authURL, tokenURL, profileURL string) *Provider {
	p.cfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	p.profileURL = profileURL
	return p
}

func (p *Provider) Name() string { return p.name }

// AuthCodeURL URL de consentimiento con el state indicado.
func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// FetchProfile canjea el code y consulta el perfil con el token obtenido.
func (p *Provider) FetchProfile(ctx context.Context, code string) (*dto.OAuthProfile, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: canje de code: %w", p.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: perfil: %w", p.name, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: perfil: status %d", p.name, resp.StatusCode)
	}
	return p.decode(body)
}

func decodeGoogle(body []byte) (*dto.OAuthProfile, error) {
	var v struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("google: perfil inválido: %w", err)
	}
	email := v.Email
	if !v.EmailVerified {
		email = ""
	}
	return &dto.OAuthProfile{ID: v.Sub, Email: email, DisplayName: v.Name, GivenName: v.GivenName}, nil
}

func decodeFacebook(body []byte) (*dto.OAuthProfile, error) {
	var v struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		FirstName string `json:"first_name"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("facebook: perfil inválido: %w", err)
	}
	return &dto.OAuthProfile{ID: v.ID, Email: v.Email, DisplayName: v.Name, GivenName: v.FirstName}, nil
}
