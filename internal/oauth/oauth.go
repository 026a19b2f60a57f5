package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserInfoURL = "https://api.github.com/user"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// Profile is the normalized identity assertion handed to the auth service.
// Raw keeps the provider payload verbatim for the oauth_accounts row.
type Profile struct {
	ProviderID  string
	Email       string
	DisplayName string
	Raw         []byte
}

type Manager struct {
	google *oauth2.Config
	github *oauth2.Config
}

func NewManager(baseURL, googleID, googleSecret, githubID, githubSecret string) *Manager {
	return &Manager{
		google: &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		},
		github: &oauth2.Config{
			ClientID:     githubID,
			ClientSecret: githubSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  baseURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
		},
	}
}

// StateToken returns a random value for CSRF protection of the redirect
// round-trip.
func StateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *Manager) config(provider Provider) (*oauth2.Config, error) {
	switch provider {
	case ProviderGoogle:
		return m.google, nil
	case ProviderGitHub:
		return m.github, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}

func (m *Manager) AuthURL(provider Provider, state string) (string, error) {
	cfg, err := m.config(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (m *Manager) Exchange(ctx context.Context, provider Provider, code string) (*oauth2.Token, error) {
	cfg, err := m.config(provider)
	if err != nil {
		return nil, err
	}
	return cfg.Exchange(ctx, code)
}

// FetchProfile retrieves the provider's userinfo document with the
// exchanged token and normalizes it.
func (m *Manager) FetchProfile(ctx context.Context, provider Provider, token *oauth2.Token) (Profile, error) {
	const op = "oauth.FetchProfile"

	cfg, err := m.config(provider)
	if err != nil {
		return Profile{}, err
	}

	url := googleUserInfoURL
	if provider == ProviderGitHub {
		url = githubUserInfoURL
	}

	resp, err := cfg.Client(ctx, token).Get(url)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%s: userinfo returned %d", op, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := parseProfile(provider, raw)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return profile, nil
}

func parseProfile(provider Provider, raw []byte) (Profile, error) {
	switch provider {
	case ProviderGoogle:
		var info struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.Unmarshal(raw, &info); err != nil {
			return Profile{}, err
		}
		if info.ID == "" || info.Email == "" {
			return Profile{}, errors.New("userinfo missing id or email")
		}
		return Profile{ProviderID: info.ID, Email: info.Email, DisplayName: info.Name, Raw: raw}, nil

	case ProviderGitHub:
		var info struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Login string `json:"login"`
			Name  string `json:"name"`
		}
		if err := json.Unmarshal(raw, &info); err != nil {
			return Profile{}, err
		}
		if info.ID == 0 || info.Email == "" {
			return Profile{}, errors.New("userinfo missing id or email")
		}
		name := info.Name
		if name == "" {
			name = info.Login
		}
		return Profile{ProviderID: strconv.FormatInt(info.ID, 10), Email: info.Email, DisplayName: name, Raw: raw}, nil

	default:
		return Profile{}, ErrUnknownProvider
	}
}
