package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
)

// Endpoint is the Discord OAuth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

const userInfoURL = "https://discord.com/api/users/@me"

type DiscordService interface {
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState(userAgent string) string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// VerifyToken exchanges the code for an OAuth2 token.
	VerifyToken(ctx context.Context, code string) (*oauth2.Token, error)
	// VerifyUser fetches the Discord account behind the token.
	VerifyUser(ctx context.Context, token *oauth2.Token) (DiscordInformation, error)
}

type DiscordServiceImpl struct {
	config *oauth2.Config
}

func NewDiscordService(clientID string, clientSecret string, redirectURL string, scopes []string) DiscordService {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     Endpoint,
	}
	return &DiscordServiceImpl{config: config}
}

// DiscordInformation is the subset of /users/@me consumed here.
type DiscordInformation struct {
	DiscordID  string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
}

// DisplayName prefers the server-wide display name over the handle.
func (d DiscordInformation) DisplayName() string {
	if d.GlobalName != "" {
		return d.GlobalName
	}
	return d.Username
}

func (d *DiscordServiceImpl) GenerateState(userAgent string) string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	state := fmt.Sprintf("%s.%s", base64.URLEncoding.EncodeToString(b), userAgent)
	return base64.URLEncoding.EncodeToString([]byte(state))
}

func (d *DiscordServiceImpl) RedirectURL(state string) string {
	return d.config.AuthCodeURL(state)
}

func (d *DiscordServiceImpl) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return &oauth2.Token{}, err
	}
	return token, nil
}

func (d *DiscordServiceImpl) VerifyUser(ctx context.Context, token *oauth2.Token) (DiscordInformation, error) {
	var info DiscordInformation

	client := d.config.Client(ctx, token)

	resp, err := client.Get(userInfoURL)
	if err != nil {
		return DiscordInformation{}, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return DiscordInformation{}, err
	}

	return info, nil
}
