package auth

import (
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

type Config struct {
	ClientID     string `env:"GITHUB_CLIENT_ID" env-required:"true"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET" env-required:"true"`
	CallbackURL  string `env:"GITHUB_CALLBACK_URL" env-required:"true"`
	FrontendURL  string `env:"FRONTEND_URL" env-default:"http://localhost:4200/"`
}

// OAuthConfig builds the GitHub authorization-code flow configuration. The
// scopes ask for enough access to read organizations, repositories and
// member lists on the user's behalf.
func OAuthConfig(config *Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.CallbackURL,
		Endpoint:     githuboauth.Endpoint,
		Scopes:       []string{"user:email", "repo", "admin:org"},
	}
}
