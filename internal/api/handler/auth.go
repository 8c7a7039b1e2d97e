package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github-integration-service/internal/auth"
	"github-integration-service/internal/domain"
	"github-integration-service/internal/ingest"
	"github-integration-service/internal/repository"
)

const stateCookie = "oauth_state"

// GithubAuth starts the authorization-code flow: remember a one-time state
// value in a cookie and send the user to GitHub's consent page.
func GithubAuth(oauthCfg *oauth2.Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.NewString()

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/",
			HttpOnly: true,
			MaxAge:   int((10 * time.Minute).Seconds()),
		})

		http.Redirect(w, r, oauthCfg.AuthCodeURL(state), http.StatusFound)
	}
}

// GithubCallback completes the flow: verify state, exchange the code for a
// token, fetch the GitHub profile, upsert the Integration record and open a
// session. Both success and failure end in a redirect to the frontend, which
// reads the linkage via /integration/status.
func GithubCallback(
	oauthCfg *oauth2.Config,
	sessions auth.Sessions,
	store repository.Store,
	clients ingest.ClientFactory,
	frontendURL string,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		fail := func(msg string, err error) {
			logger.Warn("GithubCallback: "+msg, zap.Error(err))
			http.Redirect(w, r, frontendURL, http.StatusFound)
		}

		cookie, err := r.Cookie(stateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
			fail("state mismatch", err)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			fail("missing code", nil)
			return
		}

		token, err := oauthCfg.Exchange(ctx, code)
		if err != nil {
			fail("code exchange failed", err)
			return
		}

		profile, err := clients(token.AccessToken).CurrentUser(ctx)
		if err != nil {
			fail("failed to fetch profile", err)
			return
		}

		profileDoc, err := ingest.ProfileDocument(profile)
		if err != nil {
			fail("failed to map profile", err)
			return
		}

		githubUserID := strconv.FormatInt(profile.GetID(), 10)
		integration, err := store.UpsertIntegration(ctx, &domain.Integration{
			UserID:          githubUserID,
			GithubUserID:    githubUserID,
			Username:        profile.GetLogin(),
			AccessToken:     token.AccessToken,
			ProfileURL:      profile.GetHTMLURL(),
			IntegrationDate: time.Now().UTC(),
			Profile:         profileDoc,
		})
		if err != nil {
			fail("failed to store integration", err)
			return
		}

		session := sessions.Create(integration.UserID)
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    session,
			Path:     "/",
			HttpOnly: true,
			MaxAge:   int((24 * time.Hour).Seconds()),
		})

		logger.Info("GithubCallback: integration linked", zap.String("username", integration.Username))
		http.Redirect(w, r, frontendURL, http.StatusFound)
	}
}
