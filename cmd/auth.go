package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/oakmoss/tonearm/internal/server"
	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin runs the authorization-code flow to mint a refresh token and
// saves it to the config file. With a refresh token configured, the token
// manager switches to the refresh_token grant and user-scoped tools work.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		}
	}

	sp := config.Credentials.Spotify
	if sp.ClientID == "" || sp.ClientSecret == "" {
		return fmt.Errorf("%w: set client_id and client_secret in %s first", shared.ErrMissingCredentials, configPath)
	}

	creds := spotify.Credentials{ClientID: sp.ClientID, ClientSecret: sp.ClientSecret}
	oauthConfig := spotify.OAuthConfig(creds, sp.RedirectURI)

	token, err := r.doOAuth(oauthConfig, sp.RedirectURI)
	if err != nil {
		return err
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("%w: authorization granted no refresh token", shared.ErrAuthFailed)
	}

	config.Credentials.Spotify.RefreshToken = token.RefreshToken
	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Refresh token saved to %s\n\n", configPath)
	r.writePlain("User-scoped tools (top tracks, listening shift) are now available.\n")

	return nil
}

// AuthStatus exercises the token manager once and reports the grant flow.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store := r.client.Store()

	r.writePlain("Grant flow: %s\n", store.GrantFlow())

	if _, err := store.Token(ctx); err != nil {
		r.writePlain("Token: ✗ %s\n", err)
		return err
	}

	r.writePlain("Token: ✓ access token obtained\n")
	if store.GrantFlow() == spotify.GrantClientCredentials {
		r.writePlain("Note: user-scoped tools need a refresh token. Run 'tonearm auth login'.\n")
	}
	return nil
}

// doOAuth runs a local callback server for one authorization-code exchange.
// The listen address comes from the configured redirect URI.
func (r *Runner) doOAuth(oauthConfig *oauth2.Config, redirectURI string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	redirect, err := url.Parse(redirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	authURL := oauthConfig.AuthCodeURL(state)
	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    redirect.Host,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", redirect.Host)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
