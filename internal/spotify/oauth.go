package spotify

import "golang.org/x/oauth2"

// bootstrapScopes are requested when minting a refresh token; they cover
// every user-scoped endpoint the tools reach.
var bootstrapScopes = []string{
	"user-read-private",
	"user-top-read",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// OAuthConfig builds the authorization-code flow config used to mint a
// long-lived refresh token for the refresh_token grant.
func OAuthConfig(creds Credentials, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       bootstrapScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}
}
