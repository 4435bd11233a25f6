package domain

// TokenPair is what the sign-in endpoint returns: a short-lived access token
// and a longer-lived refresh token, both opaque bearer strings.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
