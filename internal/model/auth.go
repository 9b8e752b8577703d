package model

type AuthenticationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticationResponse struct {
	AccessToken   string `json:"accessToken"`
	RefreshToken  string `json:"refreshToken"`
	Authenticated bool   `json:"authenticated"`
}

type IntrospectRequest struct {
	Token string `json:"token"`
}

type IntrospectResponse struct {
	Valid bool `json:"valid"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Principal is the caller identity resolved once per request from the
// verified access token and passed explicitly to authorization-sensitive
// calls.
type Principal struct {
	Username    string
	Authorities []string
}

func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
