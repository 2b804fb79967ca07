package upstream

import "sync"

// Session holds the bearer tokens for the upstream core API. It replaces the
// ambient token storage of earlier designs with an explicit object owned by
// the client: Init on login, Teardown on logout or failed refresh.
type Session struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewSession() *Session {
	return &Session{}
}

// Init installs a fresh token pair.
func (s *Session) Init(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// Teardown clears both tokens. Subsequent requests fail with ErrUnauthorized
// until Init is called again.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// Active reports whether the session currently holds an access token.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}
