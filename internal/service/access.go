package service

import "fmt"

// Caller is who is asking, as established by the transport layer
type Caller struct {
	IsAdmin bool
	// SessionID is the session named by a valid ownership token, if any
	SessionID string
}

// Authorize allows admins, and token holders whose token names exactly sessionID.
// Reads and writes share the same rule.
func Authorize(sessionID string, caller Caller) error {
	if caller.IsAdmin {
		return nil
	}
	if caller.SessionID != "" && caller.SessionID == sessionID {
		return nil
	}
	return fmt.Errorf("%w: no access to session", ErrUnauthorized)
}

// CallerFromTokens resolves a Caller from raw tokens. Invalid tokens are ignored
// so that the decision falls to Authorize.
func (s *AuthService) CallerFromTokens(adminToken, sessionToken string) Caller {
	var caller Caller
	if adminToken != "" {
		if _, err := s.ValidateAdminToken(adminToken); err == nil {
			caller.IsAdmin = true
		}
	}
	if sessionToken != "" {
		if claims, err := s.ValidateSessionToken(sessionToken); err == nil {
			caller.SessionID = claims.SessionID
		}
	}
	return caller
}
