package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hutamy/go-invoice-frontend/internal/api"
)

const (
	ctxKeySessionID = "sessionID"
	ctxKeyClient    = "client"
)

// requireSession resolves the browser session to its backend client and
// rejects visitors that have no tokens at all. Expired access tokens are
// fine here: the client refreshes transparently on first use.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sid, ok := s.readSessionID(c)
		if !ok {
			return c.Redirect(http.StatusFound, "/auth/login")
		}

		client := s.manager.Get(sid)
		if !client.IsAuthenticated() {
			return c.Redirect(http.StatusFound, "/auth/login")
		}

		c.Set(ctxKeySessionID, sid)
		c.Set(ctxKeyClient, client)
		return next(c)
	}
}

// readSessionID extracts the session UUID from the cookie, if present.
func (s *Server) readSessionID(c echo.Context) (uuid.UUID, bool) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return uuid.Nil, false
	}

	raw, ok := session.Values[sessionKeySessionID].(string)
	if !ok {
		return uuid.Nil, false
	}

	sid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return sid, true
}

// establishSession mints a fresh session ID and writes the cookie. Called on
// successful sign-in and sign-up so tokens never attach to a stale session.
func (s *Server) establishSession(c echo.Context) (uuid.UUID, error) {
	sid := uuid.New()

	session, _ := s.sessionStore.New(c.Request(), sessionName)
	session.Values[sessionKeySessionID] = sid.String()
	if err := session.Save(c.Request(), c.Response()); err != nil {
		return uuid.Nil, err
	}
	return sid, nil
}

// clearSession expires the cookie.
func (s *Server) clearSession(c echo.Context) {
	session, _ := s.sessionStore.Get(c.Request(), sessionName)
	session.Options.MaxAge = -1
	delete(session.Values, sessionKeySessionID)
	_ = session.Save(c.Request(), c.Response())
}

func sessionID(c echo.Context) uuid.UUID {
	sid, _ := c.Get(ctxKeySessionID).(uuid.UUID)
	return sid
}

func currentClient(c echo.Context) *api.Client {
	client, _ := c.Get(ctxKeyClient).(*api.Client)
	return client
}
