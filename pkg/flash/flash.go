// Package flash carries one-shot status messages across the redirect that
// follows a successful create, edit or delete.
package flash

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the flash session.
	SessionName = "catalog_flash"

	maxAge = 60 * 60
)

// Flasher adds and drains flash messages on a gorilla session.
type Flasher struct {
	store sessions.Store
}

// New returns a Flasher on store.
func New(store sessions.Store) *Flasher {
	return &Flasher{store: store}
}

// NewCookieStore keeps flash messages in the signed cookie itself, for
// deployments without Redis.
func NewCookieStore(authKey, encryptionKey []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(authKey, encryptionKey)
	opts := cookieOptions(secure)
	store.Options = &opts
	return store
}

func cookieOptions(secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Add queues msg for the next request. It must run before the response
// headers are written.
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, msg string) error {
	sess, err := f.store.Get(r, SessionName)
	if err != nil {
		return fmt.Errorf("flash: get session: %w", err)
	}
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("flash: save session: %w", err)
	}
	return nil
}

// Pop returns and clears the queued messages. It never returns nil.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) ([]string, error) {
	sess, err := f.store.Get(r, SessionName)
	if err != nil {
		return []string{}, fmt.Errorf("flash: get session: %w", err)
	}
	raw := sess.Flashes()
	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	if len(raw) == 0 {
		return msgs, nil
	}
	if err := sess.Save(r, w); err != nil {
		return msgs, fmt.Errorf("flash: save session: %w", err)
	}
	return msgs, nil
}
