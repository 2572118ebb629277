package flash

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "catalog:session:"

// RedisStore is a sessions.Store that keeps values in Redis and only an
// encrypted session ID in the cookie. Keys expire with the session MaxAge.
type RedisStore struct {
	rdb     redis.Cmdable
	codecs  []securecookie.Codec
	options sessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

// NewRedisStore returns a RedisStore. authKey should be 32 or 64 bytes and
// encryptionKey 16, 24 or 32 bytes.
func NewRedisStore(rdb redis.Cmdable, authKey, encryptionKey []byte, secure bool) *RedisStore {
	return &RedisStore{
		rdb:     rdb,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: cookieOptions(secure),
	}
}

func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or
// expired cookie yields a fresh session without error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := s.options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return sess, nil
	}
	sess.ID = id
	if err := s.load(r.Context(), sess); err != nil {
		return sess, nil
	}
	sess.IsNew = false
	return sess, nil
}

// Save writes the values to Redis and the ID cookie to w. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			_ = s.rdb.Del(r.Context(), redisKeyPrefix+sess.ID).Err()
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sess.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	if err := s.rdb.Set(r.Context(), redisKeyPrefix+sess.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), encoded, sess.Options))
	return nil
}

func (s *RedisStore) load(ctx context.Context, sess *sessions.Session) error {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+sess.ID).Bytes()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&sess.Values)
}
