package session

import (
	"bytes"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/libdesk/libdesk/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gorillasessions "github.com/gorilla/sessions"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMaxAge = 60 * 60

var errSessionNotFound = errors.New("session not found")

func init() {
	// flashes are stored as []any
	gob.Register([]any{})
}

// Store keeps session values in the sessions table. The cookie carries only
// the signed session id.
type Store struct {
	db      *gorm.DB
	Codecs  []securecookie.Codec
	options *sessions.Options
	now     func() time.Time
}

func NewStore(db *gorm.DB, keyPairs ...[]byte) *Store {
	options := CookieOptions(defaultMaxAge)
	return &Store{
		db:      db,
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: &options,
		now:     time.Now,
	}
}

func (s *Store) Options(opts sessions.Options) {
	s.options = &opts
}

func (s *Store) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie, or a fresh one when the
// cookie is missing, forged or points at an expired row.
func (s *Store) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	session := gorillasessions.NewSession(s, name)
	session.Options = s.options.ToGorillaOptions()
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}
	if err := s.load(session); err != nil {
		session.ID = ""
		if errors.Is(err, errSessionNotFound) {
			return session, nil
		}
		return session, err
	}
	session.IsNew = false
	return session, nil
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *gorillasessions.Session) error {
	if session.Options.MaxAge < 0 {
		if err := s.delete(session); err != nil {
			return err
		}
		http.SetCookie(w, gorillasessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gorillasessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Cleanup removes expired sessions and reports how many were deleted.
func (s *Store) Cleanup() (int64, error) {
	res := s.db.Where("expires_at <= ?", s.now()).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}

func (s *Store) save(session *gorillasessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}

	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.options.MaxAge
	}
	row := model.Session{
		Id:        session.ID,
		Data:      buf.Bytes(),
		ExpiresAt: s.now().Add(time.Duration(maxAge) * time.Second),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&row).Error
}

func (s *Store) load(session *gorillasessions.Session) error {
	var row model.Session
	err := s.db.Where("id = ? AND expires_at > ?", session.ID, s.now()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errSessionNotFound
	}
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(row.Data)).Decode(&session.Values); err != nil {
		return fmt.Errorf("decode session values: %w", err)
	}
	return nil
}

func (s *Store) delete(session *gorillasessions.Session) error {
	if session.ID == "" {
		return nil
	}
	return s.db.Where("id = ?", session.ID).Delete(&model.Session{}).Error
}
