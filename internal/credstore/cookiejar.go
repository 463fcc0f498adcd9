package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Cookie variants. Every credential is written twice: a plain SameSite=Lax
// cookie and a cross-domain SameSite=None; Secure cookie.
const (
	variantLax  = "lax"
	variantNone = "none"
)

// Compile-time checks.
var (
	_ Backend        = (*CookieJar)(nil)
	_ http.CookieJar = (*CookieJar)(nil)
)

type cookieRecord struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitzero"`
	SameSite string    `json:"same_site"`
	Secure   bool      `json:"secure"`
}

func (r cookieRecord) expired(now time.Time) bool {
	return !r.Expires.IsZero() && !now.Before(r.Expires)
}

type cookieFile struct {
	Cookies []cookieRecord `json:"cookies"`
}

// CookieJar is a file-backed cookie store scoped to the API host.
//
// It serves as the fallback credential Backend and as the http.CookieJar of
// the API client, so cookies written here are sent with every request to the
// API host. The file is guarded by an advisory lock so concurrent panelctl
// processes do not clobber each other.
type CookieJar struct {
	path   string
	domain string
	lock   *flock.Flock
	now    func() time.Time

	mu sync.Mutex
}

// NewCookieJar returns a jar persisted at path for cookies of domain.
// The domain is usually the host of the API base URL; it may be empty when
// no base URL is configured, in which case the jar still stores credentials
// but never attaches them to requests.
func NewCookieJar(path, domain string) *CookieJar {
	return &CookieJar{
		path:   path,
		domain: strings.ToLower(domain),
		lock:   flock.New(path + ".lock"),
		now:    time.Now,
	}
}

// Path returns the jar's file location.
func (j *CookieJar) Path() string { return j.path }

// Get returns the live plain variant of name, else the live cross-domain one.
func (j *CookieJar) Get(name string) (string, error) {
	var value string
	found := false
	err := j.withFile(false, func(f *cookieFile) bool {
		now := j.now()
		for _, variant := range []string{variantLax, variantNone} {
			for _, r := range f.Cookies {
				if r.Name == name && r.SameSite == variant && !r.expired(now) {
					value, found = r.Value, true
					return false
				}
			}
		}
		return false
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

// Set writes both cookie variants for name with the given lifetime.
func (j *CookieJar) Set(name, value string, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = j.now().Add(ttl)
	}
	return j.withFile(true, func(f *cookieFile) bool {
		f.Cookies = removeCookie(f.Cookies, name, "")
		f.Cookies = append(f.Cookies,
			cookieRecord{Name: name, Value: value, Domain: j.domain, Path: "/", Expires: expires, SameSite: variantLax},
			cookieRecord{Name: name, Value: value, Domain: j.domain, Path: "/", Expires: expires, SameSite: variantNone, Secure: true},
		)
		return true
	})
}

// Delete expires both variants of name.
func (j *CookieJar) Delete(name string) error {
	return j.withFile(true, func(f *cookieFile) bool {
		before := len(f.Cookies)
		f.Cookies = removeCookie(f.Cookies, name, "")
		return len(f.Cookies) != before
	})
}

// Cookies implements http.CookieJar. Secure cookies are only sent over
// https, and the plain variant wins when both are eligible.
func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	if !j.matchesHost(u.Hostname()) {
		return nil
	}
	secure := u.Scheme == "https"

	var out []*http.Cookie
	_ = j.withFile(false, func(f *cookieFile) bool {
		now := j.now()
		seen := make(map[string]bool)
		for _, variant := range []string{variantLax, variantNone} {
			for _, r := range f.Cookies {
				if r.SameSite != variant || r.expired(now) || seen[r.Name] {
					continue
				}
				if r.Secure && !secure {
					continue
				}
				seen[r.Name] = true
				out = append(out, &http.Cookie{Name: r.Name, Value: wireValue(r.Value)})
			}
		}
		return false
	})
	return out
}

// SetCookies implements http.CookieJar, persisting cookies the API host
// sets on its responses. Persistence failures are dropped because the
// interface offers no way to report them.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 || !j.matchesHost(u.Hostname()) {
		return
	}
	_ = j.withFile(true, func(f *cookieFile) bool {
		now := j.now()
		for _, c := range cookies {
			variant := variantLax
			if c.SameSite == http.SameSiteNoneMode {
				variant = variantNone
			}
			f.Cookies = removeCookie(f.Cookies, c.Name, variant)
			if c.MaxAge < 0 || (!c.Expires.IsZero() && !now.Before(c.Expires)) {
				continue
			}
			expires := c.Expires
			if c.MaxAge > 0 {
				expires = now.Add(time.Duration(c.MaxAge) * time.Second)
			}
			f.Cookies = append(f.Cookies, cookieRecord{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   j.domain,
				Path:     "/",
				Expires:  expires,
				SameSite: variant,
				Secure:   c.Secure || variant == variantNone,
			})
		}
		return true
	})
}

// wireValue returns v as sent in a Cookie header. Values outside the
// cookie-octet set, such as the JSON user profiles, are query-escaped; the
// file keeps the raw value so Get round-trips.
func wireValue(v string) string {
	for i := 0; i < len(v); i++ {
		if !isCookieOctet(v[i]) {
			return url.QueryEscape(v)
		}
	}
	return v
}

// isCookieOctet follows RFC 6265 section 4.1.1.
func isCookieOctet(b byte) bool {
	return b == 0x21 ||
		(b >= 0x23 && b <= 0x2B) ||
		(b >= 0x2D && b <= 0x3A) ||
		(b >= 0x3C && b <= 0x5B) ||
		(b >= 0x5D && b <= 0x7E)
}

func (j *CookieJar) matchesHost(host string) bool {
	if j.domain == "" {
		return false
	}
	host = strings.ToLower(host)
	return host == j.domain || strings.HasSuffix(host, "."+j.domain)
}

// removeCookie drops records named name; an empty variant matches both.
func removeCookie(records []cookieRecord, name, variant string) []cookieRecord {
	out := records[:0]
	for _, r := range records {
		if r.Name == name && (variant == "" || r.SameSite == variant) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// withFile loads the jar under lock, runs fn, and writes the file back when
// write is set and fn reports a change. Expired records are pruned on write.
func (j *CookieJar) withFile(write bool, fn func(*cookieFile) bool) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("cookie jar: failed to create directory: %w", err)
	}

	if write {
		if err := j.lock.Lock(); err != nil {
			return fmt.Errorf("cookie jar: failed to lock %s: %w", j.path, err)
		}
	} else if err := j.lock.RLock(); err != nil {
		return fmt.Errorf("cookie jar: failed to lock %s: %w", j.path, err)
	}
	defer j.lock.Unlock()

	f, err := j.load()
	if err != nil {
		return err
	}
	if !fn(f) || !write {
		return nil
	}

	now := j.now()
	live := f.Cookies[:0]
	for _, r := range f.Cookies {
		if !r.expired(now) {
			live = append(live, r)
		}
	}
	f.Cookies = live
	return j.save(f)
}

func (j *CookieJar) load() (*cookieFile, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cookieFile{}, nil
		}
		return nil, fmt.Errorf("cookie jar: failed to read %s: %w", j.path, err)
	}

	var f cookieFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cookie jar: failed to parse %s: %w", j.path, err)
	}
	return &f, nil
}

func (j *CookieJar) save(f *cookieFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("cookie jar: failed to marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), "cookies-*.json.tmp")
	if err != nil {
		return fmt.Errorf("cookie jar: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cookie jar: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cookie jar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cookie jar: %w", err)
	}

	if err := os.Rename(tmpPath, j.path); err != nil {
		if runtime.GOOS == "windows" {
			_ = os.Remove(j.path)
			return os.Rename(tmpPath, j.path)
		}
		os.Remove(tmpPath)
		return fmt.Errorf("cookie jar: failed to write %s: %w", j.path, err)
	}
	return nil
}
