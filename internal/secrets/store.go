package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// per-user reconnect token store (file, 0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but keeps tokens out of the config file.

const fileName = "tokens.json"

// ErrNotFound is returned when no token is stored for a server.
var ErrNotFound = errors.New("token not found")

type secretFile struct {
	Tokens map[string]string `json:"tokens"` // server -> base64(ciphertext)
}

// TokenStore keeps one reconnect token per game server.
type TokenStore struct {
	dir string
}

// NewTokenStore stores tokens under dir. An empty dir means the user config
// directory.
func NewTokenStore(dir string) (*TokenStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "mafiatui")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return nil, err
	}
	return &TokenStore{dir: dir}, nil
}

func (s *TokenStore) Store(server, token string) error {
	if server = norm(server); server == "" {
		return fmt.Errorf("server required")
	}
	sf, _ := s.load()
	if sf.Tokens == nil {
		sf.Tokens = map[string]string{}
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return err
	}
	sf.Tokens[server] = base64.StdEncoding.EncodeToString(ct)
	return s.save(sf)
}

func (s *TokenStore) Fetch(server string) (string, error) {
	if server = norm(server); server == "" {
		return "", fmt.Errorf("server required")
	}
	sf, err := s.load()
	if err != nil {
		return "", err
	}
	enc, ok := sf.Tokens[server]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func (s *TokenStore) Delete(server string) error {
	if server = norm(server); server == "" {
		return fmt.Errorf("server required")
	}
	sf, err := s.load()
	if err != nil {
		return err
	}
	delete(sf.Tokens, server)
	return s.save(sf)
}

func (s *TokenStore) path() string {
	return filepath.Join(s.dir, fileName)
}

func (s *TokenStore) load() (secretFile, error) {
	var sf secretFile
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return secretFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, err
	}
	return sf, nil
}

func (s *TokenStore) save(sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

// norm keys tokens by host so ws:// and wss:// variants of a server, and
// trailing paths, share one entry.
func norm(server string) string {
	server = strings.TrimSpace(strings.ToLower(server))
	if u, err := url.Parse(server); err == nil && u.Host != "" {
		return u.Host
	}
	return server
}

func masterKey() []byte {
	user := os.Getenv("USER")
	base := fmt.Sprintf("mafiatui-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
