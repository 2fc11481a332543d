package api

import (
	"os"

	"github.com/peterbourgon/diskv/v3"
)

const sessionKey = "session"

// DiskvTokenStore keeps the session token in a small on-disk key/value store
// next to the guest entry data.
type DiskvTokenStore struct {
	d *diskv.Diskv
}

func NewDiskvTokenStore(basePath string) *DiskvTokenStore {
	return &DiskvTokenStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024,
		}),
	}
}

func (s *DiskvTokenStore) Load() (string, error) {
	if !s.d.Has(sessionKey) {
		return "", nil
	}
	raw, err := s.d.Read(sessionKey)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(raw), nil
}

func (s *DiskvTokenStore) Save(token string) error {
	return s.d.Write(sessionKey, []byte(token))
}

func (s *DiskvTokenStore) Clear() error {
	if !s.d.Has(sessionKey) {
		return nil
	}
	return s.d.Erase(sessionKey)
}
