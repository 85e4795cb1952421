// Package profile holds the user-owned documents that are read and written
// synchronously: display preferences and the personal problem log.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kasyap600/AlgoPath/backend/docstore"
)

const MaxDisplayName = 64

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
)

const (
	fieldDisplayName   = "displayName"
	fieldPublicProfile = "publicProfile"
)

type Prefs struct {
	DisplayName   string `json:"display_name"`
	PublicProfile bool   `json:"public_profile"`
}

// PrefsUpdate changes only the fields that are set.
type PrefsUpdate struct {
	DisplayName   *string `json:"display_name,omitempty"`
	PublicProfile *bool   `json:"public_profile,omitempty"`
}

// Service reads and writes profile documents straight through to the store.
type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Prefs(ctx context.Context, userID string) (Prefs, error) {
	path, err := docstore.PrefsPath(userID)
	if err != nil {
		return Prefs{}, err
	}
	doc, _, err := s.store.Get(ctx, path)
	if err != nil {
		return Prefs{}, err
	}
	return Prefs{
		DisplayName:   doc.Strings()[fieldDisplayName],
		PublicProfile: doc.Bools()[fieldPublicProfile],
	}, nil
}

// UpdatePrefs merges u into the stored preferences and returns the result.
// The display name is trimmed; an empty name clears it.
func (s *Service) UpdatePrefs(ctx context.Context, userID string, u PrefsUpdate) (Prefs, error) {
	path, err := docstore.PrefsPath(userID)
	if err != nil {
		return Prefs{}, err
	}
	fields := docstore.Document{}
	if u.DisplayName != nil {
		name := strings.TrimSpace(*u.DisplayName)
		if utf8.RuneCountInString(name) > MaxDisplayName {
			return Prefs{}, fmt.Errorf("%w: display name longer than %d characters", ErrInvalid, MaxDisplayName)
		}
		fields[fieldDisplayName] = name
	}
	if u.PublicProfile != nil {
		fields[fieldPublicProfile] = *u.PublicProfile
	}
	if len(fields) > 0 {
		if err := s.store.Set(ctx, path, fields); err != nil {
			return Prefs{}, err
		}
	}
	return s.Prefs(ctx, userID)
}
