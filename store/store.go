package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"cinebook/model"
)

const (
	appDirName      = "cinebook"
	sessionFile     = "session.json"
	bookingsFile    = "bookings.json"
	wishlistFile    = "wishlist.json"
	maxBookingsKept = 100
)

// SavedSession is what survives a restart: the bearer token (stored under
// the "token" key) and the user it was issued for.
type SavedSession struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`
}

type bookingHistory struct {
	Bookings []model.BookingRecord `json:"bookings"`
}

type wishlists struct {
	ByUser map[string][]model.WishlistItem `json:"by_user"`
}

// LoadSession returns the persisted session, or ok=false when none exists.
func LoadSession() (SavedSession, bool, error) {
	path, err := configPath(sessionFile)
	if err != nil {
		return SavedSession{}, false, err
	}
	saved, found, err := loadJSON[SavedSession](path)
	if err != nil {
		return SavedSession{}, false, errors.New("invalid session format")
	}
	if !found || strings.TrimSpace(saved.Token) == "" {
		return SavedSession{}, false, nil
	}
	return saved, true, nil
}

// Token returns the persisted bearer token, or "" when logged out.
func Token() string {
	saved, ok, err := LoadSession()
	if err != nil || !ok {
		return ""
	}
	return saved.Token
}

func SaveSession(token string, user model.User) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is required")
	}
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	return saveJSON(path, SavedSession{Token: token, User: user, SavedAt: time.Now()}, 0o600)
}

// ClearSession removes the persisted token. Clearing twice is not an error.
func ClearSession() error {
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadBookings returns the user's booking history, most recent first.
func LoadBookings(userID int64) ([]model.BookingRecord, error) {
	history, err := loadBookingHistory()
	if err != nil {
		return nil, err
	}
	var out []model.BookingRecord
	for _, record := range history.Bookings {
		if record.UserId == userID {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BookedAt.After(out[j].BookedAt)
	})
	return out, nil
}

func AppendBooking(record model.BookingRecord) error {
	if strings.TrimSpace(record.Reference) == "" {
		return errors.New("booking reference is required")
	}
	history, err := loadBookingHistory()
	if err != nil {
		return err
	}
	next := []model.BookingRecord{record}
	for _, existing := range history.Bookings {
		if existing.Reference == record.Reference {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxBookingsKept {
			break
		}
	}
	path, err := configPath(bookingsFile)
	if err != nil {
		return err
	}
	return saveJSON(path, bookingHistory{Bookings: next}, 0o644)
}

func LoadWishlist(userID int64) ([]model.WishlistItem, error) {
	lists, err := loadWishlists()
	if err != nil {
		return nil, err
	}
	return lists.ByUser[userKey(userID)], nil
}

func InWishlist(userID int64, kind model.BookingKind, targetID string) bool {
	items, err := LoadWishlist(userID)
	if err != nil {
		return false
	}
	return indexOf(items, kind, targetID) >= 0
}

// ToggleWishlist adds the item when absent and removes it when present. It
// reports whether the item is in the wishlist afterwards.
func ToggleWishlist(userID int64, item model.WishlistItem) (bool, error) {
	if userID == 0 || strings.TrimSpace(item.TargetId) == "" {
		return false, errors.New("user id and target id are required")
	}
	lists, err := loadWishlists()
	if err != nil {
		return false, err
	}

	key := userKey(userID)
	current := lists.ByUser[key]
	added := false
	if index := indexOf(current, item.Kind, item.TargetId); index >= 0 {
		current = append(current[:index], current[index+1:]...)
	} else {
		if item.AddedAt.IsZero() {
			item.AddedAt = time.Now()
		}
		current = append([]model.WishlistItem{item}, current...)
		added = true
	}

	if len(current) == 0 {
		delete(lists.ByUser, key)
	} else {
		lists.ByUser[key] = current
	}

	path, err := configPath(wishlistFile)
	if err != nil {
		return false, err
	}
	if err := saveJSON(path, lists, 0o644); err != nil {
		return false, err
	}
	return added, nil
}

func loadBookingHistory() (bookingHistory, error) {
	path, err := configPath(bookingsFile)
	if err != nil {
		return bookingHistory{}, err
	}
	history, _, err := loadJSON[bookingHistory](path)
	if err != nil {
		return bookingHistory{}, errors.New("invalid booking history format")
	}
	return history, nil
}

func loadWishlists() (wishlists, error) {
	path, err := configPath(wishlistFile)
	if err != nil {
		return wishlists{}, err
	}
	lists, _, err := loadJSON[wishlists](path)
	if err != nil {
		return wishlists{}, errors.New("invalid wishlist format")
	}
	if lists.ByUser == nil {
		lists.ByUser = map[string][]model.WishlistItem{}
	}
	return lists, nil
}

func indexOf(items []model.WishlistItem, kind model.BookingKind, targetID string) int {
	for i, item := range items {
		if item.Kind == kind && item.TargetId == targetID {
			return i
		}
	}
	return -1
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func loadJSON[T any](path string) (T, bool, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, false, nil
		}
		return out, false, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false, err
	}
	return out, true, nil
}

func saveJSON[T any](path string, data T, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, perm)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
