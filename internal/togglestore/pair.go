package togglestore

import "go.uber.org/zap"

// Store names used by the viewer. The favorite store keeps the original
// singular key for compatibility with entries persisted by earlier versions.
const (
	FavoriteName = "favorite"
	DislikeName  = "dislikes"
)

// Pair couples the favorite and dislike stores and enforces their mutual
// exclusion: a listing URL tagged in one store is removed from the other
// first. The stores themselves stay unaware of each other.
type Pair struct {
	Favorites *Store
	Dislikes  *Store
}

// NewPair constructs the two stores over a shared storage backend.
func NewPair(storage Storage, logger *zap.Logger) *Pair {
	return &Pair{
		Favorites: New(FavoriteName, storage, logger),
		Dislikes:  New(DislikeName, storage, logger),
	}
}

// ToggleFavorite flips the favorite tag for key and returns the new state.
// Favoriting a disliked listing clears the dislike first.
func (p *Pair) ToggleFavorite(key string) bool {
	if !p.Favorites.Has(key) {
		p.Dislikes.Remove(key)
	}
	return p.Favorites.Toggle(key)
}

// ToggleDislike flips the dislike tag for key and returns the new state.
// Disliking a favorited listing clears the favorite first.
func (p *Pair) ToggleDislike(key string) bool {
	if !p.Dislikes.Has(key) {
		p.Favorites.Remove(key)
	}
	return p.Dislikes.Toggle(key)
}
