package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Video model related methods.
	CreateVideo(ctx context.Context, create *Video) (*Video, error)
	ListVideos(ctx context.Context, find *FindVideo) ([]*Video, error)
	DeleteVideo(ctx context.Context, delete *DeleteVideo) error

	// Shot model related methods.
	CreateShot(ctx context.Context, create *Shot) (*Shot, error)
	ListShots(ctx context.Context, find *FindShot) ([]*Shot, error)
	ListShotIDs(ctx context.Context, find *FindShot) ([]int64, error)
	CountShots(ctx context.Context, find *FindShot) (int, error)
	DeleteShot(ctx context.Context, delete *DeleteShot) error

	// UpdateShotEmbedding updates the embedding vector for a shot.
	UpdateShotEmbedding(ctx context.Context, id int64, embedding []float32) error

	// FindShotsWithoutEmbedding finds shots awaiting embedding backfill.
	FindShotsWithoutEmbedding(ctx context.Context, find *FindShotsWithoutEmbedding) ([]*Shot, error)

	// NearestShotIDs performs vector similarity search, optionally
	// restricted to a candidate id set.
	NearestShotIDs(ctx context.Context, queryVector []float32, candidateIDs []int64, limit int) ([]int64, error)

	// SimilarShots finds shots nearest to a given shot's embedding.
	SimilarShots(ctx context.Context, shotID int64, limit int) ([]*Shot, error)

	// Tag model related methods.
	CreateTag(ctx context.Context, create *Tag) (*Tag, error)
	ListTags(ctx context.Context, find *FindTag) ([]*Tag, error)
	CountTags(ctx context.Context, find *FindTag) (int, error)
	UpdateTag(ctx context.Context, update *UpdateTag) (*Tag, error)
	DeleteTag(ctx context.Context, delete *DeleteTag) error

	// ShotTag model related methods.
	UpsertShotTag(ctx context.Context, upsert *ShotTag) (*ShotTag, error)
	ListShotTags(ctx context.Context, find *FindShotTag) ([]*ShotTag, error)
	DeleteShotTag(ctx context.Context, delete *DeleteShotTag) error

	// Deck model related methods.
	CreateDeck(ctx context.Context, create *Deck) (*Deck, error)
	ListDecks(ctx context.Context, find *FindDeck) ([]*Deck, error)
	DeleteDeck(ctx context.Context, delete *DeleteDeck) error

	// DeckItem model related methods.
	CreateDeckItem(ctx context.Context, create *DeckItem) (*DeckItem, error)
	ListDeckItems(ctx context.Context, find *FindDeckItem) ([]*DeckItem, error)
	DeleteDeckItem(ctx context.Context, delete *DeleteDeckItem) error
	UpdateDeckItemOrders(ctx context.Context, update *UpdateDeckItemOrders) error
}
