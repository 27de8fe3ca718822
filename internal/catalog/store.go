package catalog

import (
	"context"
	"errors"
	"strings"

	"gamedex/backend/internal/logger"
	"gamedex/backend/internal/models"

	"gorm.io/gorm"
)

// Fields is the set of caller-supplied game fields accepted by Create and Update.
type Fields struct {
	PublisherID *string
	Name        string
	Platform    models.Platform
	StoreID     *string
	BundleID    *string
	AppVersion  *string
	IsPublished bool
}

// Filter narrows a Search. Zero values mean "no constraint".
type Filter struct {
	Name     string
	Platform models.Platform
}

// Store owns the persisted game catalog. All mutation goes through it.
type Store interface {
	List(ctx context.Context) ([]models.Game, error)
	Search(ctx context.Context, filter Filter) ([]models.Game, error)
	Create(ctx context.Context, fields Fields) (*models.Game, error)
	GetByID(ctx context.Context, id uint) (*models.Game, error)
	Update(ctx context.Context, id uint, fields Fields) (*models.Game, error)
	Delete(ctx context.Context, id uint) (uint, error)
	BulkMerge(ctx context.Context, candidates []models.Game) (int, error)
}

type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewStore returns a GORM-backed Store.
func NewStore(db *gorm.DB, baseLog *logger.Logger) Store {
	return &gormStore{db: db, log: baseLog.With("component", "catalog")}
}

func validateFields(fields Fields) error {
	if strings.TrimSpace(fields.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !fields.Platform.Valid() {
		return &ValidationError{Field: "platform", Reason: "must be one of iOS, Android"}
	}
	return nil
}

func (s *gormStore) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).Order("id").Find(&games).Error; err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return games, nil
}

func (s *gormStore) Search(ctx context.Context, filter Filter) ([]models.Game, error) {
	query := s.db.WithContext(ctx).Model(&models.Game{})

	// LOWER LIKE instead of ILIKE so the query is portable across
	// Postgres and the sqlite test database.
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}

	var games []models.Game
	if err := query.Order("id").Find(&games).Error; err != nil {
		return nil, &StorageError{Op: "search", Err: err}
	}
	return games, nil
}

func (s *gormStore) Create(ctx context.Context, fields Fields) (*models.Game, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	game := models.Game{
		PublisherID: fields.PublisherID,
		Name:        fields.Name,
		Platform:    fields.Platform,
		StoreID:     fields.StoreID,
		BundleID:    fields.BundleID,
		AppVersion:  fields.AppVersion,
		IsPublished: fields.IsPublished,
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return nil, &StorageError{Op: "create", Err: err}
	}
	return &game, nil
}

func (s *gormStore) GetByID(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &game, nil
}

func (s *gormStore) Update(ctx context.Context, id uint, fields Fields) (*models.Game, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{ID: id}
			}
			return &StorageError{Op: "update", Err: err}
		}

		game.PublisherID = fields.PublisherID
		game.Name = fields.Name
		game.Platform = fields.Platform
		game.StoreID = fields.StoreID
		game.BundleID = fields.BundleID
		game.AppVersion = fields.AppVersion
		game.IsPublished = fields.IsPublished

		if err := tx.Save(&game).Error; err != nil {
			return &StorageError{Op: "update", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *gormStore) Delete(ctx context.Context, id uint) (uint, error) {
	result := s.db.WithContext(ctx).Delete(&models.Game{}, id)
	if result.Error != nil {
		return 0, &StorageError{Op: "delete", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return 0, &NotFoundError{ID: id}
	}
	return id, nil
}

// mergeKey decides whether two records describe the same game: platform plus
// store id when the store id is known, otherwise platform plus bundle id
// plus name.
func mergeKey(g *models.Game) string {
	if g.StoreID != nil && *g.StoreID != "" {
		return "store\x00" + string(g.Platform) + "\x00" + *g.StoreID
	}
	bundle := ""
	if g.BundleID != nil {
		bundle = *g.BundleID
	}
	return "bundle\x00" + string(g.Platform) + "\x00" + bundle + "\x00" + g.Name
}

func (s *gormStore) BulkMerge(ctx context.Context, candidates []models.Game) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	for i := range candidates {
		if strings.TrimSpace(candidates[i].Name) == "" {
			return 0, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		if !candidates[i].Platform.Valid() {
			return 0, &ValidationError{Field: "platform", Reason: "must be one of iOS, Android"}
		}
	}

	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Game
		if err := tx.Select("platform", "store_id", "bundle_id", "name").Find(&existing).Error; err != nil {
			return &StorageError{Op: "bulk merge", Err: err}
		}

		seen := make(map[string]struct{}, len(existing)+len(candidates))
		for i := range existing {
			seen[mergeKey(&existing[i])] = struct{}{}
		}

		var toInsert []models.Game
		for i := range candidates {
			key := mergeKey(&candidates[i])
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			toInsert = append(toInsert, candidates[i])
		}

		if len(toInsert) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&toInsert, 100).Error; err != nil {
			return &StorageError{Op: "bulk merge", Err: err}
		}
		inserted = len(toInsert)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("bulk merge complete", "candidates", len(candidates), "inserted", inserted)
	return inserted, nil
}
