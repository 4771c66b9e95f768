package store

import (
	"context"
	"errors"
	"log"
	"time"

	"portfolio/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormStore keeps documents in SQL tables. The *gorm.DB should be opened with
// TranslateError enabled so unique violations surface as ErrDuplicate.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenGorm opens a GormStore on the given dialector with error translation
// switched on.
func OpenGorm(dialector gorm.Dialector) (*GormStore, error) {
	return openGorm(dialector, log.Default())
}

func openGorm(dialector gorm.Dialector, w logger.Writer) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(w),
	})
	if err != nil {
		return nil, err
	}
	return NewGormStore(db), nil
}

// newGormLogger logs slow queries and errors. Missing rows are an expected
// outcome of lookups such as the username check on register, so they stay quiet.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func (s *GormStore) Users() UserStore { return gormUsers{db: s.db} }

func (s *GormStore) Posts() Collection[models.Post] {
	return gormCollection[models.Post, *models.Post]{db: s.db}
}

func (s *GormStore) Projects() Collection[models.Project] {
	return gormCollection[models.Project, *models.Project]{db: s.db}
}

// Migrate runs the database migrations
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Post{}, &models.Project{})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

type gormUsers struct {
	db *gorm.DB
}

func (u gormUsers) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return translate(u.db.WithContext(ctx).Create(user).Error)
}

func (u gormUsers) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u gormUsers) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

type gormCollection[T any, P models.EntityPtr[T]] struct {
	db *gorm.DB
}

func (c gormCollection[T, P]) Insert(ctx context.Context, doc *T) error {
	P(doc).SetID(uuid.NewString())
	return translate(c.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error)
}

func (c gormCollection[T, P]) Save(ctx context.Context, doc *T) error {
	res := c.db.WithContext(ctx).
		Model(doc).
		Omit(clause.Associations).
		Select("*").
		Updates(doc)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c gormCollection[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := c.db.WithContext(ctx).Preload("Author").First(&doc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (c gormCollection[T, P]) Recent(ctx context.Context, limit int) ([]*T, error) {
	var docs []*T
	err := c.db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

func (c gormCollection[T, P]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
