package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/types"
)

type ContentSyncInput struct {
	ContentType types.ContentType
	ContentID   uuid.UUID
	Title       string
	Category    string
	Tags        []string
	CreatedAt   *time.Time
}

// ContentService maintains the weak-reference projection of externally owned
// content and resolves display titles against it.
type ContentService interface {
	Sync(ctx context.Context, in ContentSyncInput) (*types.ContentItem, error)
}

type contentService struct {
	db    *gorm.DB
	log   *logger.Logger
	items repos.ContentItemRepo
}

func NewContentService(db *gorm.DB, baseLog *logger.Logger, itemRepo repos.ContentItemRepo) ContentService {
	return &contentService{
		db:    db,
		log:   baseLog.With("service", "ContentService"),
		items: itemRepo,
	}
}

func (s *contentService) Sync(ctx context.Context, in ContentSyncInput) (*types.ContentItem, error) {
	if !in.ContentType.Valid() {
		return nil, fmt.Errorf("invalid content_type %q", in.ContentType)
	}
	if in.ContentID == uuid.Nil {
		return nil, fmt.Errorf("content_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	tags := datatypes.JSON([]byte("[]"))
	if len(in.Tags) > 0 {
		raw, err := json.Marshal(in.Tags)
		if err != nil {
			return nil, err
		}
		tags = datatypes.JSON(raw)
	}

	now := time.Now().UTC()
	row := &types.ContentItem{
		ID:              uuid.New(),
		ContentType:     in.ContentType,
		ContentID:       in.ContentID,
		Title:           strings.TrimSpace(in.Title),
		Category:        strings.TrimSpace(in.Category),
		Tags:            tags,
		SourceCreatedAt: in.CreatedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.items.Upsert(ctx, nil, row)
}
