package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/models/entities"
	gormModels "trainingorg/quizdesk/internal/models/gorm"

	"gorm.io/gorm"
)

var ErrMemberNotFound = errors.New("member not found")

// memberSortColumns is the allowlist for ?sort=.
var memberSortColumns = map[string]string{
	"name":          "name",
	"member_id":     "member_id",
	"created_at":    "created_at",
	"classes_count": "classes_count",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// List returns one page of members matching filter plus the unpaged total.
func (r *MemberRepository) List(ctx context.Context, filter dtos.MemberListFilter) ([]gormModels.Member, int64, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Member{})

	if s := strings.TrimSpace(filter.Query); s != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(member_id) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if filter.LevelID != nil {
		q = q.Where("level_id = ?", *filter.LevelID)
	}
	if filter.CoachID != nil {
		q = q.Where("coach_id = ?", *filter.CoachID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	column, ok := memberSortColumns[filter.Sort]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if strings.EqualFold(filter.Order, "desc") {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	if limit > constants.MaxListLimit {
		limit = constants.MaxListLimit
	}

	var members []gormModels.Member
	err := q.Preload("Level").Preload("Coach").
		Order(column + " " + direction).Order("id").
		Limit(limit).Offset(filter.Offset).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id uint) (*gormModels.Member, error) {
	var member gormModels.Member
	err := r.db.WithContext(ctx).Preload("Level").Preload("Coach").First(&member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	return &member, nil
}

func (r *MemberRepository) Create(ctx context.Context, member *gormModels.Member) error {
	if err := r.db.WithContext(ctx).Omit("Level", "Coach").Create(member).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// Update writes every editable column, including NULL foreign keys.
func (r *MemberRepository) Update(ctx context.Context, member *gormModels.Member) error {
	res := r.db.WithContext(ctx).
		Model(member).
		Select("member_id", "name", "level_id", "classes_count", "coach_id", "updated_at").
		Updates(member)
	if res.Error != nil {
		return fmt.Errorf("failed to update member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.Member{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Duplicates lists member_ids shared by more than one row, with the row ids.
func (r *MemberRepository) Duplicates(ctx context.Context) ([]entities.DuplicateMemberID, error) {
	var dups []entities.DuplicateMemberID
	if err := r.db.WithContext(ctx).Raw(constants.DuplicateMemberIDs).Scan(&dups).Error; err != nil {
		return nil, fmt.Errorf("failed to find duplicate member ids: %w", err)
	}
	if len(dups) == 0 {
		return []entities.DuplicateMemberID{}, nil
	}

	keys := make([]string, len(dups))
	for i, d := range dups {
		keys[i] = d.MemberID
	}
	var rows []gormModels.Member
	err := r.db.WithContext(ctx).
		Select("id", "member_id").
		Where("member_id IN ?", keys).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load duplicate members: %w", err)
	}

	byKey := make(map[string][]uint, len(dups))
	for _, m := range rows {
		byKey[m.MemberID] = append(byKey[m.MemberID], m.ID)
	}
	for i := range dups {
		dups[i].IDs = byKey[dups[i].MemberID]
	}
	return dups, nil
}
