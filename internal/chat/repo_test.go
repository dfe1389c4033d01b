package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
	"github.com/HAHAtool/ShareBasket/pkg/enums"
)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS groups (
  id TEXT PRIMARY KEY,
  creator_id TEXT NOT NULL,
  creator_nickname TEXT NOT NULL,
  store_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  total_price INTEGER NOT NULL,
  total_units INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  self_units INTEGER NOT NULL,
  remaining_units INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  has_new_join INTEGER NOT NULL DEFAULT 0,
  last_chat_read_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS group_members (
  group_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  nickname TEXT NOT NULL,
  last_chat_read_at DATETIME,
  created_at DATETIME,
  PRIMARY KEY (group_id, user_id)
);`,
		`CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  group_id TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  sender_nickname TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedChatGroup(t *testing.T, db *gorm.DB) models.Group {
	t.Helper()
	group := models.Group{
		ID:              uuid.New(),
		CreatorID:       uuid.New(),
		CreatorNickname: "amy",
		StoreID:         uuid.New(),
		ItemName:        "roast chicken",
		TotalPrice:      259,
		TotalUnits:      12,
		UnitPrice:       44,
		SelfUnits:       2,
		RemainingUnits:  5,
		Status:          enums.GroupStatusActive,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func seedMessage(t *testing.T, db *gorm.DB, groupID uuid.UUID, body string, at time.Time) models.Message {
	t.Helper()
	msg := models.Message{
		ID:             uuid.New(),
		GroupID:        groupID,
		SenderID:       uuid.New(),
		SenderNickname: "bob",
		Body:           body,
		CreatedAt:      at,
	}
	require.NoError(t, db.Create(&msg).Error)
	return msg
}

func TestRepository_ListSinceOrdersAndFilters(t *testing.T) {
	db := setupChatTestDB(t)
	group := seedChatGroup(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seedMessage(t, db, group.ID, "first", base)
	second := seedMessage(t, db, group.ID, "second", base.Add(time.Minute))
	third := seedMessage(t, db, group.ID, "third", base.Add(2*time.Minute))

	other := seedChatGroup(t, db)
	seedMessage(t, db, other.ID, "elsewhere", base.Add(time.Minute))

	rows, err := repo.ListSince(ctx, group.ID, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Body)
	assert.Equal(t, "third", rows[2].Body)

	rows, err = repo.ListSince(ctx, group.ID, second.CreatedAt, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, third.ID, rows[0].ID)

	rows, err = repo.ListSince(ctx, group.ID, time.Time{}, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRepository_LatestMessageAt(t *testing.T) {
	db := setupChatTestDB(t)
	group := seedChatGroup(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	latest, err := repo.LatestMessageAt(ctx, group.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	newest := time.Now().Truncate(time.Second)
	seedMessage(t, db, group.ID, "old", newest.Add(-time.Hour))
	seedMessage(t, db, group.ID, "new", newest)

	latest, err = repo.LatestMessageAt(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.WithinDuration(t, newest, *latest, time.Second)
}

func TestRepository_Watermarks(t *testing.T) {
	db := setupChatTestDB(t)
	group := seedChatGroup(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	memberID := uuid.New()
	require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, UserID: memberID, Nickname: "bob"}).Error)

	at := time.Now().Truncate(time.Second)

	updated, err := repo.SetCreatorWatermark(ctx, group.ID, group.CreatorID, at)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	updated, err = repo.SetCreatorWatermark(ctx, group.ID, uuid.New(), at)
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)

	updated, err = repo.SetMemberWatermark(ctx, group.ID, memberID, at)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	got, err := repo.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastChatReadAt)
	assert.WithinDuration(t, at, *got.LastChatReadAt, time.Second)

	member, err := repo.GetMember(ctx, group.ID, memberID)
	require.NoError(t, err)
	require.NotNil(t, member.LastChatReadAt)
}
