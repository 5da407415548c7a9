package guild

import (
	"context"
	"testing"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *player.Service, *gorm.DB, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	players := player.NewService(db, testutil.SetupTestCache(t), config.Default().Game, zap.NewNop())
	return NewService(db, players, config.Default().Game, zap.NewNop()), players, db, context.Background()
}

func seedFounder(t *testing.T, db *gorm.DB, externalID, name string) *model.Player {
	t.Helper()
	p := testutil.SeedPlayer(t, db, externalID, name)
	p.Level = 5
	p.Gold = 2000
	require.NoError(t, db.Model(p).Updates(map[string]interface{}{"level": 5, "gold": 2000}).Error)
	return p
}

func TestCreateChargesFeeAndMakesLeader(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	p := seedFounder(t, db, "u1", "Alice")

	g, err := svc.Create(ctx, p, "Dragonsworn", "DRG", "slayers of big lizards")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), p.Gold)
	assert.Equal(t, model.GuildRankLeader, p.GuildRank)
	require.NotNil(t, p.GuildID)
	assert.Equal(t, g.ID, *p.GuildID)
	assert.Equal(t, p.ID, g.LeaderID)

	members, err := svc.Members(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, model.GuildRankLeader, members[0].Rank)
}

func TestCreateGates(t *testing.T) {
	svc, _, db, ctx := newTestService(t)

	low := testutil.SeedPlayer(t, db, "u1", "Lowbie")
	_, err := svc.Create(ctx, low, "Newbies", "NEW", "")
	assert.ErrorIs(t, err, ErrLevelTooLow)

	poor := testutil.SeedPlayer(t, db, "u2", "Poor")
	poor.Level = 5
	require.NoError(t, db.Model(poor).Update("level", 5).Error)
	_, err = svc.Create(ctx, poor, "Paupers", "PPR", "")
	assert.ErrorIs(t, err, player.ErrInsufficientGold)

	founder := seedFounder(t, db, "u3", "Alice")
	_, err = svc.Create(ctx, founder, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	second := seedFounder(t, db, "u4", "Bob")
	_, err = svc.Create(ctx, second, "Dragonsworn", "XYZ", "")
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = svc.Create(ctx, second, "Other Name", "DRG", "")
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = svc.Create(ctx, founder, "Twice", "TWC", "")
	assert.ErrorIs(t, err, ErrAlreadyInGuild)
}

func TestJoinAndMinLevel(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	founder := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, founder, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	require.NoError(t, svc.SetMinLevel(ctx, founder, 3))

	low := testutil.SeedPlayer(t, db, "u2", "Lowbie")
	assert.ErrorIs(t, svc.Join(ctx, low, g.ID), ErrLevelTooLow)

	member := seedFounder(t, db, "u3", "Bob")
	require.NoError(t, svc.Join(ctx, member, g.ID))
	assert.Equal(t, model.GuildRankMember, member.GuildRank)
	assert.ErrorIs(t, svc.Join(ctx, member, g.ID), ErrAlreadyInGuild)
}

func TestKickRequiresRankDominance(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	leader := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	officer := seedFounder(t, db, "u2", "Bob")
	grunt := seedFounder(t, db, "u3", "Cara")
	require.NoError(t, svc.Join(ctx, officer, g.ID))
	require.NoError(t, svc.Join(ctx, grunt, g.ID))
	require.NoError(t, svc.SetRank(ctx, leader, officer.ID, model.GuildRankOfficer))
	officer.GuildRank = model.GuildRankOfficer

	// A member cannot kick anyone.
	assert.ErrorIs(t, svc.Kick(ctx, grunt, officer.ID), ErrNoPermission)
	// An officer cannot kick a peer officer.
	other := seedFounder(t, db, "u4", "Dave")
	require.NoError(t, svc.Join(ctx, other, g.ID))
	require.NoError(t, svc.SetRank(ctx, leader, other.ID, model.GuildRankOfficer))
	assert.ErrorIs(t, svc.Kick(ctx, officer, other.ID), ErrNoPermission)
	// An officer can kick a member.
	require.NoError(t, svc.Kick(ctx, officer, grunt.ID))

	var fresh model.Player
	require.NoError(t, db.First(&fresh, grunt.ID).Error)
	assert.Nil(t, fresh.GuildID)
	assert.Zero(t, fresh.GuildRank)
}

func TestSetRankLeaderOnly(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	leader := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	member := seedFounder(t, db, "u2", "Bob")
	require.NoError(t, svc.Join(ctx, member, g.ID))

	assert.ErrorIs(t, svc.SetRank(ctx, member, leader.ID, model.GuildRankOfficer), ErrNoPermission)
	assert.ErrorIs(t, svc.SetRank(ctx, leader, leader.ID, model.GuildRankOfficer), ErrNoPermission)
	assert.ErrorIs(t, svc.SetRank(ctx, leader, member.ID, model.GuildRankLeader), ErrNoPermission)
	assert.ErrorIs(t, svc.SetRank(ctx, leader, 99999, model.GuildRankOfficer), ErrNotMember)
	require.NoError(t, svc.SetRank(ctx, leader, member.ID, model.GuildRankOfficer))
}

func TestLeaveSuccession(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	leader := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	officer := seedFounder(t, db, "u2", "Bob")
	grunt := seedFounder(t, db, "u3", "Cara")
	require.NoError(t, svc.Join(ctx, officer, g.ID))
	require.NoError(t, svc.Join(ctx, grunt, g.ID))
	require.NoError(t, svc.SetRank(ctx, leader, officer.ID, model.GuildRankOfficer))

	// Officer outranks the earlier-joined member for succession.
	require.NoError(t, svc.Leave(ctx, leader))

	fresh, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, officer.ID, fresh.LeaderID)

	var heir model.Player
	require.NoError(t, db.First(&heir, officer.ID).Error)
	assert.Equal(t, model.GuildRankLeader, heir.GuildRank)
}

func TestLeaveLastMemberDisbands(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	leader := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, leader))
	_, err = svc.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Leave(ctx, leader), ErrNotInGuild)
}

func TestContributeFeedsTreasuryAndLevels(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	leader := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	leader.Gold = 5000
	require.NoError(t, db.Model(leader).Update("gold", 5000).Error)

	res, err := svc.Contribute(ctx, leader, 400, "")
	require.NoError(t, err)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.NewLevel)
	assert.Equal(t, int64(4600), leader.Gold)

	// Crossing 1000 total XP levels the guild and grows its perks.
	res, err = svc.Contribute(ctx, leader, 700, "")
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)

	fresh, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), fresh.Treasury)
	assert.Equal(t, int64(1100), fresh.XP)
	assert.Equal(t, 25, fresh.MaxMembers)
	assert.InDelta(t, 0.05, fresh.XPBonus, 1e-9)
	assert.InDelta(t, 0.02, fresh.ShopDiscount, 1e-9)

	members, err := svc.Members(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), members[0].Contribution)
}

func TestContributeReceiptIdempotent(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	leader := seedFounder(t, db, "u1", "Alice")
	g, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)

	res, err := svc.Contribute(ctx, leader, 200, "receipt-1")
	require.NoError(t, err)
	assert.Equal(t, "receipt-1", res.ReceiptID)
	goldAfter := leader.Gold

	// Replaying the receipt neither debits nor credits again.
	_, err = svc.Contribute(ctx, leader, 200, "receipt-1")
	require.NoError(t, err)
	assert.Equal(t, goldAfter, leader.Gold)

	fresh, err := svc.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), fresh.Treasury)
}

func TestContributeValidation(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	loner := seedFounder(t, db, "u1", "Alice")
	_, err := svc.Contribute(ctx, loner, 100, "")
	assert.ErrorIs(t, err, ErrNotInGuild)

	_, err = svc.Create(ctx, loner, "Dragonsworn", "DRG", "")
	require.NoError(t, err)
	_, err = svc.Contribute(ctx, loner, 0, "")
	assert.ErrorIs(t, err, ErrBadAmount)
	_, err = svc.Contribute(ctx, loner, 99999, "")
	assert.ErrorIs(t, err, player.ErrInsufficientGold)
}

func TestPerksAndApplyReward(t *testing.T) {
	svc, _, db, ctx := newTestService(t)
	loner := testutil.SeedPlayer(t, db, "u0", "Solo")
	xp, gold := svc.ApplyReward(ctx, loner, 100, 100)
	assert.Equal(t, 100, xp)
	assert.Equal(t, int64(100), gold)

	leader := seedFounder(t, db, "u1", "Alice")
	_, err := svc.Create(ctx, leader, "Dragonsworn", "DRG", "")
	require.NoError(t, err)
	leader.Gold = 5000
	require.NoError(t, db.Model(leader).Update("gold", 5000).Error)
	_, err = svc.Contribute(ctx, leader, 1000, "")
	require.NoError(t, err)

	xpMult, goldMult, discount := svc.Perks(ctx, leader)
	assert.InDelta(t, 1.05, xpMult, 1e-9)
	assert.InDelta(t, 1.05, goldMult, 1e-9)
	assert.InDelta(t, 0.02, discount, 1e-9)

	xp, gold = svc.ApplyReward(ctx, leader, 100, 100)
	assert.Equal(t, 105, xp)
	assert.Equal(t, int64(105), gold)
}
