// Package daily covers the once-a-day claim with its streak table and
// the rotating daily challenge set.
package daily

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAlreadyClaimed   = errors.New("daily: already claimed today")
	ErrUnknownChallenge = errors.New("daily: challenge not in today's set")
	ErrChallengeNotMet  = errors.New("daily: challenge requirement not met")
	ErrChallengeClaimed = errors.New("daily: challenge already claimed")
)

// Service handles the daily reward and challenge state.
type Service struct {
	db      *gorm.DB
	players *player.Service
	bags    *inventory.Service
	cfg     config.GameConfig
	mu      sync.Mutex
	rng     *rand.Rand
	logger  *zap.Logger
}

// NewService creates a daily Service.
func NewService(db *gorm.DB, players *player.Service, bags *inventory.Service, cfg config.GameConfig, rng *rand.Rand, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, bags: bags, cfg: cfg, rng: rng, logger: logger}
}

// ClaimResult is one daily claim.
type ClaimResult struct {
	Streak   int                 `json:"streak"`
	Reward   refdata.DailyReward `json:"reward"`
	Bonus    refdata.LoginBonus  `json:"bonus"`
	LevelUps []player.LevelUp    `json:"level_ups,omitempty"`
}

// Claim hands out the streak reward for today. Consecutive calendar
// days (UTC) extend the streak up to the cap; a missed day resets it
// to one. A second claim on the same day fails.
func (svc *Service) Claim(ctx context.Context, p *model.Player, now time.Time) (*ClaimResult, error) {
	if p.LastDaily != nil && sameDay(*p.LastDaily, now) {
		return nil, ErrAlreadyClaimed
	}

	streak := 1
	if p.LastDaily != nil && sameDay(p.LastDaily.Add(24*time.Hour), now) {
		streak = p.DailyStreak + 1
		if streak > svc.cfg.DailyStreakCap {
			streak = svc.cfg.DailyStreakCap
		}
	}

	reward := refdata.RewardForStreak(streak)
	bonus := refdata.LoginBonusFor(p.Level)
	res := &ClaimResult{Streak: streak, Reward: reward, Bonus: bonus}

	if err := svc.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"last_daily":   now,
		"daily_streak": streak,
	}).Error; err != nil {
		return nil, err
	}
	p.LastDaily = &now
	p.DailyStreak = streak

	if err := svc.players.AddGold(ctx, p, reward.Gold+bonus.Gold); err != nil {
		return nil, err
	}
	if err := svc.players.AddGems(ctx, p, reward.Gems+bonus.Gems); err != nil {
		return nil, err
	}
	for item, qty := range reward.Items {
		if err := svc.bags.Add(ctx, p.ID, item, qty); err != nil {
			return nil, err
		}
	}
	if bonus.XP > 0 {
		prog, err := svc.players.AddXP(ctx, p, bonus.XP)
		if err != nil {
			return nil, err
		}
		res.LevelUps = prog.LevelUps
	}

	svc.logger.Info("daily claimed",
		zap.Int64("player", p.ID), zap.Int("streak", streak))
	return res, nil
}

// ChallengeStatus is one challenge from today's set with the player's
// standing.
type ChallengeStatus struct {
	Challenge refdata.Challenge `json:"challenge"`
	Progress  int               `json:"progress"`
	Done      bool              `json:"done"`
	Claimed   bool              `json:"claimed"`
}

// Challenges returns today's challenge set, drawing a fresh one when
// the stored set belongs to an earlier day.
func (svc *Service) Challenges(ctx context.Context, p *model.Player, now time.Time) ([]ChallengeStatus, error) {
	if err := svc.ensureSet(ctx, p, now); err != nil {
		return nil, err
	}
	set := decodeStrings(p.ChallengeSet)
	progress := decodeInts(p.ChallengeProgress)
	claimed := decodeStrings(p.ChallengesDone)

	claimedSet := make(map[string]bool, len(claimed))
	for _, id := range claimed {
		claimedSet[id] = true
	}

	out := make([]ChallengeStatus, 0, len(set))
	for _, id := range set {
		c, ok := refdata.ChallengeByID(id)
		if !ok {
			continue
		}
		out = append(out, ChallengeStatus{
			Challenge: c,
			Progress:  progress[id],
			Done:      progress[id] >= c.Requirement,
			Claimed:   claimedSet[id],
		})
	}
	return out, nil
}

// Record advances today's challenges of the given kind. Amount
// defaults to 1.
func (svc *Service) Record(ctx context.Context, p *model.Player, kind refdata.ChallengeKind, amount int, now time.Time) error {
	if err := svc.ensureSet(ctx, p, now); err != nil {
		return err
	}
	if amount <= 0 {
		amount = 1
	}

	set := decodeStrings(p.ChallengeSet)
	progress := decodeInts(p.ChallengeProgress)
	changed := false
	for _, id := range set {
		c, ok := refdata.ChallengeByID(id)
		if !ok || c.Kind != kind {
			continue
		}
		if progress[id] >= c.Requirement {
			continue
		}
		next := progress[id] + amount
		if next > c.Requirement {
			next = c.Requirement
		}
		progress[id] = next
		changed = true
	}
	if !changed {
		return nil
	}

	raw, _ := json.Marshal(progress)
	p.ChallengeProgress = datatypes.JSON(raw)
	return svc.db.WithContext(ctx).Model(p).
		Update("challenge_progress", p.ChallengeProgress).Error
}

// ChallengeClaim is one claimed challenge reward.
type ChallengeClaim struct {
	ChallengeID string           `json:"challenge_id"`
	Reward      refdata.Reward   `json:"reward"`
	LevelUps    []player.LevelUp `json:"level_ups,omitempty"`
}

// ClaimChallenge pays out one completed challenge, once per day.
func (svc *Service) ClaimChallenge(ctx context.Context, p *model.Player, challengeID string, now time.Time) (*ChallengeClaim, error) {
	if err := svc.ensureSet(ctx, p, now); err != nil {
		return nil, err
	}
	set := decodeStrings(p.ChallengeSet)
	inSet := false
	for _, id := range set {
		if id == challengeID {
			inSet = true
			break
		}
	}
	c, ok := refdata.ChallengeByID(challengeID)
	if !inSet || !ok {
		return nil, ErrUnknownChallenge
	}

	progress := decodeInts(p.ChallengeProgress)
	if progress[challengeID] < c.Requirement {
		return nil, ErrChallengeNotMet
	}
	claimed := decodeStrings(p.ChallengesDone)
	for _, id := range claimed {
		if id == challengeID {
			return nil, ErrChallengeClaimed
		}
	}

	claimed = append(claimed, challengeID)
	raw, _ := json.Marshal(claimed)
	p.ChallengesDone = datatypes.JSON(raw)
	if err := svc.db.WithContext(ctx).Model(p).
		Update("challenges_done", p.ChallengesDone).Error; err != nil {
		return nil, err
	}

	res := &ChallengeClaim{ChallengeID: challengeID, Reward: c.Reward}
	if c.Reward.Gold > 0 {
		if err := svc.players.AddGold(ctx, p, c.Reward.Gold); err != nil {
			return nil, err
		}
	}
	if c.Reward.Gems > 0 {
		if err := svc.players.AddGems(ctx, p, c.Reward.Gems); err != nil {
			return nil, err
		}
	}
	for item, qty := range c.Reward.Items {
		if err := svc.bags.Add(ctx, p.ID, item, qty); err != nil {
			return nil, err
		}
	}
	if c.Reward.XP > 0 {
		prog, err := svc.players.AddXP(ctx, p, c.Reward.XP)
		if err != nil {
			return nil, err
		}
		res.LevelUps = prog.LevelUps
	}
	return res, nil
}

// ensureSet draws a fresh challenge set when the stored one is stale.
func (svc *Service) ensureSet(ctx context.Context, p *model.Player, now time.Time) error {
	if p.ChallengeDate != nil && sameDay(*p.ChallengeDate, now) && len(p.ChallengeSet) > 0 {
		return nil
	}

	svc.mu.Lock()
	picks := svc.rng.Perm(len(refdata.Challenges))
	svc.mu.Unlock()

	n := svc.cfg.DailyChallengeSize
	if n > len(picks) {
		n = len(picks)
	}
	set := make([]string, 0, n)
	for _, idx := range picks[:n] {
		set = append(set, refdata.Challenges[idx].ID)
	}

	rawSet, _ := json.Marshal(set)
	rawProgress, _ := json.Marshal(map[string]int{})
	rawDone, _ := json.Marshal([]string{})

	p.ChallengeDate = &now
	p.ChallengeSet = datatypes.JSON(rawSet)
	p.ChallengeProgress = datatypes.JSON(rawProgress)
	p.ChallengesDone = datatypes.JSON(rawDone)

	return svc.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"challenge_date":     now,
		"challenge_set":      p.ChallengeSet,
		"challenge_progress": p.ChallengeProgress,
		"challenges_done":    p.ChallengesDone,
	}).Error
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func decodeStrings(raw datatypes.JSON) []string {
	var out []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func decodeInts(raw datatypes.JSON) map[string]int {
	out := make(map[string]int)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}
