// Package quest tracks objective progress and hands out quest rewards.
// Gameplay reports typed events; each event is matched structurally
// against the objectives of every active quest.
package quest

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUnknownQuest  = errors.New("quest: unknown quest")
	ErrNotAvailable  = errors.New("quest: not available")
	ErrNotActive     = errors.New("quest: not active")
	ErrNotComplete   = errors.New("quest: objectives not met")
	ErrAlreadyActive = errors.New("quest: already active")
)

// EventKind enumerates what gameplay can report.
type EventKind int

const (
	EventMonsterKilled EventKind = iota + 1
	EventBossKilled
	EventDungeonCleared
	EventAdventureDone
	EventWorkDone
	EventItemCrafted
	EventGuildJoined
	EventLevelReached
	EventGoldEarned
	EventItemGained
)

// Event is one gameplay occurrence. Amount defaults to 1 for counting
// events; for EventLevelReached and EventGoldEarned it carries the
// absolute level or lifetime gold figure.
type Event struct {
	Kind      EventKind
	Monster   string
	Item      string
	Equipment bool
	Amount    int
}

// Service handles quest state.
type Service struct {
	db      *gorm.DB
	players *player.Service
	bags    *inventory.Service
	logger  *zap.Logger
}

// NewService creates a quest Service.
func NewService(db *gorm.DB, players *player.Service, bags *inventory.Service, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, bags: bags, logger: logger}
}

// ActiveQuest is one running quest with its decoded progress.
type ActiveQuest struct {
	Quest    refdata.Quest  `json:"quest"`
	Progress map[string]int `json:"progress"`
	Done     bool           `json:"done"`
}

// Available lists the quests the player could accept right now:
// level reached, prerequisites done, not active, and not completed
// within the blocking window.
func (svc *Service) Available(ctx context.Context, p *model.Player, now time.Time) ([]refdata.Quest, error) {
	active, err := svc.activeIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	done, err := svc.completions(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var out []refdata.Quest
	for _, q := range refdata.Quests {
		if p.Level < q.RequiredLevel {
			continue
		}
		if active[q.ID] {
			continue
		}
		if at, ok := done[q.ID]; ok && blocksRepeat(q, at, now) {
			continue
		}
		ok := true
		for _, pre := range q.Prereqs {
			if _, completed := done[pre]; !completed {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequiredLevel != out[j].RequiredLevel {
			return out[i].RequiredLevel < out[j].RequiredLevel
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Accept starts a quest.
func (svc *Service) Accept(ctx context.Context, p *model.Player, questID string, now time.Time) error {
	q, ok := refdata.Quests[questID]
	if !ok {
		return ErrUnknownQuest
	}

	var existing model.QuestProgress
	err := svc.db.WithContext(ctx).Where("player_id = ? AND quest_id = ?", p.ID, questID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyActive
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	avail, err := svc.Available(ctx, p, now)
	if err != nil {
		return err
	}
	found := false
	for _, a := range avail {
		if a.ID == q.ID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotAvailable
	}

	empty, _ := json.Marshal(map[string]int{})
	return svc.db.WithContext(ctx).Create(&model.QuestProgress{
		PlayerID: p.ID,
		QuestID:  questID,
		Progress: datatypes.JSON(empty),
	}).Error
}

// Active returns every running quest with decoded progress.
func (svc *Service) Active(ctx context.Context, p *model.Player) ([]ActiveQuest, error) {
	var rows []model.QuestProgress
	if err := svc.db.WithContext(ctx).Where("player_id = ?", p.ID).
		Order("started_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ActiveQuest, 0, len(rows))
	for _, row := range rows {
		q, ok := refdata.Quests[row.QuestID]
		if !ok {
			continue
		}
		progress := decodeProgress(row.Progress)
		out = append(out, ActiveQuest{
			Quest:    q,
			Progress: progress,
			Done:     objectivesMet(q, progress),
		})
	}
	return out, nil
}

// Record applies gameplay events to every active quest and returns the
// IDs of quests whose objectives are now all met. Rewards are not paid
// here; completion is an explicit step.
func (svc *Service) Record(ctx context.Context, p *model.Player, events ...Event) ([]string, error) {
	var rows []model.QuestProgress
	if err := svc.db.WithContext(ctx).Where("player_id = ?", p.ID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var ready []string
	for i := range rows {
		row := &rows[i]
		q, ok := refdata.Quests[row.QuestID]
		if !ok {
			continue
		}
		progress := decodeProgress(row.Progress)
		changed := false
		for _, o := range q.Objectives {
			for _, e := range events {
				next, hit := advance(o, progress[o.Key], e)
				if !hit || next == progress[o.Key] {
					continue
				}
				progress[o.Key] = next
				changed = true
			}
		}
		if changed {
			raw, _ := json.Marshal(progress)
			row.Progress = datatypes.JSON(raw)
			if err := svc.db.WithContext(ctx).Model(row).
				Update("progress", row.Progress).Error; err != nil {
				return nil, err
			}
		}
		if objectivesMet(q, progress) {
			ready = append(ready, q.ID)
		}
	}
	sort.Strings(ready)
	return ready, nil
}

// CompleteResult is a quest turn-in.
type CompleteResult struct {
	QuestID   string           `json:"quest_id"`
	Reward    refdata.Reward   `json:"reward"`
	LevelUps  []player.LevelUp `json:"level_ups,omitempty"`
	NextQuest string           `json:"next_quest,omitempty"`
}

// Complete turns in a quest whose objectives are all met: pays the
// reward once, records the completion and removes the progress row.
// The follow-up quest of a chain is accepted automatically when the
// player already qualifies for it.
func (svc *Service) Complete(ctx context.Context, p *model.Player, questID string, now time.Time) (*CompleteResult, error) {
	q, ok := refdata.Quests[questID]
	if !ok {
		return nil, ErrUnknownQuest
	}
	var row model.QuestProgress
	err := svc.db.WithContext(ctx).Where("player_id = ? AND quest_id = ?", p.ID, questID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotActive
	}
	if err != nil {
		return nil, err
	}
	if !objectivesMet(q, decodeProgress(row.Progress)) {
		return nil, ErrNotComplete
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		var done model.QuestCompletion
		err := tx.Where("player_id = ? AND quest_id = ?", p.ID, questID).First(&done).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.QuestCompletion{
				PlayerID: p.ID, QuestID: questID, CompletedAt: now,
			}).Error
		}
		if err != nil {
			return err
		}
		// Repeatable quests reuse their completion row.
		return tx.Model(&done).Update("completed_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	res := &CompleteResult{QuestID: questID, Reward: q.Reward}
	if q.Reward.Gold > 0 {
		if err := svc.players.AddGold(ctx, p, q.Reward.Gold); err != nil {
			return nil, err
		}
	}
	if q.Reward.Gems > 0 {
		if err := svc.players.AddGems(ctx, p, q.Reward.Gems); err != nil {
			return nil, err
		}
	}
	for item, qty := range q.Reward.Items {
		if err := svc.bags.Add(ctx, p.ID, item, qty); err != nil {
			return nil, err
		}
	}
	if q.Reward.XP > 0 {
		prog, err := svc.players.AddXP(ctx, p, q.Reward.XP)
		if err != nil {
			return nil, err
		}
		res.LevelUps = prog.LevelUps
	}
	if err := svc.players.IncrStats(ctx, p, player.StatDeltas{Quests: 1}); err != nil {
		return nil, err
	}

	if q.NextQuest != "" {
		res.NextQuest = q.NextQuest
		if err := svc.Accept(ctx, p, q.NextQuest, now); err != nil && !errors.Is(err, ErrNotAvailable) {
			svc.logger.Warn("chain accept failed",
				zap.String("quest", q.NextQuest), zap.Error(err))
		}
	}

	svc.logger.Info("quest completed",
		zap.Int64("player", p.ID), zap.String("quest", questID))
	return res, nil
}

func (svc *Service) activeIDs(ctx context.Context, playerID int64) (map[string]bool, error) {
	var rows []model.QuestProgress
	if err := svc.db.WithContext(ctx).Select("quest_id").
		Where("player_id = ?", playerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.QuestID] = true
	}
	return out, nil
}

func (svc *Service) completions(ctx context.Context, playerID int64) (map[string]time.Time, error) {
	var rows []model.QuestCompletion
	if err := svc.db.WithContext(ctx).Where("player_id = ?", playerID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		out[r.QuestID] = r.CompletedAt
	}
	return out, nil
}

// advance computes the next progress value for one objective given one
// event. Counting objectives increment and clamp; milestone objectives
// track the reported absolute value.
func advance(o refdata.Objective, current int, e Event) (int, bool) {
	amount := e.Amount
	if amount <= 0 {
		amount = 1
	}
	bump := func() (int, bool) {
		next := current + amount
		if next > o.Count {
			next = o.Count
		}
		return next, true
	}
	track := func() (int, bool) {
		next := e.Amount
		if next > o.Count {
			next = o.Count
		}
		if next < current {
			next = current
		}
		return next, true
	}

	switch o.Kind {
	case refdata.ObjHuntMonsters:
		if e.Kind == EventMonsterKilled {
			return bump()
		}
	case refdata.ObjKillMonster:
		if e.Kind == EventMonsterKilled && e.Monster == o.Target {
			return bump()
		}
	case refdata.ObjKillBoss:
		if e.Kind == EventBossKilled {
			return bump()
		}
	case refdata.ObjCompleteDungeon:
		if e.Kind == EventDungeonCleared {
			return bump()
		}
	case refdata.ObjCompleteAdventure:
		if e.Kind == EventAdventureDone {
			return bump()
		}
	case refdata.ObjWorkCount:
		if e.Kind == EventWorkDone {
			return bump()
		}
	case refdata.ObjCraftItems:
		if e.Kind == EventItemCrafted {
			return bump()
		}
	case refdata.ObjCraftEquipment:
		if e.Kind == EventItemCrafted && e.Equipment {
			return bump()
		}
	case refdata.ObjJoinGuild:
		if e.Kind == EventGuildJoined {
			return bump()
		}
	case refdata.ObjReachLevel:
		if e.Kind == EventLevelReached {
			return track()
		}
	case refdata.ObjTotalGoldEarned:
		if e.Kind == EventGoldEarned {
			return track()
		}
	case refdata.ObjCollectItem:
		if e.Kind == EventItemGained && e.Item == o.Target {
			return bump()
		}
	}
	return current, false
}

func objectivesMet(q refdata.Quest, progress map[string]int) bool {
	for _, o := range q.Objectives {
		if progress[o.Key] < o.Count {
			return false
		}
	}
	return true
}

func decodeProgress(raw datatypes.JSON) map[string]int {
	progress := make(map[string]int)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &progress)
	}
	return progress
}

// blocksRepeat reports whether an earlier completion still blocks the
// quest at the given time. Non-repeatable quests block forever; dailies
// reset at UTC midnight, weeklies on the ISO week.
func blocksRepeat(q refdata.Quest, completedAt, now time.Time) bool {
	switch q.Type {
	case refdata.QuestDaily:
		cy, cm, cd := completedAt.UTC().Date()
		ny, nm, nd := now.UTC().Date()
		return cy == ny && cm == nm && cd == nd
	case refdata.QuestWeekly:
		cy, cw := completedAt.UTC().ISOWeek()
		ny, nw := now.UTC().ISOWeek()
		return cy == ny && cw == nw
	}
	return true
}
