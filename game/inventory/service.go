// Package inventory handles bag stacks, equipment slots and the sell
// side of the shop.
package inventory

import (
	"context"
	"errors"

	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnknownItem   = errors.New("inventory: unknown item")
	ErrNotEnough     = errors.New("inventory: not enough items")
	ErrNotEquippable = errors.New("inventory: item cannot be equipped")
	ErrSlotEmpty     = errors.New("inventory: slot is empty")
	ErrBadSlot       = errors.New("inventory: unknown slot")
)

// Service handles all bag operations.
type Service struct {
	db      *gorm.DB
	players *player.Service
	logger  *zap.Logger
}

// NewService creates an inventory Service.
func NewService(db *gorm.DB, players *player.Service, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, logger: logger}
}

// Add puts qty of a catalog item into the player's bag, stacking onto
// an existing row when one exists.
func (svc *Service) Add(ctx context.Context, playerID int64, itemName string, qty int) error {
	if qty <= 0 {
		return nil
	}
	if !refdata.KnownItem(itemName) {
		return ErrUnknownItem
	}
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stack model.InventoryItem
		err := tx.Where("player_id = ? AND item_name = ?", playerID, itemName).First(&stack).Error
		if err == nil {
			return tx.Model(&stack).Update("qty", gorm.Expr("qty + ?", qty)).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.InventoryItem{
			PlayerID: playerID, ItemName: itemName, Qty: qty,
		}).Error
	})
}

// Remove takes qty of an item out of the bag. The row is deleted when
// the stack hits zero.
func (svc *Service) Remove(ctx context.Context, playerID int64, itemName string, qty int) error {
	if qty <= 0 {
		return nil
	}
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return removeLocked(tx, playerID, itemName, qty)
	})
}

func removeLocked(tx *gorm.DB, playerID int64, itemName string, qty int) error {
	var stack model.InventoryItem
	err := tx.Where("player_id = ? AND item_name = ?", playerID, itemName).First(&stack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotEnough
	}
	if err != nil {
		return err
	}
	if stack.Qty < qty {
		return ErrNotEnough
	}
	if stack.Qty == qty {
		return tx.Delete(&stack).Error
	}
	return tx.Model(&stack).Update("qty", stack.Qty-qty).Error
}

// Count returns how many of one item the player holds.
func (svc *Service) Count(ctx context.Context, playerID int64, itemName string) (int, error) {
	var stack model.InventoryItem
	err := svc.db.WithContext(ctx).Where("player_id = ? AND item_name = ?", playerID, itemName).
		First(&stack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return stack.Qty, err
}

// HasAll reports whether the bag covers every listed requirement.
func (svc *Service) HasAll(ctx context.Context, playerID int64, required map[string]int) (bool, error) {
	for name, need := range required {
		have, err := svc.Count(ctx, playerID, name)
		if err != nil {
			return false, err
		}
		if have < need {
			return false, nil
		}
	}
	return true, nil
}

// ConsumeAll removes every listed requirement in one transaction.
// Nothing is removed when any stack falls short.
func (svc *Service) ConsumeAll(ctx context.Context, playerID int64, required map[string]int) error {
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, need := range required {
			if err := removeLocked(tx, playerID, name, need); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns every stack in the bag, largest first.
func (svc *Service) List(ctx context.Context, playerID int64) ([]model.InventoryItem, error) {
	var stacks []model.InventoryItem
	err := svc.db.WithContext(ctx).Where("player_id = ?", playerID).
		Order("qty DESC, item_name ASC").Find(&stacks).Error
	return stacks, err
}

// Sell trades qty of an item for gold at half catalog value. Returns
// the gold paid out.
func (svc *Service) Sell(ctx context.Context, p *model.Player, itemName string, qty int) (int64, error) {
	var unit int64
	if it, ok := refdata.ItemByName(itemName); ok {
		unit = refdata.SellValue(it)
	} else if c, ok := refdata.Consumables[itemName]; ok {
		unit = c.Price / 2
	} else {
		return 0, ErrUnknownItem
	}
	if qty <= 0 {
		qty = 1
	}
	if err := svc.Remove(ctx, p.ID, itemName, qty); err != nil {
		return 0, err
	}
	payout := unit * int64(qty)
	if err := svc.players.AddGold(ctx, p, payout); err != nil {
		return 0, err
	}
	return payout, nil
}

// EquipResult reports what an equip changed.
type EquipResult struct {
	Slot     string `json:"slot"`
	Equipped string `json:"equipped"`
	Replaced string `json:"replaced,omitempty"`
	Returned bool   `json:"returned"`
}

// Equip moves a bag item into its gear slot. The replaced item's stat
// contribution is unwound and the new item's applied directly to the
// stored player stats. The replaced item goes back to the bag unless
// it is starter gear, which is discarded.
func (svc *Service) Equip(ctx context.Context, p *model.Player, itemName string) (*EquipResult, error) {
	newIt, ok := refdata.ItemByName(itemName)
	if !ok {
		return nil, ErrUnknownItem
	}
	if !newIt.Equippable() {
		return nil, ErrNotEquippable
	}
	slot := newIt.Slot()
	oldName := p.EquippedIn(slot)

	res := &EquipResult{Slot: slot, Equipped: itemName, Replaced: oldName}
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := removeLocked(tx, p.ID, itemName, 1); err != nil {
			return err
		}
		if oldName != "" && !isStarter(oldName) {
			if err := addLocked(tx, p.ID, oldName, 1); err != nil {
				return err
			}
			res.Returned = true
		}
		svc.applyGearSwap(p, slot, oldName, newIt)
		return tx.Model(p).Updates(map[string]interface{}{
			slotColumn(slot): itemName,
			"attack":         p.Attack,
			"defense":        p.Defense,
			"max_hp":         p.MaxHP,
			"hp":             p.HP,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Unequip clears a gear slot and returns the item to the bag. Starter
// gear cannot be unequipped into the bag; it is discarded like on a
// replacement.
func (svc *Service) Unequip(ctx context.Context, p *model.Player, slot string) error {
	col := slotColumn(slot)
	if col == "" {
		return ErrBadSlot
	}
	oldName := p.EquippedIn(slot)
	if oldName == "" {
		return ErrSlotEmpty
	}
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !isStarter(oldName) {
			if err := addLocked(tx, p.ID, oldName, 1); err != nil {
				return err
			}
		}
		svc.applyGearSwap(p, slot, oldName, refdata.Item{})
		return tx.Model(p).Updates(map[string]interface{}{
			col:       "",
			"attack":  p.Attack,
			"defense": p.Defense,
			"max_hp":  p.MaxHP,
			"hp":      p.HP,
		}).Error
	})
}

// applyGearSwap rewrites the stored stat columns for a slot change:
// the outgoing item's contribution is removed and the incoming one's
// added. Extra max HP heals the difference; lost max HP clamps.
func (svc *Service) applyGearSwap(p *model.Player, slot, oldName string, newIt refdata.Item) {
	var oldIt refdata.Item
	if oldName != "" {
		oldIt, _ = refdata.ItemByName(oldName)
	}
	p.Attack += newIt.Attack - oldIt.Attack
	p.Defense += newIt.Defense - oldIt.Defense
	hpDelta := newIt.MaxHP - oldIt.MaxHP
	p.MaxHP += hpDelta
	if hpDelta > 0 {
		p.HP += hpDelta
	}
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	if p.HP < 1 {
		p.HP = 1
	}
	switch slot {
	case model.SlotWeapon:
		p.Weapon = newIt.Name
	case model.SlotArmor:
		p.Armor = newIt.Name
	case model.SlotAccessory:
		p.Accessory = newIt.Name
	case model.SlotPet:
		p.Pet = newIt.Name
	}
}

func addLocked(tx *gorm.DB, playerID int64, itemName string, qty int) error {
	var stack model.InventoryItem
	err := tx.Where("player_id = ? AND item_name = ?", playerID, itemName).First(&stack).Error
	if err == nil {
		return tx.Model(&stack).Update("qty", gorm.Expr("qty + ?", qty)).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&model.InventoryItem{PlayerID: playerID, ItemName: itemName, Qty: qty}).Error
}

func isStarter(name string) bool {
	return name == model.StarterWeapon || name == model.StarterArmor
}

func slotColumn(slot string) string {
	switch slot {
	case model.SlotWeapon:
		return "weapon"
	case model.SlotArmor:
		return "armor"
	case model.SlotAccessory:
		return "accessory"
	case model.SlotPet:
		return "pet"
	}
	return ""
}
