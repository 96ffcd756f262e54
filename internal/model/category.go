package model

import (
	"fmt"
	"strings"
)

// AssetCategory identifies one of the categorized asset folders of a snapshot.
type AssetCategory string

const (
	MenuTheme       AssetCategory = "menu_theme"
	CharSet         AssetCategory = "charset"
	ChipSet         AssetCategory = "chipset"
	Music           AssetCategory = "music"
	Sound           AssetCategory = "sound"
	Panorama        AssetCategory = "panorama"
	Picture         AssetCategory = "picture"
	BattleAnimation AssetCategory = "battle_animation"
)

// CategoryInfo binds a category to its on-disk folder and its changelog list key.
type CategoryInfo struct {
	Category AssetCategory
	// Folder is the snapshot sub-directory holding the category's files.
	Folder string
	// Key names the category's list in structured exports.
	Key string
}

// categoryTable is ordered the way changelog sections are rendered.
var categoryTable = []CategoryInfo{
	{Category: MenuTheme, Folder: "System", Key: "menu_themes"},
	{Category: CharSet, Folder: "CharSet", Key: "charsets"},
	{Category: ChipSet, Folder: "ChipSet", Key: "chipsets"},
	{Category: Music, Folder: "Music", Key: "musics"},
	{Category: Sound, Folder: "Sound", Key: "sounds"},
	{Category: Panorama, Folder: "Panorama", Key: "panoramas"},
	{Category: Picture, Folder: "Picture", Key: "pictures"},
	{Category: BattleAnimation, Folder: "Battle", Key: "animation_files"},
}

// Categories returns the category table in rendering order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// AllCategories returns every asset category in rendering order.
func AllCategories() []AssetCategory {
	out := make([]AssetCategory, 0, len(categoryTable))
	for _, info := range categoryTable {
		out = append(out, info.Category)
	}
	return out
}

// Info returns the table entry for the category.
func (c AssetCategory) Info() (CategoryInfo, bool) {
	for _, info := range categoryTable {
		if info.Category == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// Folder returns the snapshot folder name for the category, or "" if unknown.
func (c AssetCategory) Folder() string {
	info, _ := c.Info()
	return info.Folder
}

// IsValid returns true if the category is part of the table.
func (c AssetCategory) IsValid() bool {
	_, ok := c.Info()
	return ok
}

// String returns the string representation of the category.
func (c AssetCategory) String() string {
	return string(c)
}

// ParseCategory accepts a category name or its folder name, case-insensitively.
func ParseCategory(s string) (AssetCategory, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, info := range categoryTable {
		if needle == string(info.Category) || needle == strings.ToLower(info.Folder) {
			return info.Category, nil
		}
	}
	return "", fmt.Errorf("unknown asset category %q", s)
}
