package models

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Tag is created lazily the first time a question is tagged with its name.
type Tag struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

// ArticleTag links a question to a tag. The (article_id, tag_id) pair is unique.
type ArticleTag struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	ArticleID uint64 `gorm:"not null;index;uniqueIndex:idx_articles_tags_article_tag" json:"article_id"`
	TagID     uint64 `gorm:"not null;index;uniqueIndex:idx_articles_tags_article_tag" json:"tag_id"`
}

func (ArticleTag) TableName() string {
	return "articles_tags"
}

// TagCount is a tag with the number of questions linked to it.
type TagCount struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

var tagNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidTagName reports whether name is a lowercase slug such as "ab-bc-cd".
func ValidTagName(name string) bool {
	return tagNamePattern.MatchString(name)
}

type TagIntent string

const (
	TagAdd    TagIntent = "add"
	TagRemove TagIntent = "remove"
)

var ErrUnknownTagIntent = errors.New("unknown tag intent")

// TagChange is one instruction of a tag diff.
type TagChange struct {
	Name   string    `json:"name"`
	Intent TagIntent `json:"intent"`
}

// TagDiff is applied to a question in the same transaction as its content.
// Tag names absent from the diff are left untouched.
type TagDiff []TagChange

// NewTagDiff converts a name to intent mapping into a diff ordered by name.
func NewTagDiff(changes map[string]string) (TagDiff, error) {
	diff := make(TagDiff, 0, len(changes))
	for name, intent := range changes {
		switch TagIntent(intent) {
		case TagAdd, TagRemove:
			diff = append(diff, TagChange{Name: name, Intent: TagIntent(intent)})
		default:
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownTagIntent, intent, name)
		}
	}

	sort.Slice(diff, func(i, j int) bool {
		return diff[i].Name < diff[j].Name
	})
	return diff, nil
}

// Adds returns the names with an add intent.
func (d TagDiff) Adds() []string {
	names := make([]string, 0, len(d))
	for _, change := range d {
		if change.Intent == TagAdd {
			names = append(names, change.Name)
		}
	}
	return names
}

// AsMap is the inverse of NewTagDiff.
func (d TagDiff) AsMap() map[string]string {
	m := make(map[string]string, len(d))
	for _, change := range d {
		m[change.Name] = string(change.Intent)
	}
	return m
}
