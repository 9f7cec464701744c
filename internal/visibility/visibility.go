// Package visibility decides which posts a viewer may see.
//
// A post is public when three independent conditions hold: the post itself
// is published, its category (if any) is published, and its publish date is
// not in the future. Authors additionally see their own posts whatever their
// state. Every condition exists twice, as a pure predicate over State and as
// a SQL fragment, so the same rule filters rows in memory and in the store.
package visibility

import (
	"strings"
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// State is the part of a post that visibility depends on.
type State struct {
	Published         bool
	HasCategory       bool
	CategoryPublished bool
	PubDate           time.Time
	AuthorID          uint
}

// StateOf extracts the visibility state of a post. A category reference whose
// row was not loaded counts as unpublished.
func StateOf(p models.Post) State {
	s := State{
		Published: p.IsPublished,
		PubDate:   p.PubDate,
		AuthorID:  p.AuthorID,
	}
	if p.CategoryID != nil {
		s.HasCategory = true
		s.CategoryPublished = p.Category != nil && p.Category.IsPublished
	}
	return s
}

// Condition is one boolean gate, usable in memory and in SQL.
type Condition interface {
	Holds(s State) bool
	// SQL returns a WHERE fragment over posts joined with categories.
	SQL() (string, []interface{})
}

// PostPublished holds when the post's own flag is set.
type PostPublished struct{}

func (PostPublished) Holds(s State) bool { return s.Published }

func (PostPublished) SQL() (string, []interface{}) {
	return "posts.is_published = ?", []interface{}{true}
}

// CategoryPublished holds for uncategorised posts and for posts in a published category.
type CategoryPublished struct{}

func (CategoryPublished) Holds(s State) bool { return !s.HasCategory || s.CategoryPublished }

func (CategoryPublished) SQL() (string, []interface{}) {
	return "(posts.category_id IS NULL OR categories.is_published = ?)", []interface{}{true}
}

// Released holds once the publish date has been reached. The boundary is inclusive.
type Released struct {
	Now time.Time
}

func (r Released) Holds(s State) bool { return !s.PubDate.After(r.Now) }

func (r Released) SQL() (string, []interface{}) {
	return "posts.pub_date <= ?", []interface{}{r.Now.UTC()}
}

// Rule combines the public conditions with an optional owner override.
// ViewerID 0 is an anonymous visitor.
type Rule struct {
	Now      time.Time
	ViewerID uint
}

// Public is the rule for an anonymous visitor.
func Public(now time.Time) Rule {
	return Rule{Now: now}
}

// For is the rule for a signed-in viewer: public posts plus the viewer's own.
func For(viewerID uint, now time.Time) Rule {
	return Rule{Now: now, ViewerID: viewerID}
}

// WithoutOwner drops the owner override, keeping the clock.
func (r Rule) WithoutOwner() Rule {
	return Rule{Now: r.Now}
}

// Conditions lists the gates every public post passes.
func (r Rule) Conditions() []Condition {
	return []Condition{PostPublished{}, CategoryPublished{}, Released{Now: r.Now}}
}

// Public reports whether the post is visible to everyone.
func (r Rule) Public(s State) bool {
	for _, c := range r.Conditions() {
		if !c.Holds(s) {
			return false
		}
	}
	return true
}

// Owns reports whether the viewer authored the post.
func (r Rule) Owns(s State) bool {
	return r.ViewerID != 0 && s.AuthorID == r.ViewerID
}

// Allows reports whether the viewer may see the post.
func (r Rule) Allows(s State) bool {
	return r.Public(s) || r.Owns(s)
}

// Filter keeps the posts the viewer may see, preserving order.
func (r Rule) Filter(posts []models.Post) []models.Post {
	visible := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if r.Allows(StateOf(p)) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Where renders the rule as a single parenthesised SQL condition.
func (r Rule) Where() (string, []interface{}) {
	conds := r.Conditions()
	parts := make([]string, 0, len(conds))
	var args []interface{}
	for _, c := range conds {
		sql, condArgs := c.SQL()
		parts = append(parts, sql)
		args = append(args, condArgs...)
	}
	public := strings.Join(parts, " AND ")
	if r.ViewerID == 0 {
		return "(" + public + ")", args
	}
	return "((" + public + ") OR posts.author_id = ?)", append(args, r.ViewerID)
}

// Scope is a gorm scope restricting a posts query to visible rows.
// It left-joins categories, so callers must not join that table again.
func (r Rule) Scope(db *gorm.DB) *gorm.DB {
	sql, args := r.Where()
	return db.
		Joins("LEFT JOIN categories ON categories.id = posts.category_id").
		Where(sql, args...)
}
