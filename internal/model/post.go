package model

import (
	"time"
)

// Post is a blog entry. A nil PublishedDate marks a draft that is never
// listed.
type Post struct {
	ID            string     `blog:"id" bson:"_id" db:"id" json:"id"`
	Author        string     `bson:"author" db:"author" json:"author"`
	Title         string     `bson:"title" db:"title" json:"title"`
	Text          string     `bson:"text" db:"text" json:"text"`
	CreatedDate   time.Time  `bson:"created_date" db:"created_date" json:"createdDate"`
	PublishedDate *time.Time `bson:"published_date,omitempty" db:"published_date" json:"publishedDate,omitempty"`
}

func (Post) GetTableName() string {
	return "posts"
}

// IsPublished reports whether p is visible at now: it has a publication
// date and that date is not after now.
func (p Post) IsPublished(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}
