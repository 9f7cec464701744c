// Package models declares the persisted entities of the blog.
package models

// All lists the models in migration order: referenced tables first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Location{},
		&Post{},
		&Comment{},
	}
}
