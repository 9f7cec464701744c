package handlers

import (
	"time"

	"blogicum/internal/models"
)

// pubDateLayout matches the datetime-local input.
const pubDateLayout = "2006-01-02T15:04"

type PostForm struct {
	Title       string `form:"title" binding:"required,max=256"`
	Text        string `form:"text" binding:"required"`
	PubDate     string `form:"pub_date" binding:"required,datetime=2006-01-02T15:04"`
	LocationID  uint   `form:"location"`
	CategoryID  uint   `form:"category"`
	IsPublished bool   `form:"is_published"`
	ClearImage  bool   `form:"image-clear"`
}

func newPostForm(now time.Time) PostForm {
	return PostForm{PubDate: now.UTC().Format(pubDateLayout), IsPublished: true}
}

func postFormFrom(p *models.Post) PostForm {
	form := PostForm{
		Title:       p.Title,
		Text:        p.Text,
		PubDate:     p.PubDate.UTC().Format(pubDateLayout),
		IsPublished: p.IsPublished,
	}
	if p.LocationID != nil {
		form.LocationID = *p.LocationID
	}
	if p.CategoryID != nil {
		form.CategoryID = *p.CategoryID
	}
	return form
}

// apply copies the form onto the post. PubDate has already passed validation.
func (f PostForm) apply(p *models.Post) {
	p.Title = f.Title
	p.Text = f.Text
	p.PubDate, _ = time.ParseInLocation(pubDateLayout, f.PubDate, time.UTC)
	p.IsPublished = f.IsPublished
	p.LocationID = optionalID(f.LocationID)
	p.CategoryID = optionalID(f.CategoryID)
	p.Location = nil
	p.Category = nil
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

type ProfileForm struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"omitempty,email,max=254"`
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
}

func profileFormFrom(u *models.User) ProfileForm {
	return ProfileForm{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type RegistrationForm struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"omitempty,email,max=254"`
	Password  string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// categoryURI binds the category slug route parameter.
type categoryURI struct {
	Slug string `uri:"slug" binding:"required,max=64,slug"`
}
