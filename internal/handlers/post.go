package handlers

import (
	"errors"
	"net/http"

	"blogicum/internal/authz"
	"blogicum/internal/models"
	"blogicum/internal/pagination"
	"blogicum/internal/repository"
	"blogicum/internal/services"
	"blogicum/internal/validation"
	"blogicum/internal/visibility"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	*Env
}

func NewPostHandler(env *Env) *PostHandler {
	return &PostHandler{Env: env}
}

// Index 首页 - 所有公开文章
func (h *PostHandler) Index(c *gin.Context) {
	res, err := h.Posts.List(c.Request.Context(), repository.Listing{
		Rule:     visibility.Public(h.Now()),
		PageSize: h.PageSize,
	}, pagination.ParseNumber(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	Render(c, http.StatusOK, "blog/index.html", gin.H{
		"Posts": res.Posts,
		"Page":  res.Page,
	})
}

// Category lists public posts of a published category.
func (h *PostHandler) Category(c *gin.Context) {
	var uri categoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		NotFound(c)
		return
	}
	res, err := h.Posts.List(c.Request.Context(), repository.Listing{
		CategorySlug: uri.Slug,
		Rule:         visibility.Public(h.Now()),
		PageSize:     h.PageSize,
	}, pagination.ParseNumber(c.Query("page")))
	if err != nil {
		h.fail(c, err)
		return
	}
	Render(c, http.StatusOK, "blog/category.html", gin.H{
		"Category": res.Category,
		"Posts":    res.Posts,
		"Page":     res.Page,
	})
}

// Detail 文章详情页
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c)
		return
	}
	post, err := h.Posts.Get(c.Request.Context(), id, h.rule(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderDetail(c, http.StatusOK, post, CommentForm{}, nil)
}

func (e *Env) renderDetail(c *gin.Context, code int, post *models.Post, form CommentForm, errs map[string]string) {
	comments, err := e.Comments.ListForPost(c.Request.Context(), post.ID)
	if err != nil {
		e.fail(c, err)
		return
	}
	data := gin.H{
		"Post":      post,
		"Comments":  comments,
		"Form":      form,
		"CanModify": authz.CanModify(post, currentUser(c)),
	}
	if errs != nil {
		data["Errors"] = errs
	}
	Render(c, code, "blog/detail.html", data)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, nil, newPostForm(h.Now()), nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, nil, form, validation.Errors(err))
		return
	}
	if errs, err := h.checkChoices(c, nil, form); err != nil {
		h.fail(c, err)
		return
	} else if len(errs) > 0 {
		h.renderForm(c, http.StatusBadRequest, nil, form, errs)
		return
	}

	post := models.Post{AuthorID: user.ID}
	form.apply(&post)

	image, errs := h.saveImage(c)
	if errs != nil {
		h.renderForm(c, http.StatusBadRequest, nil, form, errs)
		return
	}
	post.Image = image

	if err := h.Posts.Create(c.Request.Context(), &post); err != nil {
		h.removeImage(image)
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, post, postFormFrom(post), nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, post, form, validation.Errors(err))
		return
	}
	if errs, err := h.checkChoices(c, post, form); err != nil {
		h.fail(c, err)
		return
	} else if len(errs) > 0 {
		h.renderForm(c, http.StatusBadRequest, post, form, errs)
		return
	}

	image, errs := h.saveImage(c)
	if errs != nil {
		h.renderForm(c, http.StatusBadRequest, post, form, errs)
		return
	}
	oldImage := post.Image
	switch {
	case image != "":
		post.Image = image
	case form.ClearImage:
		post.Image = ""
	}
	form.apply(post)

	if err := h.Posts.Update(c.Request.Context(), post); err != nil {
		h.removeImage(image)
		h.fail(c, err)
		return
	}
	if oldImage != post.Image {
		h.removeImage(oldImage)
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}

func (h *PostHandler) ShowDelete(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}
	Render(c, http.StatusOK, "blog/create.html", gin.H{
		"Heading":  "Удаление публикации",
		"Action":   c.Request.URL.Path,
		"Deleting": true,
		"Post":     post,
		"Form":     postFormFrom(post),
	})
}

func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.ownedPost(c)
	if !ok {
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), post.ID); err != nil {
		h.fail(c, err)
		return
	}
	h.removeImage(post.Image)
	c.Redirect(http.StatusFound, profileURL(currentUser(c).Username))
}

// ownedPost resolves the post for a mutation. Posts the viewer cannot see
// are 404; visible posts of someone else redirect to their detail page.
func (h *PostHandler) ownedPost(c *gin.Context) (*models.Post, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c)
		return nil, false
	}
	post, err := h.Posts.Get(c.Request.Context(), id, h.rule(c))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !authz.CanModify(post, currentUser(c)) {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return nil, false
	}
	return post, true
}

// checkChoices verifies the selected category and location are offered.
// An edited post may keep its current references even after they were
// unpublished.
func (h *PostHandler) checkChoices(c *gin.Context, post *models.Post, form PostForm) (map[string]string, error) {
	errs := map[string]string{}
	ctx := c.Request.Context()
	if form.CategoryID != 0 && !(post != nil && sameID(post.CategoryID, form.CategoryID)) {
		categories, err := h.Categories.ListPublished(ctx)
		if err != nil {
			return nil, err
		}
		if !containsID(categories, form.CategoryID, func(x models.Category) uint { return x.ID }) {
			errs["category"] = invalidChoice
		}
	}
	if form.LocationID != 0 && !(post != nil && sameID(post.LocationID, form.LocationID)) {
		locations, err := h.Locations.ListPublished(ctx)
		if err != nil {
			return nil, err
		}
		if !containsID(locations, form.LocationID, func(x models.Location) uint { return x.ID }) {
			errs["location"] = invalidChoice
		}
	}
	return errs, nil
}

const invalidChoice = "Выберите корректный вариант."

func sameID(current *uint, id uint) bool {
	return current != nil && *current == id
}

func containsID[T any](items []T, id uint, key func(T) uint) bool {
	for _, item := range items {
		if key(item) == id {
			return true
		}
	}
	return false
}

// saveImage stores the optional upload. A nil map means success.
func (h *PostHandler) saveImage(c *gin.Context) (string, map[string]string) {
	header, err := c.FormFile("image")
	if err != nil {
		// 未上传图片
		return "", nil
	}
	rel, err := h.Images.Save(header)
	switch {
	case errors.Is(err, services.ErrNotImage), errors.Is(err, services.ErrImageTooLarge):
		return "", map[string]string{"image": "Загрузите правильное изображение. " + err.Error()}
	case err != nil:
		h.Log.Error("save image", zap.Error(err))
		return "", map[string]string{"image": "Не удалось сохранить изображение."}
	}
	return rel, nil
}

func (h *PostHandler) removeImage(rel string) {
	if rel == "" {
		return
	}
	if err := h.Images.Remove(rel); err != nil {
		h.Log.Warn("remove image", zap.String("image", rel), zap.Error(err))
	}
}

func (h *PostHandler) renderForm(c *gin.Context, code int, post *models.Post, form PostForm, errs map[string]string) {
	ctx := c.Request.Context()
	categories, err := h.Categories.ListPublished(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	locations, err := h.Locations.ListPublished(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	heading := "Новая публикация"
	if post != nil {
		heading = "Редактирование публикации"
		// 当前的分类和地点即使已下线也保留在选项中
		if post.Category != nil && !containsID(categories, post.Category.ID, func(x models.Category) uint { return x.ID }) {
			categories = append(categories, *post.Category)
		}
		if post.Location != nil && !containsID(locations, post.Location.ID, func(x models.Location) uint { return x.ID }) {
			locations = append(locations, *post.Location)
		}
	}
	data := gin.H{
		"Heading":    heading,
		"Action":     c.Request.URL.Path,
		"Form":       form,
		"Categories": categories,
		"Locations":  locations,
		"Post":       post,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	Render(c, code, "blog/create.html", data)
}
