package handlers

import (
	"net/http"

	"blogicum/internal/authz"
	"blogicum/internal/models"
	"blogicum/internal/validation"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	*Env
}

func NewCommentHandler(env *Env) *CommentHandler {
	return &CommentHandler{Env: env}
}

// Create 发表评论
func (h *CommentHandler) Create(c *gin.Context) {
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

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderDetail(c, http.StatusBadRequest, post, form, validation.Errors(err))
		return
	}
	comment := models.Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: currentUser(c).ID,
	}
	if err := h.Comments.Create(c.Request.Context(), &comment); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}

func (h *CommentHandler) ShowEdit(c *gin.Context) {
	comment, ok := h.ownedComment(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, comment, CommentForm{Text: comment.Text}, nil)
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := h.ownedComment(c)
	if !ok {
		return
	}
	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, comment, form, validation.Errors(err))
		return
	}
	comment.Text = form.Text
	if err := h.Comments.UpdateText(c.Request.Context(), comment); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(comment.PostID))
}

func (h *CommentHandler) ShowDelete(c *gin.Context) {
	comment, ok := h.ownedComment(c)
	if !ok {
		return
	}
	Render(c, http.StatusOK, "blog/comment.html", gin.H{
		"Heading":  "Удаление комментария",
		"Action":   c.Request.URL.Path,
		"Deleting": true,
		"Comment":  comment,
		"Form":     CommentForm{Text: comment.Text},
	})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.ownedComment(c)
	if !ok {
		return
	}
	if err := h.Comments.Delete(c.Request.Context(), comment.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(comment.PostID))
}

// ownedComment resolves a comment through its post: the post must be
// visible to the viewer and the comment must belong to it.
func (h *CommentHandler) ownedComment(c *gin.Context) (*models.Comment, bool) {
	postID, ok := paramID(c, "id")
	if !ok {
		NotFound(c)
		return nil, false
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		NotFound(c)
		return nil, false
	}
	ctx := c.Request.Context()
	if _, err := h.Posts.Get(ctx, postID, h.rule(c)); err != nil {
		h.fail(c, err)
		return nil, false
	}
	comment, err := h.Comments.Find(ctx, postID, commentID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !authz.CanModify(comment, currentUser(c)) {
		c.Redirect(http.StatusFound, postURL(postID))
		return nil, false
	}
	return comment, true
}

func (h *CommentHandler) renderForm(c *gin.Context, code int, comment *models.Comment, form CommentForm, errs map[string]string) {
	data := gin.H{
		"Heading": "Редактирование комментария",
		"Action":  c.Request.URL.Path,
		"Comment": comment,
		"Form":    form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	Render(c, code, "blog/comment.html", data)
}
