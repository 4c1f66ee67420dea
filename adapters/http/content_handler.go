package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contentUC "github.com/khoahotran/devconnect/internal/application/usecase/content"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/validation"
)

// ContentHandler serves one kind of content item. The router registers a
// handler for posts and another for projects.
type ContentHandler struct {
	kind              content.Kind
	createItemUseCase *contentUC.CreateItemUseCase
	listItemsUseCase  *contentUC.ListItemsUseCase
	getItemUseCase    *contentUC.GetItemUseCase
	deleteItemUseCase *contentUC.DeleteItemUseCase
	likeUseCase       *contentUC.LikeUseCase
	commentUseCase    *contentUC.CommentUseCase
	validator         *validation.Validator
}

func NewContentHandler(
	kind content.Kind,
	createUC *contentUC.CreateItemUseCase,
	listUC *contentUC.ListItemsUseCase,
	getUC *contentUC.GetItemUseCase,
	deleteUC *contentUC.DeleteItemUseCase,
	likeUC *contentUC.LikeUseCase,
	commentUC *contentUC.CommentUseCase,
	v *validation.Validator,
) *ContentHandler {
	return &ContentHandler{
		kind:              kind,
		createItemUseCase: createUC,
		listItemsUseCase:  listUC,
		getItemUseCase:    getUC,
		deleteItemUseCase: deleteUC,
		likeUseCase:       likeUC,
		commentUseCase:    commentUC,
		validator:         v,
	}
}

func (h *ContentHandler) bindBody(c *gin.Context) (content.Body, bool) {
	if h.kind == content.KindProject {
		var req ProjectRequest
		if !bindAndCheck(c, h.validator, &req) {
			return content.Body{}, false
		}
		return content.Body{Title: req.Title, Description: req.Description}, true
	}

	var req PostRequest
	if !bindAndCheck(c, h.validator, &req) {
		return content.Body{}, false
	}
	return content.Body{Text: req.Text}, true
}

func (h *ContentHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	body, ok := h.bindBody(c)
	if !ok {
		return
	}

	output, err := h.createItemUseCase.Execute(c.Request.Context(), contentUC.CreateItemInput{
		AuthorID: userID,
		Body:     body,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": output.Item})
}

func (h *ContentHandler) List(c *gin.Context) {
	items, err := h.listItemsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.getItemUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (h *ContentHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	err := h.deleteItemUseCase.Execute(c.Request.Context(), contentUC.DeleteItemInput{
		CallerID: userID,
		ItemID:   c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": h.kind.Label() + " removed"})
}

func (h *ContentHandler) Like(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	likes, err := h.likeUseCase.ExecuteLike(c.Request.Context(), contentUC.LikeInput{CallerID: userID, ItemID: c.Param("id")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": likes})
}

func (h *ContentHandler) Unlike(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	likes, err := h.likeUseCase.ExecuteUnlike(c.Request.Context(), contentUC.LikeInput{CallerID: userID, ItemID: c.Param("id")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": likes})
}

func (h *ContentHandler) AddComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if !bindAndCheck(c, h.validator, &req) {
		return
	}

	comments, err := h.commentUseCase.ExecuteAdd(c.Request.Context(), contentUC.AddCommentInput{
		CallerID: userID,
		ItemID:   c.Param("id"),
		Text:     req.Text,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *ContentHandler) DeleteComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	comments, err := h.commentUseCase.ExecuteDelete(c.Request.Context(), contentUC.DeleteCommentInput{
		CallerID:  userID,
		ItemID:    c.Param("id"),
		CommentID: c.Param("comment_id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}
