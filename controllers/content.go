package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"portfolio/middlewares"
	"portfolio/models"
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

// mediaField is the multipart field carrying the cover or image upload.
const mediaField = "file"

type postForm struct {
	Title    *string `form:"title"`
	Summary  *string `form:"summary"`
	Content  *string `form:"content"`
	Category *string `form:"category"`
}

type projectForm struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
	Link        *string `form:"link"`
	Tag         *string `form:"tag"`
}

func bindPost(c *gin.Context) (services.Fields[models.Post], error) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		return nil, err
	}
	return &services.PostFields{
		Title:    form.Title,
		Summary:  form.Summary,
		Content:  form.Content,
		Category: form.Category,
	}, nil
}

func bindProject(c *gin.Context) (services.Fields[models.Project], error) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		return nil, err
	}
	return &services.ProjectFields{
		Title:       form.Title,
		Description: form.Description,
		Link:        form.Link,
		Tag:         form.Tag,
	}, nil
}

// ContentController exposes CRUD handlers for posts or projects.
type ContentController[T any, P models.EntityPtr[T]] struct {
	svc  *services.ContentService[T, P]
	bind func(c *gin.Context) (services.Fields[T], error)
	kind string
	log  *log.Logger
}

type (
	PostController    = ContentController[models.Post, *models.Post]
	ProjectController = ContentController[models.Project, *models.Project]
)

func NewPostController(svc *services.PostService, logger *log.Logger) *PostController {
	return &PostController{svc: svc, bind: bindPost, kind: "post", log: logger}
}

func NewProjectController(svc *services.ProjectService, logger *log.Logger) *ProjectController {
	return &ProjectController{svc: svc, bind: bindProject, kind: "project", log: logger}
}

func (h *ContentController[T, P]) Create(c *gin.Context) {
	fields, err := h.bind(c)
	if err != nil {
		respondBindError(c, err)
		return
	}

	doc, err := h.svc.Create(c.Request.Context(), fields, formFile(c), middlewares.CurrentClaims(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ContentController[T, P]) Update(c *gin.Context) {
	fields, err := h.bind(c)
	if err != nil {
		respondBindError(c, err)
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), fields, formFile(c), middlewares.CurrentClaims(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ContentController[T, P]) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ContentController[T, P]) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ContentController[T, P]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), middlewares.CurrentClaims(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.kind + " deleted"})
}

func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
}

// formFile returns the uploaded media file, or nil when the request has none.
func formFile(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile(mediaField)
	if err != nil {
		return nil
	}
	return file
}
