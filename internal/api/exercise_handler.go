package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

type ExerciseHandler struct {
	exercises service.ExerciseService
}

func NewExerciseHandler(exercises service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises}
}

func (h *ExerciseHandler) List(c *gin.Context) {
	var filter service.ExerciseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	exs, err := h.exercises.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, exs)
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ex, err := h.exercises.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, ex)
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	var in service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	ex, err := h.exercises.Create(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, ex)
}

func (h *ExerciseHandler) CreateBulk(c *gin.Context) {
	var in []service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	exs, err := h.exercises.CreateBulk(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, exs)
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	ex, err := h.exercises.Update(c.Request.Context(), currentCaller(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, ex)
}

func (h *ExerciseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exercises.Delete(c.Request.Context(), currentCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *ExerciseHandler) DeleteBulk(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.exercises.DeleteBulk(c.Request.Context(), currentCaller(c), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *ExerciseHandler) AddCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	if err := h.exercises.AddCategory(c.Request.Context(), currentCaller(c), id, categoryID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *ExerciseHandler) RemoveCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}
	if err := h.exercises.RemoveCategory(c.Request.Context(), currentCaller(c), id, categoryID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

type imageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

func (h *ExerciseHandler) RequestImageUpload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	upload, err := h.exercises.RequestImageUpload(c.Request.Context(), currentCaller(c), id, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, upload)
}

func (h *ExerciseHandler) ImageDownloadURL(c *gin.Context) {
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}
	url, err := h.exercises.ImageDownloadURL(c.Request.Context(), imageID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"url": url})
}

func (h *ExerciseHandler) DeleteImage(c *gin.Context) {
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}
	if err := h.exercises.DeleteImage(c.Request.Context(), currentCaller(c), imageID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
