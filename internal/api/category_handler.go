package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

type CategoryHandler struct {
	categories service.CategoryService
}

func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// pathID parses a numeric :param; a bad value aborts with 400.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (h *CategoryHandler) List(c *gin.Context) {
	var filter service.CategoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cats, err := h.categories.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cats)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cat)
}

func (h *CategoryHandler) CreateBulk(c *gin.Context) {
	var in []service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cats, err := h.categories.CreateBulk(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cats)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), currentCaller(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), currentCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

type idsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

func (h *CategoryHandler) DeleteBulk(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.categories.DeleteBulk(c.Request.Context(), currentCaller(c), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
