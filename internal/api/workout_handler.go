package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fittrack/internal/service"
)

type WorkoutHandler struct {
	workouts service.WorkoutService
}

func NewWorkoutHandler(workouts service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) List(c *gin.Context) {
	var filter service.WorkoutFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.workouts.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, ws)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := h.workouts.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, w)
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	var in service.WorkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	w, err := h.workouts.Create(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, w)
}

func (h *WorkoutHandler) CreateBulk(c *gin.Context) {
	var in []service.WorkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	ws, err := h.workouts.CreateBulk(c.Request.Context(), currentCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, ws)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.WorkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	w, err := h.workouts.Update(c.Request.Context(), currentCaller(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, w)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workouts.Delete(c.Request.Context(), currentCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *WorkoutHandler) DeleteBulk(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.workouts.DeleteBulk(c.Request.Context(), currentCaller(c), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.AddWorkoutExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.workouts.AddExercise(c.Request.Context(), currentCaller(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, entry)
}

func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryId")
	if !ok {
		return
	}
	if err := h.workouts.RemoveExercise(c.Request.Context(), currentCaller(c), id, entryID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
