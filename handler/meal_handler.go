package handler

import (
	"net/http"
	"school-api/common"
	"school-api/model"
	"school-api/service"
	"time"
)

type MealHandler struct {
	service *service.MealService
}

func NewMealHandler(service *service.MealService) *MealHandler {
	return &MealHandler{service: service}
}

func mealDate(r *http.Request) (time.Time, *common.AppError) {
	date, err := time.Parse(time.DateOnly, r.PathValue("date"))
	if err != nil {
		return time.Time{}, common.NewAppError(http.StatusBadRequest, "Invalid date", err)
	}
	return date, nil
}

// ListMeals godoc
// @Summary      List all meals
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]model.Meal
// @Router       /meal [get]
func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) *common.AppError {
	meals, err := h.service.ListMeals(r.Context())
	if err != nil {
		return serviceError(err, "Could not retrieve meals")
	}
	common.WriteResource(w, "meals", meals)
	return nil
}

// GetMeal godoc
// @Summary      Meal of a day
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Date (YYYY-MM-DD)"
// @Success      200  {object}  map[string]model.Meal
// @Failure      400  {object}  common.AppError "Invalid date"
// @Failure      404  {object}  common.AppError "No meal for that date"
// @Router       /meal/{date} [get]
func (h *MealHandler) GetMeal(w http.ResponseWriter, r *http.Request) *common.AppError {
	date, appErr := mealDate(r)
	if appErr != nil {
		return appErr
	}
	meal, err := h.service.GetMealByDate(r.Context(), date)
	if err != nil {
		return serviceError(err, "Could not retrieve meal")
	}
	common.WriteResource(w, "meal", meal)
	return nil
}

// CreateMeal godoc
// @Summary      Publish a meal
// @Tags         meals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meal body model.MealRequest true "Menus of the day"
// @Success      200  {object}  map[string]model.Meal
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Meal already published"
// @Router       /meal [post]
func (h *MealHandler) CreateMeal(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.MealRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}
	meal, err := h.service.CreateMeal(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not create meal")
	}
	common.WriteResource(w, "meal", meal)
	return nil
}

// EditMeal godoc
// @Summary      Edit a meal
// @Description  Replaces the menus present in the body; absent menus are left unchanged.
// @Tags         meals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Date (YYYY-MM-DD)"
// @Param        meal body model.EditMealRequest true "Menus to replace"
// @Success      200  {object}  map[string]model.Meal
// @Failure      404  {object}  common.AppError
// @Router       /meal/{date} [put]
func (h *MealHandler) EditMeal(w http.ResponseWriter, r *http.Request) *common.AppError {
	date, appErr := mealDate(r)
	if appErr != nil {
		return appErr
	}
	var req model.EditMealRequest
	if appErr := decodePayload(r, &req); appErr != nil {
		return appErr
	}
	meal, err := h.service.EditMeal(r.Context(), date, req)
	if err != nil {
		return serviceError(err, "Could not edit meal")
	}
	common.WriteResource(w, "meal", meal)
	return nil
}
