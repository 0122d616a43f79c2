package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	apperrors "pawrate_go_backend/internal/errors"
	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type catRequest struct {
	Name            string `json:"name" binding:"required"`
	Breed           string `json:"breed"`
	Age             int    `json:"age"`
	Weight          string `json:"weight"`
	Allergies       string `json:"allergies"`
	HealthCondition string `json:"health_condition"`
	Notes           string `json:"notes"`
}

func catIDParam(c *gin.Context) (uuid.UUID, bool) {
	catID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, apperrors.New400Error("Invalid cat ID"))
		return uuid.Nil, false
	}
	return catID, true
}

func createCatHandler(catService services.CatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req catRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid request body"))
			return
		}

		cat := models.Cat{
			UserID:          user.ID,
			Name:            req.Name,
			Breed:           req.Breed,
			Age:             req.Age,
			Weight:          req.Weight,
			Allergies:       req.Allergies,
			HealthCondition: req.HealthCondition,
			Notes:           req.Notes,
		}
		if err := catService.CreateCatDB(&cat); err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func listCatsHandler(catService services.CatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		cats, err := catService.GetCatsByUserIDFromDB(user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cats": cats})
	}
}

func getCatHandler(catService services.CatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		catID, ok := catIDParam(c)
		if !ok {
			return
		}

		cat, err := catService.GetCatByIDFromDB(catID, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func updateCatHandler(catService services.CatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		catID, ok := catIDParam(c)
		if !ok {
			return
		}

		var req catRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid request body"))
			return
		}

		cat, err := catService.GetCatByIDFromDB(catID, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		cat.Name = req.Name
		cat.Breed = req.Breed
		cat.Age = req.Age
		cat.Weight = req.Weight
		cat.Allergies = req.Allergies
		cat.HealthCondition = req.HealthCondition
		cat.Notes = req.Notes
		if err := catService.UpdateCatDB(cat); err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func deleteCatHandler(catService services.CatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		catID, ok := catIDParam(c)
		if !ok {
			return
		}

		if err := catService.DeleteCatDB(catID, user.ID); err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cat deleted"})
	}
}

// uploadCatPictureHandler stores the picture and returns the updated
// cat record so the client can swap the image in place.
func uploadCatPictureHandler(catService services.CatServiceDB, storage services.CloudStorageManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		catID, ok := catIDParam(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("picture")
		if err != nil {
			apperrors.HandleError(c, apperrors.New400Error("No picture file provided"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			apperrors.HandleError(c, apperrors.New500Error(err))
			return
		}
		defer file.Close()

		objectName := fmt.Sprintf("cat-pictures/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
		contentType := fileHeader.Header.Get("Content-Type")
		imageURL, err := storage.UploadPublic(c.Request.Context(), objectName, contentType, file)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		if err := catService.UpdateCatImageURLDB(catID, user.ID, imageURL); err != nil {
			handleServiceError(c, err)
			return
		}

		cat, err := catService.GetCatByIDFromDB(catID, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func generateDietPlanHandler(dietService *services.DietService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		catID, ok := catIDParam(c)
		if !ok {
			return
		}

		cat, err := dietService.GeneratePlan(c.Request.Context(), catID, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func dietPlanPDFHandler(dietService *services.DietService, catService services.CatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		catID, ok := catIDParam(c)
		if !ok {
			return
		}

		cat, err := catService.GetCatByIDFromDB(catID, user.ID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if len(cat.DietSections) == 0 {
			apperrors.HandleError(c, apperrors.New404Error("No diet plan for this cat yet"))
			return
		}

		pdfBytes, err := dietService.PlanPDF(cat)
		if err != nil {
			apperrors.HandleError(c, apperrors.New500Error(err))
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_diet_plan.pdf", cat.Name))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	}
}
