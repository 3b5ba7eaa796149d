package library

import (
	"log"
	"net/http"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/library"
	"criaprompt-api/internal/domain/stats"

	"github.com/gin-gonic/gin"
)

func ListModelos(c *gin.Context) {
	userID := c.GetUint("user_id")

	var list []library.Modelo
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load modelos"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetModelo(c *gin.Context) {
	modelo, ok := ownedModelo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, modelo)
}

func CreateModelo(c *gin.Context) {
	var body struct {
		Title       string `json:"titulo" binding:"required"`
		Description string `json:"descricao"`
		Structure   string `json:"estrutura"`
		Public      bool   `json:"publico"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	modelo := library.Modelo{
		UserID:      c.GetUint("user_id"),
		Title:       body.Title,
		Description: body.Description,
		Structure:   body.Structure,
		Public:      body.Public,
	}
	if err := database.DB.Create(&modelo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create modelo"})
		return
	}

	if err := stats.IncModelsCreated(database.DB); err != nil {
		log.Println("⚠️ Failed to bump modelo stat:", err)
	}

	c.JSON(http.StatusCreated, modelo)
}

func UpdateModelo(c *gin.Context) {
	modelo, ok := ownedModelo(c)
	if !ok {
		return
	}

	var body struct {
		Title       *string `json:"titulo"`
		Description *string `json:"descricao"`
		Structure   *string `json:"estrutura"`
		Public      *bool   `json:"publico"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.Title != nil {
		modelo.Title = *body.Title
	}
	if body.Description != nil {
		modelo.Description = *body.Description
	}
	if body.Structure != nil {
		modelo.Structure = *body.Structure
	}
	if body.Public != nil {
		modelo.Public = *body.Public
	}

	if err := database.DB.Save(modelo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update modelo"})
		return
	}
	c.JSON(http.StatusOK, modelo)
}

func DeleteModelo(c *gin.Context) {
	modelo, ok := ownedModelo(c)
	if !ok {
		return
	}
	if err := database.DB.Delete(modelo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete modelo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Modelo removido"})
}

func ownedModelo(c *gin.Context) (*library.Modelo, bool) {
	var uri struct {
		ID uint `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return nil, false
	}

	var modelo library.Modelo
	if err := database.DB.First(&modelo, uri.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Modelo not found"})
		return nil, false
	}
	if modelo.UserID != c.GetUint("user_id") && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return &modelo, true
}
