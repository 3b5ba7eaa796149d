package library

import (
	"log"
	"net/http"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/library"
	"criaprompt-api/internal/domain/stats"

	"github.com/gin-gonic/gin"
)

// Prompt CRUD. Creation routes sit behind the quota guard middleware; the
// handlers themselves only insert.

func ListPrompts(c *gin.Context) {
	userID := c.GetUint("user_id")

	var list []library.Prompt
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prompts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetPrompt(c *gin.Context) {
	prompt, ok := ownedPrompt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func CreatePrompt(c *gin.Context) {
	var body struct {
		Title   string   `json:"titulo" binding:"required"`
		Content string   `json:"texto"`
		Public  bool     `json:"publico"`
		Tags    []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt := library.Prompt{
		UserID:  c.GetUint("user_id"),
		Title:   body.Title,
		Content: body.Content,
		Public:  body.Public,
		Tags:    body.Tags,
	}
	if err := database.DB.Create(&prompt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create prompt"})
		return
	}

	if err := stats.IncPromptsCreated(database.DB); err != nil {
		log.Println("⚠️ Failed to bump prompt stat:", err)
	}

	c.JSON(http.StatusCreated, prompt)
}

func UpdatePrompt(c *gin.Context) {
	prompt, ok := ownedPrompt(c)
	if !ok {
		return
	}

	var body struct {
		Title   *string   `json:"titulo"`
		Content *string   `json:"texto"`
		Public  *bool     `json:"publico"`
		Tags    *[]string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.Title != nil {
		prompt.Title = *body.Title
	}
	if body.Content != nil {
		prompt.Content = *body.Content
	}
	if body.Public != nil {
		prompt.Public = *body.Public
	}
	if body.Tags != nil {
		prompt.Tags = *body.Tags
	}

	if err := database.DB.Save(prompt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prompt"})
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func DeletePrompt(c *gin.Context) {
	prompt, ok := ownedPrompt(c)
	if !ok {
		return
	}
	if err := database.DB.Delete(prompt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prompt"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prompt removido"})
}

func ownedPrompt(c *gin.Context) (*library.Prompt, bool) {
	var uri struct {
		ID uint `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return nil, false
	}

	var prompt library.Prompt
	if err := database.DB.First(&prompt, uri.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		return nil, false
	}
	if prompt.UserID != c.GetUint("user_id") && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return &prompt, true
}
