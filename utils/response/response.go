package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resto-api/models"
)

// Error maps the service error taxonomy to an HTTP status. Unknown errors
// are treated as internal.
func Error(c *gin.Context, err error) {
	var (
		validation *models.ValidationError
		conflict   *models.ConflictError
		notFound   *models.NotFoundError
		permission *models.PermissionError
		external   *models.ExternalError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Msg})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Msg})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Msg})
	case errors.As(err, &permission):
		c.JSON(http.StatusForbidden, gin.H{"error": permission.Msg})
	case errors.As(err, &external):
		c.JSON(http.StatusBadGateway, gin.H{"error": external.Msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
