package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lthoa462/homework/utils"
)

const msgInternal = "internal server error"

// respondError answers with the AppError message and status. Anything else is
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	appErr, ok := utils.AsAppError(err)
	if !ok {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
		return
	}
	if appErr.Kind == utils.KindInternal {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(utils.StatusCode(appErr), gin.H{"message": appErr.Message})
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu gửi lên không hợp lệ."})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID không hợp lệ."})
		return 0, false
	}
	return uint(id), true
}
