package controller

import (
	"context"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, RDB: rdb}
}

func (c *HealthController) Check(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok"}

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.PingContext(checkCtx) != nil {
		status["status"] = "degraded"
		status["database"] = "down"
	} else {
		status["database"] = "up"
	}

	if c.RDB != nil {
		if err := c.RDB.Ping(checkCtx).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}
	}

	util.Success(ctx, status)
}
