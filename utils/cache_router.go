package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache time.Duration = 0
	CacheCustom  time.Duration = -1
)

// CacheRouter sets the cache-control header of every response it handles.
// Handlers registered after it may overwrite the header when CacheTime is CacheCustom.
type CacheRouter struct {
	CacheTime time.Duration
	Public    bool // shared caches may store the response (portfolio files)
}

func (cr *CacheRouter) Value() string {
	switch {
	case cr.CacheTime == CacheCustom:
		return ""
	case cr.CacheTime <= CacheNoCache:
		return "no-cache"
	}
	scope := "private"
	if cr.Public {
		scope = "public"
	}
	return scope + ", max-age=" + strconv.Itoa(int(cr.CacheTime/time.Second))
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	value := cr.Value()
	return func(c *gin.Context) {
		if value != "" {
			c.Header("Cache-Control", value)
		}
		c.Next()
	}
}
