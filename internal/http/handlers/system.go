package handlers

import (
	"net/http"
	"sync"

	intconfig "quickrail/internal/config"
	"quickrail/internal/domain"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "quickrail berjalan"})
}

// DBCheck counts quick_bookings rows; in memory mode it reports the store kind.
func DBCheck(c *gin.Context) {
	d := current()
	if d.DB == nil {
		if d.Bookings == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store belum dikonfigurasi"})
			return
		}
		rows, err := d.Bookings.List(c.Request.Context(), domain.Filter{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal membaca store: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "store memory aktif", "driver": "memory", "quick_bookings": len(rows)})
		return
	}
	if err := intconfig.EnsureDB(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database tidak terjangkau: " + err.Error()})
		return
	}
	var count int
	if err := d.DB.GetContext(c.Request.Context(), &count, "SELECT COUNT(*) FROM quick_bookings"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal query ke database: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "koneksi database OK", "driver": d.DB.DriverName(), "quick_bookings": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router belum siap"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
