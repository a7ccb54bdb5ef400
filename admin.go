// admin.go - privacy-conscious admin area
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/joeyaochen/portfolio/internal/config"
	"github.com/joeyaochen/portfolio/internal/store"
)

const adminCookie = "admin_token"

// devAdminPassword is accepted only in debug mode when no password is configured.
const devAdminPassword = "admin123"

var errAdminDisabled = errors.New("admin login disabled: set ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")

type adminAuth struct {
	username     string
	passwordHash []byte
	token        string
	salt         string
	logger       *zap.Logger
}

// newAdminAuth prepares the admin credentials. A plain ADMIN_PASSWORD is
// hashed at startup so every login goes through bcrypt.
func newAdminAuth(cfg config.Config, logger *zap.Logger) (*adminAuth, error) {
	token, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}
	a := &adminAuth{username: cfg.AdminUsername, token: token, salt: salt, logger: logger}

	switch {
	case cfg.AdminPasswordHash != "":
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		a.passwordHash = []byte(cfg.AdminPasswordHash)
	case cfg.AdminPassword != "":
		if a.passwordHash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost); err != nil {
			return nil, fmt.Errorf("hashing admin password: %w", err)
		}
	case cfg.GinMode == gin.DebugMode:
		logger.Warn("using default admin password, set ADMIN_PASSWORD_HASH in production")
		if a.passwordHash, err = bcrypt.GenerateFromPassword([]byte(devAdminPassword), bcrypt.MinCost); err != nil {
			return nil, fmt.Errorf("hashing admin password: %w", err)
		}
	default:
		logger.Warn(errAdminDisabled.Error())
	}
	return a, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (a *adminAuth) check(username, password string) error {
	if a.passwordHash == nil {
		return errAdminDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return errors.New("invalid credentials")
	}
	return nil
}

// hashIP hashes an address with the per-process salt (consistent per IP).
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTrackingMiddleware records page views with hashed addresses. Static
// assets, admin pages and Do Not Track requests are skipped.
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") ||
			c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()

		err := a.store.RecordVisit(context.WithoutCancel(c.Request.Context()), store.Visit{
			HashedIP:  a.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: a.clock.Now(),
		})
		if err != nil {
			a.logger.Warn("recording visitor", zap.Error(err))
		}
	}
}

// cleanupOldVisitorData deletes visits older than the retention window.
func (a *app) cleanupOldVisitorData(ctx context.Context) {
	n, err := a.store.CleanupVisitors(ctx, a.clock.Now().Add(-a.cfg.VisitorRetention))
	if err != nil {
		a.logger.Error("cleaning up visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		a.logger.Info("privacy cleanup removed visitor records", zap.Int64("count", n))
	}
}

// runRetention cleans up visitor data at start and then every interval.
func (a *app) runRetention(ctx context.Context, interval time.Duration) error {
	a.cleanupOldVisitorData(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.cleanupOldVisitorData(ctx)
		}
	}
}

func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": int(a.cfg.VisitorRetention.Hours() / 24),
			"email":     a.profile.Personal.Email,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		visitor := a.admin.hashIP(c.ClientIP())
		if err := a.admin.check(c.PostForm("username"), c.PostForm("password")); err != nil {
			a.logger.Warn("failed admin login", zap.String("visitor", visitor), zap.Error(err))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.admin.token, 3600*24, "/admin", "", a.cfg.GinMode == gin.ReleaseMode, true)
		a.logger.Info("admin login", zap.String("visitor", visitor))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(a.admin.middleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.clock.Now())
		if err != nil {
			a.adminError(c, "Failed to load statistics", err)
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.clock.Now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.adminError(c, "Failed to load visitors", err)
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := a.store.ListContacts(c.Request.Context(), 200)
		if err != nil {
			a.adminError(c, "Failed to load messages", err)
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": messages})
	})

	admin.GET("/transcripts", func(c *gin.Context) {
		transcripts, err := a.store.ListTranscripts(c.Request.Context(), 100)
		if err != nil {
			a.adminError(c, "Failed to load transcripts", err)
			return
		}
		c.HTML(http.StatusOK, "admin-transcripts.html", gin.H{"transcripts": transcripts})
	})

	admin.GET("/transcripts/:id", func(c *gin.Context) {
		turns, err := a.store.Transcript(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.HTML(http.StatusNotFound, "admin-error.html", gin.H{"error": "Transcript not found"})
			return
		}
		if err != nil {
			a.adminError(c, "Failed to load transcript", err)
			return
		}
		c.HTML(http.StatusOK, "admin-transcript.html", gin.H{"session": c.Param("id"), "turns": turns})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		a.cleanupOldVisitorData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.clock.Now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}

func (a *app) adminError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": msg})
}
