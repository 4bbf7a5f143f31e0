package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
)

// Bot is the view of the Discord client the routes report on.
type Bot interface {
	IsReady() bool
	GuildCount() int
	BotUser() *discordgo.User
}

// Check reports the state of a dependency for /api/status.
type Check struct {
	Name   string
	Status func() (label string, online bool)
}

// Routes holds what the keep-alive handlers need.
type Routes struct {
	Name    string
	Version string
	Started time.Time
	Keeper  *Keeper
	Sampler *Sampler
	Checks  []Check

	now func() time.Time
}

// Mount registers every route on s.
func (r *Routes) Mount(s *Server) {
	if r.now == nil {
		r.now = time.Now
	}
	if r.Sampler == nil {
		r.Sampler = NewSampler()
	}

	e := s.Engine()
	e.GET("/", r.home)
	e.GET("/health", r.health)
	e.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	e.GET("/external-health-check", r.externalHealth)

	api := e.Group("/api")
	{
		api.GET("/status", r.status)
		api.GET("/bot", r.botInfo)
	}
}

// FormatUptime renders d as "Xj Xh Xm Xs".
func FormatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60
	return fmt.Sprintf("%dj %dh %dm %ds", days, hours, minutes, seconds)
}

func (r *Routes) ready() bool {
	return r.Keeper != nil && r.Keeper.Bot != nil && r.Keeper.Bot.IsReady()
}

func (r *Routes) onlineLabel() string {
	if r.ready() {
		return "online"
	}
	return "offline"
}

func (r *Routes) home(c *gin.Context) {
	m := r.Sampler.Read()
	c.JSON(http.StatusOK, gin.H{
		"name":    r.Name,
		"version": r.Version,
		"status":  r.onlineLabel(),
		"uptime":  FormatUptime(r.now().Sub(r.Started)),
		"cpu":     m.CPUPercent,
		"memory":  m.MemoryPercent,
		"endpoints": []string{
			"/", "/health", "/ping", "/external-health-check", "/api/status", "/api/bot",
		},
	})
}

func (r *Routes) health(c *gin.Context) {
	start := r.now()
	online := r.onlineLabel()
	pingMs := float64(r.now().Sub(start).Microseconds()) / 1000

	body := gin.H{
		"status":        online,
		"uptime":        FormatUptime(r.now().Sub(r.Started)),
		"restart_count": 0,
		"last_restart":  nil,
		"system":        r.Sampler.Read(),
		"ping":          gin.H{"response_time_ms": pingMs},
		"timestamp":     r.now().Format(time.RFC3339),
	}
	if r.Keeper != nil && r.Keeper.Tracker != nil {
		st := r.Keeper.Tracker.Stats()
		body["restart_count"] = st.TotalRestarts
		if st.LastRestart != nil {
			body["last_restart"] = st.LastRestart.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, body)
}

func (r *Routes) externalHealth(c *gin.Context) {
	if r.Keeper != nil && r.Keeper.Check(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "restarting", "message": "Bot redémarré"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "online", "message": r.Name + " est en ligne"})
}

func (r *Routes) status(c *gin.Context) {
	checks := gin.H{}
	for _, ch := range r.Checks {
		label, online := ch.Status()
		checks[ch.Name] = gin.H{"status": label, "isOnline": online}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
		"bot":    gin.H{"isOnline": r.ready()},
	})
}

func (r *Routes) botInfo(c *gin.Context) {
	if !r.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "Le bot n'est pas disponible pour le moment.",
		})
		return
	}
	bot := r.Keeper.Bot
	body := gin.H{"guilds": bot.GuildCount(), "isReady": true}
	if u := bot.BotUser(); u != nil {
		body["id"] = u.ID
		body["username"] = u.Username
		body["avatar"] = u.Avatar
	}
	c.JSON(http.StatusOK, body)
}
