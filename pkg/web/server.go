// Package web runs the keep-alive HTTP server: uptime monitors ping it, and
// it exposes health, restart statistics and bot status as JSON.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Server represents the web server
type Server struct {
	engine      *gin.Engine
	webhookURL  string
	allowedHost *regexp.Regexp
	limit       RateLimitConfig

	mu  sync.Mutex
	srv *http.Server
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultRateLimit allows 100 requests per minute and client IP.
var DefaultRateLimit = RateLimitConfig{Window: time.Minute, MaxRequests: 100}

// NewServer creates the engine. allowedHosts is a regexp matched against
// the Host header; requests for other hosts are rejected and reported.
// An empty pattern accepts every host.
func NewServer(webhookURL, allowedHosts string) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		webhookURL: webhookURL,
		limit:      DefaultRateLimit,
	}
	if allowedHosts != "" {
		re, err := regexp.Compile(allowedHosts)
		if err != nil {
			return nil, fmt.Errorf("allowed hosts: %w", err)
		}
		s.allowedHost = re
	}

	s.engine.Use(gin.Recovery(), s.logsMiddleware(), s.rateLimitMiddleware())
	s.setupErrorHandlers()
	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.allowedHost != nil && !s.allowedHost.MatchString(c.Request.Host) {
			logger.Warn(fmt.Sprintf("Requête suspecte: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
			go s.sendLogToWebhook(requestLog(c), true)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		logger.Debug(fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
		c.Next()
	}
}

type reqInfo struct {
	method, path, ip, query string
	headers                 http.Header
}

// requestLog copies what the webhook needs before the context is recycled.
func requestLog(c *gin.Context) reqInfo {
	return reqInfo{
		method:  c.Request.Method,
		path:    c.Request.URL.Path,
		ip:      c.ClientIP(),
		query:   c.Request.URL.RawQuery,
		headers: c.Request.Header.Clone(),
	}
}

func (s *Server) sendLogToWebhook(r reqInfo, suspicious bool) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nouvelle requête %s", r.method)
	color := 0x00AE86
	if suspicious {
		title = fmt.Sprintf("💫 | Requête suspecte rejetée: %s %s", r.method, r.path)
		color = 0xFFA500
	}

	headers, _ := json.Marshal(r.headers)
	query := r.query
	if query == "" {
		query = "{}"
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{map[string]interface{}{
			"title": title,
			"description": fmt.Sprintf("> **Route:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				r.path, r.ip, string(headers), query),
			"color":     color,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(s.webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return
	}
	resp.Body.Close()
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	type window struct {
		count   int
		resetAt time.Time
	}
	var mu sync.Mutex
	clients := make(map[string]*window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		w, ok := clients[ip]
		if !ok || now.After(w.resetAt) {
			w = &window{resetAt: now.Add(s.limit.Window)}
			clients[ip] = w
		}
		w.count++
		count := w.count
		mu.Unlock()

		if count > s.limit.MaxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de requêtes, réessayez plus tard.",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La route demandée n'existe pas.",
			"status":  http.StatusNotFound,
		})
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "Méthode HTTP non autorisée pour cette route.",
			"status":  http.StatusMethodNotAllowed,
		})
	})
}

// Start serves on port until Shutdown.
func (s *Server) Start(port string) error {
	s.mu.Lock()
	s.srv = &http.Server{Addr: ":" + port, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	srv := s.srv
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("🚀 Serveur keep-alive sur http://0.0.0.0:%s", port), "WebServer")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Erreur du serveur web: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
