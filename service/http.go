package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/metrics"
	"github.com/mycontent/recserve/serving"
	"github.com/mycontent/recserve/sink"
)

// 请求参数边界：n 超出 [1, MaxN] 直接拒绝，不做静默裁剪。
const (
	DefaultN = 5
	MaxN     = 50
)

// Server 是 HTTP 服务层，把推荐引擎、点击采集和观测拼装成 REST API。
type Server struct {
	Cache   *serving.Cache
	Sink    sink.Sink
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// ErrorResponse 是统一的错误响应体。
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Router 构建路由。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/recommend", s.handleRecommend)
	r.GET("/users", s.handleUsers)
	r.GET("/users/:id", s.handleUserInfo)
	r.GET("/model/info", s.handleModelInfo)
	r.GET("/articles/popular", s.handlePopular)
	r.POST("/track", s.handleTrack)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": s.Cache.Loaded(),
	})
}

// RecommendRequest 是推荐请求体。
type RecommendRequest struct {
	UserID      int64 `json:"user_id"`
	N           int   `json:"n"`
	ExcludeSeen *bool `json:"exclude_seen"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	start := time.Now()

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.reject(c, "recommend", http.StatusBadRequest, core.ErrorCodeInvalidInput, "invalid request body")
		return
	}
	if req.UserID < 1 {
		s.reject(c, "recommend", http.StatusBadRequest, core.ErrorCodeInvalidInput, "user_id must be a positive integer")
		return
	}
	if req.N == 0 {
		req.N = DefaultN
	}
	if req.N < 1 || req.N > MaxN {
		s.reject(c, "recommend", http.StatusBadRequest, core.ErrorCodeInvalidInput, "n must be between 1 and 50")
		return
	}
	excludeSeen := true
	if req.ExcludeSeen != nil {
		excludeSeen = *req.ExcludeSeen
	}

	engine, err := s.Cache.Engine()
	if err != nil {
		s.reject(c, "recommend", http.StatusServiceUnavailable, core.ErrorCodeUnavailable, "model unavailable")
		return
	}

	rec, err := engine.RecommendEnriched(c.Request.Context(), req.UserID, req.N, excludeSeen)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("recommend failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		}
		s.reject(c, "recommend", http.StatusInternalServerError, core.ErrorCodeInternalError, "internal error")
		return
	}

	if s.Metrics != nil {
		s.Metrics.ObserveRequest("recommend", "ok", time.Since(start))
		if rec.Outcome != "model" {
			s.Metrics.ObserveFallback(string(rec.Outcome))
		}
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleUserInfo(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID < 1 {
		s.reject(c, "user_info", http.StatusBadRequest, core.ErrorCodeInvalidInput, "user id must be a positive integer")
		return
	}

	engine, err := s.Cache.Engine()
	if err != nil {
		s.reject(c, "user_info", http.StatusServiceUnavailable, core.ErrorCodeUnavailable, "model unavailable")
		return
	}

	info := engine.UserInfo(userID)
	modelInfo := engine.ModelInfo()
	c.JSON(http.StatusOK, gin.H{
		"user_id":     info.UserID,
		"is_known":    info.IsKnown,
		"items_seen":  info.ItemsSeen,
		"total_users": modelInfo.NUsers,
		"total_items": modelInfo.NItems,
	})
}

func (s *Server) handleUsers(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 1000 {
		s.reject(c, "users", http.StatusBadRequest, core.ErrorCodeInvalidInput, "limit must be between 1 and 1000")
		return
	}

	engine, err := s.Cache.Engine()
	if err != nil {
		s.reject(c, "users", http.StatusServiceUnavailable, core.ErrorCodeUnavailable, "model unavailable")
		return
	}

	users, total := engine.Users(limit, offset)
	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleModelInfo(c *gin.Context) {
	engine, err := s.Cache.Engine()
	if err != nil {
		s.reject(c, "model_info", http.StatusServiceUnavailable, core.ErrorCodeUnavailable, "model unavailable")
		return
	}
	c.JSON(http.StatusOK, engine.ModelInfo())
}

func (s *Server) handlePopular(c *gin.Context) {
	n := queryInt(c, "n", 10)
	if n < 1 || n > MaxN {
		s.reject(c, "popular", http.StatusBadRequest, core.ErrorCodeInvalidInput, "n must be between 1 and 50")
		return
	}

	engine, err := s.Cache.Engine()
	if err != nil {
		s.reject(c, "popular", http.StatusServiceUnavailable, core.ErrorCodeUnavailable, "model unavailable")
		return
	}

	items := engine.PopularArticles(n)
	articles := make([]gin.H, 0, len(items))
	for _, it := range items {
		articles = append(articles, gin.H{
			"article_id": it.ID,
			"clicks":     int64(it.Score),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"count":    len(articles),
	})
}

func (s *Server) handleTrack(c *gin.Context) {
	var ev sink.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		s.reject(c, "track", http.StatusBadRequest, core.ErrorCodeInvalidInput, "invalid request body")
		return
	}

	if err := s.Sink.Track(c.Request.Context(), &ev); err != nil {
		if core.IsInvalidInput(err) {
			s.reject(c, "track", http.StatusBadRequest, core.ErrorCodeInvalidInput, err.Error())
			return
		}
		if s.Logger != nil {
			s.Logger.Error("track failed", zap.Error(err))
		}
		s.reject(c, "track", http.StatusServiceUnavailable, core.ErrorCodeUnavailable, "event sink unavailable")
		return
	}

	if s.Metrics != nil {
		s.Metrics.ObserveTrackedEvent(ev.InteractionType)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"event_id": ev.EventID,
	})
}

func (s *Server) reject(c *gin.Context, endpoint string, status int, code, msg string) {
	if s.Metrics != nil {
		s.Metrics.ObserveRequest(endpoint, code, 0)
	}
	c.JSON(status, ErrorResponse{Code: code, Message: msg})
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
