// PaiYou 排班求解服务
// 主程序入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/internal/config"
	"github.com/paiyou/paiyou/internal/database"
	"github.com/paiyou/paiyou/internal/handler"
	"github.com/paiyou/paiyou/internal/metrics"
	"github.com/paiyou/paiyou/internal/repository"
	"github.com/paiyou/paiyou/pkg/logger"
	"github.com/paiyou/paiyou/pkg/solver"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	// 打印版本信息
	fmt.Printf("PaiYou 排班求解服务 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 求解引擎与运行存储
	engine := solver.NewEngine(cfg.Solver.TimeLimit)

	var store repository.RunStore = repository.NewMemoryRunStore()
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("数据库连接失败")
		}
		defer db.Close()
		store = repository.NewSolverRunRepository(db)
	} else {
		logger.Info().Msg("数据库未启用，运行记录仅存内存")
	}

	solverHandler := handler.NewSolverHandler(engine, store)
	validateHandler := handler.NewValidateHandler()

	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Health(ctx); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"status":"%s","service":"paiyou"}`, status)
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "PaiYou 排班求解 API v1",
			"endpoints": {
				"solver": {
					"solve": "POST /api/v1/solver/solve",
					"runs": "GET /api/v1/solver/runs",
					"run": "GET /api/v1/solver/runs/{run_id}",
					"assignments": "GET /api/v1/solver/runs/{run_id}/assignments",
					"errors": "GET /api/v1/solver/runs/{run_id}/errors"
				},
				"reports": {
					"run": "GET /api/v1/reports/{run_id}"
				},
				"schedule": {
					"validate": "POST /api/v1/schedule/validate"
				}
			}
		}`))
	})

	// 求解 API
	mux.HandleFunc("POST /api/v1/solver/solve", solverHandler.Solve)
	mux.HandleFunc("GET /api/v1/solver/runs", solverHandler.ListRuns)
	mux.HandleFunc("GET /api/v1/solver/runs/{run_id}", solverHandler.GetRun)
	mux.HandleFunc("GET /api/v1/solver/runs/{run_id}/assignments", solverHandler.GetAssignments)
	mux.HandleFunc("GET /api/v1/solver/runs/{run_id}/errors", solverHandler.GetErrors)

	// 报告 API
	mux.HandleFunc("GET /api/v1/reports/{run_id}", solverHandler.Report)

	// 排班校验 API
	mux.HandleFunc("POST /api/v1/schedule/validate", validateHandler.Validate)

	// 员工与班次管理 API（需要数据库）
	if db != nil {
		employeeRepo := repository.NewEmployeeRepository(db)
		shiftRepo := repository.NewShiftRepository(db)
		solverHandler.WithRepositories(employeeRepo, shiftRepo)

		employeeHandler := handler.NewEmployeeHandler(employeeRepo)
		mux.HandleFunc("POST /api/v1/employees", employeeHandler.Create)
		mux.HandleFunc("GET /api/v1/employees", employeeHandler.List)
		mux.HandleFunc("GET /api/v1/employees/{id}", employeeHandler.Get)
		mux.HandleFunc("PUT /api/v1/employees/{id}", employeeHandler.Update)
		mux.HandleFunc("DELETE /api/v1/employees/{id}", employeeHandler.Delete)

		shiftHandler := handler.NewShiftHandler(shiftRepo)
		mux.HandleFunc("POST /api/v1/shifts", shiftHandler.Create)
		mux.HandleFunc("GET /api/v1/shifts", shiftHandler.List)
		mux.HandleFunc("GET /api/v1/shifts/{id}", shiftHandler.Get)
		mux.HandleFunc("PUT /api/v1/shifts/{id}", shiftHandler.Update)
		mux.HandleFunc("DELETE /api/v1/shifts/{id}", shiftHandler.Delete)
	}

	// ========================================
	// 监控端点
	// ========================================

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())

		// 定期上报数据库连接池规模
		if db != nil {
			go func() {
				ticker := time.NewTicker(15 * time.Second)
				defer ticker.Stop()
				for range ticker.C {
					db.ReportPoolMetrics()
				}
			}()
		}
	}

	// ========================================
	// 中间件
	// ========================================

	// 中间件执行顺序：requestID -> rateLimit -> cors -> logging -> handler
	root := requestIDMiddleware(rateLimitMiddleware(cfg.API.RateLimit, corsMiddleware(cfg.API.CORS, loggingMiddleware(mux))))

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Dur("solver_time_limit", engine.TimeLimit()).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID, _ := r.Context().Value("request_id").(string)

		// 包装ResponseWriter以捕获状态码
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("请求处理")

		metrics.RecordRequestMetrics(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

// responseWriter 包装ResponseWriter以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RateLimiter 简单的令牌桶限流器
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // 每秒添加的令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter 创建限流器
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     requestsPerSecond,
		maxTokens:  requestsPerSecond * 2, // 允许突发流量
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// rateLimitMiddleware 限流中间件
func rateLimitMiddleware(requestsPerSecond int, next http.Handler) http.Handler {
	limiter := NewRateLimiter(float64(requestsPerSecond))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   true,
				"code":    "RATE_LIMITED",
				"message": "请求过于频繁，请稍后重试",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORS中间件，按配置放行来源
func corsMiddleware(cors config.CORSConfig, next http.Handler) http.Handler {
	if !cors.Enabled {
		return next
	}

	wildcard := false
	allowed := make(map[string]bool, len(cors.Origins))
	for _, origin := range cors.Origins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wildcard {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
