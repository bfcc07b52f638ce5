package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/api"
	"github.com/RuiQin/stride_store/internal/cart"
	"github.com/RuiQin/stride_store/internal/catalog"
	"github.com/RuiQin/stride_store/internal/config"
	"github.com/RuiQin/stride_store/internal/database"
	"github.com/RuiQin/stride_store/internal/kv"
	"github.com/RuiQin/stride_store/internal/limiter"
	"github.com/RuiQin/stride_store/internal/logger"
	mw "github.com/RuiQin/stride_store/internal/middleware"
	"github.com/RuiQin/stride_store/internal/repo"
	"github.com/RuiQin/stride_store/internal/resp"
	"github.com/RuiQin/stride_store/internal/service"
	"github.com/RuiQin/stride_store/internal/wishlist"
)

// AppDependencies 包含应用的所有依赖
type AppDependencies struct {
	CatalogHandler  *api.CatalogHandler
	SearchHandler   *api.SearchHandler
	CartHandler     *api.CartHandler
	WishlistHandler *api.WishlistHandler
	ReviewHandler   *api.ReviewHandler
	ImageHandler    *api.ImageHandler
	UserHandler     *api.UserHandler
	JWTService      service.JWTService
	// Limiter 为 nil 表示未启用限流
	Limiter     limiter.Limiter
	Idempotency func(http.Handler) http.Handler
}

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initDatabase 初始化数据库连接并执行迁移。
// 迁移在HTTP服务器启动前完成，保证处理请求时表结构已就绪。
func initDatabase(cfg *config.Config, lg *zap.Logger) (*database.DB, error) {
	db, err := database.New(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	migrationsDir := cfg.Migrations.Dir
	lg.Sugar().Infow("using migrations directory", "path", migrationsDir)

	if err := db.RunMigrations(migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %v", err)
	}

	return db, nil
}

// initStore 初始化快照存储。
// Redis 不可达时降级到内存存储，购物车和心愿单仍可工作，只是不跨实例。
func initStore(cfg *config.Config, lg *zap.Logger) kv.Store {
	switch cfg.Store.Backend {
	case "redis":
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		store, err := kv.NewRedisStore(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Sugar().Warnw("failed to connect to Redis, falling back to memory store", "error", err)
			return kv.NewMemoryStore()
		}
		lg.Sugar().Infow("snapshot store ready", "backend", "redis", "addr", addr, "ttl", cfg.Store.TTL)
		return store
	default:
		lg.Sugar().Infow("snapshot store ready", "backend", "memory", "ttl", cfg.Store.TTL)
		return kv.NewMemoryStore()
	}
}

// initLimiter 初始化限流器。
// 快照存储为 Redis 时限流状态共享，否则退化为单实例内存令牌桶。
func initLimiter(cfg *config.Config, store kv.Store, lg *zap.Logger) limiter.Limiter {
	if !cfg.RateLimit.Enabled {
		lg.Sugar().Infow("rate limiting disabled")
		return nil
	}

	limCfg := &limiter.Config{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	}

	if redisStore, ok := store.(*kv.RedisStore); ok {
		lim, err := limiter.NewRedisTokenBucket(redisStore.Client(), limCfg)
		if err != nil {
			lg.Sugar().Warnw("failed to init redis limiter, rate limiting disabled", "error", err)
			return nil
		}
		lg.Sugar().Infow("rate limiting enabled", "backend", "redis", "rate", limCfg.Rate, "window", limCfg.Window)
		return lim
	}

	lim, err := limiter.NewMemoryTokenBucket(limCfg)
	if err != nil {
		lg.Sugar().Warnw("failed to init memory limiter, rate limiting disabled", "error", err)
		return nil
	}
	lg.Sugar().Infow("rate limiting enabled", "backend", "memory", "rate", limCfg.Rate, "window", limCfg.Window)
	return lim
}

// initDependencies 初始化应用依赖（目录、引擎、仓储、服务、处理器）
func initDependencies(cfg *config.Config, db *database.DB, store kv.Store, lg *zap.Logger) (*AppDependencies, error) {
	// 商品目录在启动时一次性加载，非法数据直接拒绝启动
	catalogStore, err := catalog.Load(cfg.Catalog.Dir, lg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	carts := cart.NewManager(store, cfg.Store.TTL, lg)
	wishlists := wishlist.NewManager(store, cfg.Store.TTL, lg)

	userRepo := repo.NewUserRepository(db)
	userService := service.NewUserService(userRepo, lg)
	jwtService := service.NewJWTService(cfg, lg)

	reviewRepo := repo.NewReviewRepository(db)
	reviewService := service.NewReviewService(reviewRepo, catalogStore, lg)

	imageService := service.NewImageService(cfg.AI, lg)

	return &AppDependencies{
		CatalogHandler:  api.NewCatalogHandler(catalogStore, lg),
		SearchHandler:   api.NewSearchHandler(catalogStore, lg),
		CartHandler:     api.NewCartHandler(carts, catalogStore, lg),
		WishlistHandler: api.NewWishlistHandler(wishlists, catalogStore, lg),
		ReviewHandler:   api.NewReviewHandler(reviewService, catalogStore, lg),
		ImageHandler:    api.NewImageHandler(imageService, lg),
		UserHandler:     api.NewUserHandler(userService, jwtService, lg),
		JWTService:      jwtService,
		Limiter:         initLimiter(cfg, store, lg),
		Idempotency:     mw.Idempotency(store, 24*time.Hour, lg),
	}, nil
}

// setupRoutes 设置路由和中间件
func setupRoutes(cfg *config.Config, deps *AppDependencies, lg *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// 健康检查端点
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		reqID := mw.RequestIDFromContext(r.Context())
		data := map[string]any{
			"status":  "ok",
			"version": cfg.App.Version,
		}
		resp.OK(w, &data, reqID, "")
	})

	authMiddleware := mw.Auth(deps.JWTService, lg)

	// 限流器未启用时保护链为空操作
	protect := func(h http.Handler) http.Handler { return h }
	if deps.Limiter != nil {
		protect = mw.RateLimit(deps.Limiter, lg)
	}

	// 用户认证相关API路由（无需认证）
	mux.HandleFunc("/api/v1/auth/register", methodHandler(http.MethodPost, deps.UserHandler.Register))
	mux.HandleFunc("/api/v1/auth/login", methodHandler(http.MethodPost, deps.UserHandler.Login))
	mux.HandleFunc("/api/v1/auth/refresh", methodHandler(http.MethodPost, deps.UserHandler.RefreshToken))
	mux.Handle("/api/v1/users/profile", authMiddleware(http.HandlerFunc(deps.UserHandler.GetProfile)))

	// 目录相关API路由（无需认证）
	mux.HandleFunc("/api/v1/products", methodHandler(http.MethodGet, deps.CatalogHandler.ListProducts))
	mux.HandleFunc("/api/v1/categories", methodHandler(http.MethodGet, deps.CatalogHandler.ListCategories))
	mux.HandleFunc("/api/v1/collections", methodHandler(http.MethodGet, deps.CatalogHandler.ListCollections))
	mux.HandleFunc("/api/v1/content-blocks", methodHandler(http.MethodGet, deps.CatalogHandler.ListContentBlocks))

	// 商品详情与评价共享前缀，按路径后缀分发
	submitReview := authMiddleware(protect(http.HandlerFunc(deps.ReviewHandler.SubmitReview)))
	mux.HandleFunc("/api/v1/products/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/reviews/stats"):
			methodHandler(http.MethodGet, deps.ReviewHandler.ReviewStats)(w, r)
		case strings.HasSuffix(r.URL.Path, "/reviews/distribution"):
			methodHandler(http.MethodGet, deps.ReviewHandler.ReviewDistribution)(w, r)
		case strings.HasSuffix(r.URL.Path, "/reviews"):
			switch r.Method {
			case http.MethodGet:
				deps.ReviewHandler.ListReviews(w, r)
			case http.MethodPost:
				submitReview.ServeHTTP(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		default:
			methodHandler(http.MethodGet, deps.CatalogHandler.GetProduct)(w, r)
		}
	})

	// 搜索
	mux.HandleFunc("/api/v1/search", methodHandler(http.MethodGet, deps.SearchHandler.Search))
	mux.HandleFunc("/api/v1/search/suggestions", methodHandler(http.MethodGet, deps.SearchHandler.Suggestions))

	// 购物车（会话级，无需认证）；变更请求支持幂等键去重
	idem := deps.Idempotency
	mux.Handle("/api/v1/cart", idem(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.CartHandler.GetCart(w, r)
		case http.MethodDelete:
			deps.CartHandler.ClearCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/v1/cart/items", idem(methodHandler(http.MethodPost, deps.CartHandler.AddItem)))
	mux.Handle("/api/v1/cart/items/", idem(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			deps.CartHandler.UpdateItem(w, r)
		case http.MethodDelete:
			deps.CartHandler.RemoveItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.HandleFunc("/api/v1/cart/quote", methodHandler(http.MethodGet, deps.CartHandler.Quote))

	// 心愿单（会话级，无需认证）
	mux.Handle("/api/v1/wishlist", idem(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.WishlistHandler.GetWishlist(w, r)
		case http.MethodDelete:
			deps.WishlistHandler.ClearWishlist(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/v1/wishlist/items", idem(methodHandler(http.MethodPost, deps.WishlistHandler.AddItem)))
	mux.Handle("/api/v1/wishlist/items/", idem(methodHandler(http.MethodDelete, deps.WishlistHandler.RemoveItem)))

	// 图片生成（外呼AI网关，需限流保护）
	mux.Handle("/api/v1/images/generate", protect(methodHandler(http.MethodPost, deps.ImageHandler.Generate)))

	// 构建中间件链：请求进入时执行顺序为 access log → CORS → timeout → recovery → session → request ID
	handler := mw.RequestID(mux)
	handler = mw.Session(handler)
	handler = mw.Recovery(lg)(handler)
	handler = mw.Timeout(cfg.App.RequestTimeout)(handler)
	handler = mw.CORS(cfg.CORS)(handler)
	handler = mw.AccessLog(lg)(handler)

	return handler
}

// methodHandler 只允许指定方法的处理器包装
func methodHandler(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	// 2) 初始化数据库连接并执行迁移
	db, err := initDatabase(cfg, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize database", "err", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			lg.Sugar().Errorw("failed to close database connection", "err", err)
		}
	}()

	// 3) 初始化快照存储
	store := initStore(cfg, lg)
	defer func() {
		if err := store.Close(); err != nil {
			lg.Sugar().Errorw("failed to close snapshot store", "err", err)
		}
	}()

	// 4) 初始化应用依赖（目录、引擎、仓储、服务、处理器）
	deps, err := initDependencies(cfg, db, store, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize dependencies", "err", err)
	}

	// 5) 设置路由和中间件
	handler := setupRoutes(cfg, deps, lg)

	// 6) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
