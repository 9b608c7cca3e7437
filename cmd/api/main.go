// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/secret-keeper/internal/auth"
	"github.com/yourusername/secret-keeper/internal/config"
	"github.com/yourusername/secret-keeper/internal/identity"
	"github.com/yourusername/secret-keeper/internal/storage"
	"github.com/yourusername/secret-keeper/internal/web"
)

func main() {
	// 設定の読み込み（SESSION_SECRET欠落はここで起動失敗になる）
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// 認証情報ストアの初期化
	store, err := identity.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open identity store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// 配布アセットの健全性チェック（欠落時はリクエスト時に404になる）
	assets := storage.NewAssets(cfg.StaticDir)
	if pages, err := assets.VerifyDownload(); err != nil {
		log.Printf("Download asset check failed: %v", err)
	} else {
		log.Printf("Download asset ready: %s (%d pages)", assets.DownloadPath(), pages)
	}

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())

	// セッションストアの設定（クッキー署名鍵は必須）
	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, cookieStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, store, assets)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "secret-keeper",
		"version": "0.1.0",
	})
}

// setupRoutes は画面と認証周りの配線を行います。
func setupRoutes(router *gin.Engine, store *identity.Store, assets *storage.Assets) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	authManager := auth.NewManager(store)
	handler := web.NewHandler(store, identity.NewBcryptHasher(), authManager, assets)

	// 公開ルート
	router.GET("/", handler.Home)
	router.GET("/index.html", handler.Home)
	router.GET("/register", handler.RegisterForm)
	router.POST("/register", handler.Register)
	router.GET("/login", handler.LoginForm)
	router.POST("/login", handler.Login)
	router.GET("/logout", handler.Logout)

	// 保護ルート（セッション必須）
	protected := router.Group("")
	protected.Use(authManager.RequireLogin())
	{
		protected.GET("/secrets", handler.Secrets)
		protected.GET("/download", handler.Download)
		protected.POST("/download", handler.Download)
	}
}
