// Package web はフォームベースの登録・ログインと保護ページのハンドラーを提供します。
package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/secret-keeper/internal/auth"
	"github.com/yourusername/secret-keeper/internal/identity"
	"github.com/yourusername/secret-keeper/internal/storage"
)

// Handler は全ページのHTTPハンドラーをまとめた構造体です。
type Handler struct {
	store  *identity.Store
	hasher identity.PasswordHasher
	auth   *auth.Manager
	assets *storage.Assets
}

// NewHandler はハンドラーを作成します。
func NewHandler(store *identity.Store, hasher identity.PasswordHasher, manager *auth.Manager, assets *storage.Assets) *Handler {
	return &Handler{store: store, hasher: hasher, auth: manager, assets: assets}
}

// pageData は各テンプレートに渡す共通のビューデータです。
type pageData struct {
	IsAuth  bool
	Name    string
	Warning bool
}

func (h *Handler) currentPage(c *gin.Context) pageData {
	ident, ok := h.auth.SessionIdentity(c)
	if !ok {
		return pageData{}
	}
	return pageData{IsAuth: true, Name: ident.DisplayName}
}

// Home は GET / のハンドラーです。ログイン済みの場合は表示名を出します。
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.currentPage(c))
}

// RegisterForm は GET /register のハンドラーです。空のフォームを表示します。
func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.currentPage(c))
}

// Register は POST /register のハンドラーです。
// email 重複時はレコードを作成せず、警告付きでフォームを再表示します。
// 成功時はホームへリダイレクトします（セッションは作成しません）。
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	name := c.PostForm("name")
	password := c.PostForm("password")

	hashed, err := h.hasher.Hash(password)
	if err != nil {
		log.Printf("password hashing failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	// 早期リジェクト。一意性の最終保証はUNIQUE制約側にある。
	if _, err := h.store.ByEmail(c.Request.Context(), email); err == nil {
		page := h.currentPage(c)
		page.Warning = true
		c.HTML(http.StatusOK, "register.html", page)
		return
	} else if !errors.Is(err, identity.ErrNotFound) {
		log.Printf("identity lookup failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	ident := &identity.Identity{
		Email:        email,
		DisplayName:  name,
		PasswordHash: hashed,
	}
	if err := h.store.Create(c.Request.Context(), ident); err != nil {
		// 同時登録との競合はここでUNIQUE制約違反として現れる
		if errors.Is(err, identity.ErrDuplicateEmail) {
			page := h.currentPage(c)
			page.Warning = true
			c.HTML(http.StatusOK, "register.html", page)
			return
		}
		log.Printf("identity create failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// LoginForm は GET /login のハンドラーです。空のフォームを表示します。
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.currentPage(c))
}

// Login は POST /login のハンドラーです。
// 未登録のメールアドレスはパスワード不一致と同じ
// 「認証情報が無効」扱いで、ユーザー列挙を避けます。
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	ident, err := h.store.ByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			c.HTML(http.StatusOK, "login.html", pageData{Warning: true})
			return
		}
		log.Printf("identity lookup failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if !h.hasher.Verify(ident.PasswordHash, password) {
		c.HTML(http.StatusOK, "login.html", pageData{Warning: true})
		return
	}

	if err := h.auth.LoginIdentity(c, ident.ID); err != nil {
		log.Printf("session save failed: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.Redirect(http.StatusFound, "/secrets")
}

// Secrets は GET /secrets のハンドラーです。RequireLoginの背後に置きます。
func (h *Handler) Secrets(c *gin.Context) {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		// RequireLoginを通過していればここには到達しない
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "secrets.html", pageData{IsAuth: true, Name: ident.DisplayName})
}

// Logout は GET /logout のハンドラーです。
// アクティブなセッションが無くてもエラーにせずホームへ戻します。
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c); err != nil {
		log.Printf("session clear failed: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// Download は /download のハンドラーです。RequireLoginの背後に置きます。
// 固定パスのPDFを返し、ファイルが存在しない場合は404を返します。
func (h *Handler) Download(c *gin.Context) {
	if _, err := h.assets.StatDownload(); err != nil {
		log.Printf("download asset missing: %v", err)
		c.String(http.StatusNotFound, "not found")
		return
	}

	c.Header("Content-Type", h.assets.ContentType())
	c.File(h.assets.DownloadPath())
}
