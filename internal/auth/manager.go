// Package auth はセッションによる認証・認可機能を提供します。
package auth

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/secret-keeper/internal/identity"
)

const (
	// SessionCookieName はセッションクッキーの名前です。
	SessionCookieName = "sk_session"

	sessionKeyIdentity = "identity_id"
)

// ContextIdentityKey は、ハンドラー間でログイン済みIdentityを共有するためのキーです。
const ContextIdentityKey = "auth.identity"

// Resolver はセッションManagerが必要とする唯一の検索操作を公開するインターフェースです。
// ストア実装全体ではなく、IDによる解決のみに依存します。
type Resolver interface {
	ByID(ctx context.Context, id string) (*identity.Identity, error)
}

// Manager はセッションの発行・解決・破棄をまとめた構造体です。
type Manager struct {
	resolver Resolver
}

// NewManager は認証マネージャーを作成します。
func NewManager(resolver Resolver) *Manager {
	return &Manager{resolver: resolver}
}

// LoginIdentity は指定したIdentityに紐付くセッションを確立します。
func (m *Manager) LoginIdentity(c *gin.Context, id string) error {
	session := sessions.Default(c)
	session.Set(sessionKeyIdentity, id)
	return session.Save()
}

// Logout は現在のセッションを破棄します。
// セッションが存在しない場合も安全に呼び出せます（冪等）。
func (m *Manager) Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// SessionIdentity は現在のリクエストに紐付くIdentityを返します。
// RequireLoginを通過していないルート（ホーム等）でも利用できるよう、
// 未ログインや解決失敗は ok=false として通常の分岐で扱います。
func (m *Manager) SessionIdentity(c *gin.Context) (*identity.Identity, bool) {
	if v, exists := c.Get(ContextIdentityKey); exists {
		if ident, ok := v.(*identity.Identity); ok {
			return ident, true
		}
	}

	session := sessions.Default(c)
	id, ok := session.Get(sessionKeyIdentity).(string)
	if !ok || id == "" {
		return nil, false
	}

	ident, err := m.resolver.ByID(c.Request.Context(), id)
	if err != nil {
		return nil, false
	}
	return ident, true
}
