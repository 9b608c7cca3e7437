package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/secret-keeper/internal/identity"
)

// RequireLogin は保護ルート用のセッション検証ミドルウェアを返します。
// 有効なセッションが無い場合はログインページへリダイレクトし、
// ハンドラー本体は実行されません。解決したIdentityはコンテキストに設定します。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(sessionKeyIdentity).(string)
		if !ok || id == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		ident, err := m.resolver.ByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				// セッションが存在しないIdentityを参照している（整合性障害）。
				// 匿名ユーザーとして黙って続行せず、セッションを破棄して再ログインさせる。
				log.Printf("session references missing identity %s; invalidating session", id)
				session.Clear()
				_ = session.Save()
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ContextIdentityKey, ident)
		c.Next()
	}
}

// CurrentIdentity はRequireLoginがコンテキストに設定したIdentityを取り出します。
func CurrentIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, false
	}
	ident, ok := v.(*identity.Identity)
	return ident, ok
}
