package identity

import "golang.org/x/crypto/bcrypt"

// PasswordHasher はパスワードのハッシュ化と検証を抽象化するインターフェースです。
// アルゴリズムを差し替えられるよう、ドメイン層はこのインターフェースにのみ依存します。
type PasswordHasher interface {
	// Hash は平文パスワードからソルト付きハッシュ文字列を生成します。
	Hash(password string) (string, error)

	// Verify は平文パスワードが保存済みハッシュと一致するかを検証します。
	// 比較は定数時間で行われます。
	Verify(hash, password string) bool
}

// BcryptHasher は bcrypt によるPasswordHasherの実装です。
// 生成されるハッシュはアルゴリズムタグとコストを含む自己記述形式で、
// ソルトは呼び出しごとにランダムに付与されます。
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher はデフォルトコストのBcryptHasherを作成します。
func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash は平文パスワードをbcryptでハッシュ化します。
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify は平文パスワードをハッシュと照合します。
func (h BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
