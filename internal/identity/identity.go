// Package identity は登録ユーザーの永続化とパスワードハッシュ化を提供します。
package identity

import "time"

// Identity は登録済みユーザーを表す構造体です。
// ID はストアが作成時に割り当てる不変の識別子で、再利用されません。
// PasswordHash にはハッシュ化済みの文字列のみを保持し、
// 平文パスワードは保存も出力もしません。
type Identity struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
