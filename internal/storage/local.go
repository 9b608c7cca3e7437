// Package storage は配布ファイルの解決と検証を提供します。
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// ダウンロード対象は固定の論理名のみ。パスをリクエスト入力から
// 組み立てないことでパストラバーサルを構造的に排除する。
const downloadFilename = "cheat_sheet.pdf"

// Assets はローカルファイルシステム上の静的アセットへのアクセスを提供します。
type Assets struct {
	root string
}

// NewAssets は静的ファイルのルートディレクトリを指すAssetsを作成します。
func NewAssets(root string) *Assets {
	return &Assets{root: root}
}

// DownloadPath は認証済みユーザーに配布する固定PDFのパスを返します。
func (a *Assets) DownloadPath() string {
	return filepath.Join(a.root, "files", downloadFilename)
}

// DownloadFilename は配布ファイルの論理名を返します。
func (a *Assets) DownloadFilename() string {
	return downloadFilename
}

// StatDownload は配布ファイルの存在を確認します。
// ファイルが無い場合は os.ErrNotExist を包んだエラーを返します。
func (a *Assets) StatDownload() (os.FileInfo, error) {
	info, err := os.Stat(a.DownloadPath())
	if err != nil {
		return nil, fmt.Errorf("download asset unavailable: %w", err)
	}
	return info, nil
}

// VerifyDownload は起動時の健全性チェックとして配布PDFを検証し、
// ページ数を返します。ファイルが無い・PDFとして壊れている場合はエラーです。
func (a *Assets) VerifyDownload() (int, error) {
	if _, err := a.StatDownload(); err != nil {
		return 0, err
	}
	pages, err := pdfapi.PageCountFile(a.DownloadPath())
	if err != nil {
		return 0, fmt.Errorf("download asset is not a valid PDF: %w", err)
	}
	return pages, nil
}

// ContentType は配布ファイルのContent-Typeを内容から判定します。
// 判定できない場合はPDFとして扱います。
func (a *Assets) ContentType() string {
	mtype, err := mimetype.DetectFile(a.DownloadPath())
	if err != nil {
		return "application/pdf"
	}
	return mtype.String()
}
