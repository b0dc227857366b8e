// Package main provides localization for the framegrab CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration":        "設定",
		"Output":               "出力",
		"Decoding and Scaling": "デコードとスケーリング",
		"Debug":                "デバッグ",
		"Logging":              "ログ",

		// Root command
		"Extract the first video frame as a half-size JPEG thumbnail": "動画の最初のフレームを半分のサイズのJPEGサムネイルとして抽出",

		// Flags
		"YAML configuration file":                                               "YAML設定ファイル",
		"JPEG quality (1-100, default: 75)":                                     "JPEG品質（1-100、デフォルト: 75）",
		"Thumbnail file name inside the output directory (default: output.jpg)": "出力ディレクトリ内のサムネイルファイル名（デフォルト: output.jpg）",
		"Scaling algorithm (bilinear, nearest, approx-bilinear, catmull-rom)":   "スケーリングアルゴリズム（bilinear, nearest, approx-bilinear, catmull-rom）",
		"Flush the decoder when input ends before a frame was decoded":          "フレームをデコードする前に入力が終わった場合にデコーダーをフラッシュ",
		"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)":  "ffmpeg実行ファイルのパス（未指定時は FFMPEG_PATH 環境変数、次に PATH）",
		"Enable debug output":                                                   "デバッグ出力を有効化",
		"Directory for debug output":                                            "デバッグ出力のディレクトリ",
		"Output execution summary to file (Markdown format)":                    "実行サマリーをファイルに出力（Markdown形式）",
		"Log level (debug, info, warn, error)":                                  "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                               "全てのログ出力を抑制",

		// Error messages
		"Usage": "使い方",
		"Error": "エラー",
		"input path and output directory are required": "入力パスと出力ディレクトリが必要です",

		// Summary content
		"Frame Grab Summary": "フレーム抽出サマリー",
		"Generated":          "生成日時",
		"Item":               "項目",
		"Value":              "値",
		"Input":              "入力",
		"Path":               "パス",
		"Format":             "フォーマット",
		"Duration":           "再生時間",
		"Streams":            "ストリーム数",
		"Chapters":           "チャプター数",
		"Video Stream":       "映像ストリーム",
		"Index":              "インデックス",
		"Codec":              "コーデック",
		"Size":               "サイズ",
		"Decoding":           "デコード",
		"Packets Read":       "読み込んだパケット",
		"Packets Submitted":  "送信したパケット",
		"Frame Found":        "フレーム取得",
		"Flushed":            "フラッシュ済み",
		"Settings":           "設定",
		"Algorithm":          "アルゴリズム",
		"Quality":            "品質",
		"Flush":              "フラッシュ",
		"Backend":            "バックエンド",
		"File Size":          "ファイルサイズ",
		"Yes":                "はい",
		"No":                 "いいえ",

		"No frame was decoded; no thumbnail was written.": "フレームをデコードできなかったため、サムネイルは書き込まれていません。",
	})
}
