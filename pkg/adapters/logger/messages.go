package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":               "パイプラインを開始します",
		"Opened %s: %s, %d streams":       "%s を開きました: %s, %d ストリーム",
		"Selected stream #%d (%s)":        "ストリーム #%d (%s) を選択しました",
		"Output saved to %s":              "出力を %s に保存しました",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Summary saved to %s":             "サマリーを %s に保存しました",
		"Using ffmpeg at %s":              "ffmpeg を使用します: %s",

		// Decoding
		"Decoding first frame of %dx%d %s stream": "%dx%d %s ストリームの最初のフレームをデコード中",

		// Inspect stage
		"Container %s: %d streams, %d chapters": "コンテナ %s: %d ストリーム, %d チャプター",

		// Selection stage
		"Best %s stream: #%d": "最適な %s ストリーム: #%d",

		// Extract stage
		"Decoded first frame after %d packets": "%d パケット目で最初のフレームをデコードしました",
		"Input exhausted after %d packets":     "%d パケットで入力が終了しました",
		"Flushing decoder":                     "デコーダーをフラッシュ中",

		// Export stage
		"Writing %dx%d JPEG at quality %d": "%dx%d の JPEG を品質 %d で書き込み中",

		// Warnings
		"No frame decoded after %d packets, nothing written": "%d パケットを読み込みましたがフレームをデコードできませんでした。出力はありません",
		"Failed to save debug output: %s":                    "デバッグ出力の保存に失敗しました: %s",
		"Failed to write summary: %s":                        "サマリーの書き込みに失敗しました: %s",

		// Errors
		"Failed to initialise decoder: %s": "デコーダーの初期化に失敗しました: %s",
		"Failed to open input: %s":         "入力を開けませんでした: %s",
		"Failed to print metadata: %s":     "メタデータの出力に失敗しました: %s",
		"Failed to select stream: %s":      "ストリームの選択に失敗しました: %s",
		"Failed to create decoder: %s":     "デコーダーの作成に失敗しました: %s",
		"Failed to create scaler: %s":      "スケーラーの作成に失敗しました: %s",
		"Failed to extract frame: %s":      "フレームの抽出に失敗しました: %s",
		"Failed to write output: %s":       "出力の書き込みに失敗しました: %s",
	})
}
