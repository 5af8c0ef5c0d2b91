package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/orirot10/shortstay-api/internal/model"
)

// ErrorResponseBody はmodel.APIErrorをJSONレスポンスに写す統一フォーマット。
// 機械判定用のcodeに加え、原因カテゴリとユーザー向けの対処方法を含む。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse はAPIErrorを統一フォーマットのJSONとして書き込む。
// ミドルウェアとハンドラーのエラー境界が共通で使用する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は500の定型レスポンスを書き込む。
// 内部の失敗詳細はレスポンスに含めず、ログ側にのみ残す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
