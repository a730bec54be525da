package httpx

import "net/http"

// 用户身份由外部认证网关校验后通过请求头传入，
// 本服务只负责读取并用它来圈定购物车/订单的归属。
const userIDHeader = "X-User-ID"

// UserID 返回请求携带的用户身份。
func UserID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

// RequireUser 拒绝没有用户身份的请求。
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserID(r) == "" {
			RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}
