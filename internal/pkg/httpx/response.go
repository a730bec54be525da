package httpx

import (
	"encoding/json"
	"net/http"
)

// envelope 是对外统一的响应结构：成功时带 data，失败时带 message。
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RespondData 写出一个成功响应。
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// RespondError 写出一个失败响应。message 直接面向终端用户，
// 内部错误细节不应出现在这里。
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}
