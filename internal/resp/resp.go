// Package resp 定义统一的HTTP响应封装。
// 所有接口返回 {code, message, data, request_id} 结构，
// 业务码与HTTP状态码分离，便于前端统一处理。
package resp

import (
	"encoding/json"
	"net/http"
)

// Code 业务响应码
type Code int

const (
	CodeOK              Code = 0
	CodeInvalidParam    Code = 10001
	CodeNotFound        Code = 10002
	CodeConflict        Code = 10003
	CodeUnauthorized    Code = 10004
	CodeTimeout         Code = 10005
	CodeTooManyRequests Code = 10006
	CodeInternalError   Code = 20000
)

// HTTPStatusFromCode 将业务码映射为HTTP状态码
func HTTPStatusFromCode(code Code) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusServiceUnavailable
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Body 响应体结构
type Body struct {
	Code      Code        `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// OK 写入成功响应
func OK(w http.ResponseWriter, data interface{}, requestID, traceID string) {
	write(w, http.StatusOK, &Body{
		Code:      CodeOK,
		Message:   "ok",
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Created 写入资源创建成功响应
func Created(w http.ResponseWriter, data interface{}, requestID, traceID string) {
	write(w, http.StatusCreated, &Body{
		Code:      CodeOK,
		Message:   "created",
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Error 写入错误响应
func Error(w http.ResponseWriter, status int, code Code, message, requestID, traceID string) {
	write(w, status, &Body{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

func write(w http.ResponseWriter, status int, body *Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// 编码失败时已无法补救，忽略错误
	_ = json.NewEncoder(w).Encode(body)
}
