package models

import "fmt"

const ERROR_CODE_TERM_EXISTS = "term_exists"

type ErrorWoo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status     int   `json:"status"`
		ResourceId int64 `json:"resource_id"`
	} `json:"data"`
}

func (e *ErrorWoo) Error() string {
	return fmt.Sprintf("code:%s; message:%s; status:%d;", e.Code, e.Message, e.Data.Status)
}
