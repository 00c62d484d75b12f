package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
)

var (
	ErrMissingFile    = errors.New("missing file field")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"HTTP status text"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Error detail"`
}

func HandleError(resp *restful.Response, err error, status int) {
	errorResponse := ErrorResponse{
		Error: http.StatusText(status),
		Code:  status,
	}
	if err != nil {
		errorResponse.Details = err.Error()
	}

	resp.WriteHeaderAndEntity(status, errorResponse)
}
