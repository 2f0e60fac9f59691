// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single error type raised by the engine. It carries a numeric
// HTTP-style status code along with the message, so the enclosing transport
// can map it to a response without inspecting strings.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return e.Message
}

// BadRequest returns a 400-class error
func BadRequest(format string, args ...interface{}) error {
	return Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a 404-class error
func NotFound(format string, args ...interface{}) error {
	return Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus returns the status code carried by err. Errors without a status
// code report http.StatusInternalServerError.
func ErrorStatus(err error) int {
	var e Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
