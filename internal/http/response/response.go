// Package response содержит типы JSON-ответов HTTP-обработчиков
// и функции для их формирования.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Сообщения об ошибках, которые видит клиент.
const (
	MsgInvalidData   = "Invalid data format."
	MsgUserExists    = "User with this email already exists."
	MsgNotRegistered = "Email not registered. Please sign up."
	MsgSigninOK      = "Sign in successful."
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"Email is required."`
}

// SignupResponse тело успешного ответа на регистрацию.
type SignupResponse struct {
	Success bool   `json:"success" example:"true"`
	UserID  string `json:"user_id" example:"65f1c0ffee0000000000abcd"`
}

// SigninResponse тело успешного ответа на вход.
type SigninResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Sign in successful."`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Signup возвращает успешный ответ регистрации.
func Signup(id string) SignupResponse {
	return SignupResponse{Success: true, UserID: id}
}

// Signin возвращает успешный ответ входа.
func Signin() SigninResponse {
	return SigninResponse{Success: true, Message: MsgSigninOK}
}

// ValidationError формирует ErrorResponse из ошибок валидации, по одному предложению на поле.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is required.", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is not valid.", err.Field()))
		}
	}
	return ErrorResponse{Error: strings.Join(errsMsgs, " ")}
}
