// Package storage содержит общие для всех реализаций хранилища ошибки.
package storage

import "errors"

var (
	// ErrUserExists пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound пользователь с таким email не найден.
	ErrUserNotFound = errors.New("user not found")
)
