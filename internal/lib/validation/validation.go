// Package validation содержит чистые синхронные валидаторы полей формы
// регистрации и входа. Каждый валидатор возвращает nil либо ошибку,
// текст которой показывается пользователю рядом с полем.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ошибки валидации. Текст ошибки — готовое сообщение для поля формы.
var (
	ErrUsernameLength       = errors.New("length has to be in range (4 - 16)")
	ErrUsernameIllegalChars = errors.New("username contains illegal characters")
	ErrEmailRequired        = errors.New("you have to provide email address")
	ErrEmailFormat          = errors.New("invalid email format")
	ErrPasswordRequired     = errors.New("you have to provide password")
	ErrRepeatRequired       = errors.New("you have to repeat password")
	ErrPasswordMismatch     = errors.New("passwords don't match")
)

const (
	usernameMinLen = 4
	usernameMaxLen = 16
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	// Локальная часть без пробелов и разделителей, домен с точкой,
	// буквенный TLD длиной от двух символов.
	emailRe = regexp.MustCompile(`^[^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*@([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}$`)
)

// NormalizeUsername приводит имя пользователя к канонической форме:
// нижний регистр без окружающих пробелов. Все проверки, сравнения
// и запись в хранилище работают только с канонической формой.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Username проверяет длину и алфавит имени пользователя.
// Ожидает каноническую форму (см. NormalizeUsername).
func Username(username string) error {
	length := utf8.RuneCountInString(username)
	if length < usernameMinLen || length > usernameMaxLen {
		return ErrUsernameLength
	}
	if !usernameRe.MatchString(username) {
		return ErrUsernameIllegalChars
	}
	return nil
}

// EmailFormat проверяет, что адрес непустой и похож на обычный email.
func EmailFormat(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRe.MatchString(strings.ToLower(email)) {
		return ErrEmailFormat
	}
	return nil
}

// PasswordPresence проверяет, что пароль непустой.
func PasswordPresence(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Repeat проверяет повтор пароля: он обязателен и должен совпадать с паролем.
func Repeat(password, repeat string) error {
	if repeat == "" {
		return ErrRepeatRequired
	}
	if password != repeat {
		return ErrPasswordMismatch
	}
	return nil
}
