// Package passtrength оценивает устойчивость пароля к подбору по шкале 0..4
// на основе алгоритма zxcvbn. Оценка детерминированная и не выполняет I/O.
package passtrength

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// Score — дискретный уровень устойчивости пароля.
type Score int

// Уровни устойчивости от худшего к лучшему.
const (
	TerriblyBad Score = iota
	Bad
	Weak
	Good
	Strong
)

// RegistrationMinScore — минимальный уровень, допускаемый при регистрации.
// Пароли с оценкой Bad и ниже отклоняются; при входе оценка не проверяется.
const RegistrationMinScore = Weak

var labels = [...]string{
	TerriblyBad: "Terribly bad",
	Bad:         "Bad",
	Weak:        "Weak",
	Good:        "Good",
	Strong:      "Strong",
}

// String возвращает человеко‑читаемую метку уровня.
func (s Score) String() string {
	if s < TerriblyBad || s > Strong {
		return "Unknown"
	}
	return labels[s]
}

// Evaluate возвращает оценку устойчивости пароля.
// Пустой пароль получает минимальную оценку; проверку на обязательность
// поля выполняют валидаторы до вызова Evaluate.
func Evaluate(password string) Score {
	if password == "" {
		return TerriblyBad
	}
	return Score(zxcvbn.PasswordStrength(password, nil).Score)
}
