package validation

import (
	"fmt"
	"unicode"
)

const (
	MinPasswordLength = 6
	// bcrypt учитывает только первые 72 байта.
	MaxPasswordBytes = 72
)

// ValidatePassword проверяет пароль: от 6 символов, не длиннее 72 байт,
// без управляющих символов.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("пароль слишком длинный")
	}

	for _, char := range password {
		if unicode.IsControl(char) {
			return fmt.Errorf("пароль содержит недопустимые символы")
		}
	}

	return nil
}
