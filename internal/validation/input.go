package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength        = 2
	MaxNameLength        = 50
	MinGigTitleLength    = 5
	MaxGigTitleLength    = 100
	MinGigDescLength     = 20
	MaxGigDescLength     = 2000
	MinProposalLength    = 20
	MaxProposalLength    = 1000
	MinSkillsCount       = 1
	MaxSkillsCount       = 10
	MaxSkillLength       = 50
	MinDeliveryTimeDays  = 1
	MaxSearchQueryLength = 100
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateName проверяет отображаемое имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", name, MinNameLength, MaxNameLength)
}

// NormalizeSkills обрезает пробелы и проверяет список навыков:
// от 1 до 10 непустых навыков без повторов.
func NormalizeSkills(skills []string) ([]string, error) {
	if len(skills) < MinSkillsCount {
		return nil, fmt.Errorf("укажите хотя бы один навык")
	}
	if len(skills) > MaxSkillsCount {
		return nil, fmt.Errorf("количество навыков не может превышать %d", MaxSkillsCount)
	}

	result := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return nil, fmt.Errorf("навык не может быть пустым")
		}
		if utf8.RuneCountInString(skill) > MaxSkillLength {
			return nil, fmt.Errorf("навык не может быть длиннее %d символов", MaxSkillLength)
		}

		// Проверка на дубликаты (без учета регистра)
		key := strings.ToLower(skill)
		if seen[key] {
			return nil, fmt.Errorf("навык '%s' указан дважды", skill)
		}
		seen[key] = true
		result = append(result, skill)
	}

	return result, nil
}

// SanitizeSearch обрезает поисковую строку до допустимой длины.
func SanitizeSearch(query string) string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		query = string([]rune(query)[:MaxSearchQueryLength])
	}
	return query
}
