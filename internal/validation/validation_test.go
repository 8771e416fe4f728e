package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "  User.Name+tag@Mail.Example.org  ", "a_b-c@sub.domain.io"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "a@b", "two@@example.com", "user name@example.com", "user@exa_mple.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Jo"))
	assert.Error(t, ValidateName("  "))
	assert.Error(t, ValidateName("J"))
	assert.Error(t, ValidateName(strings.Repeat("x", MaxNameLength+1)))
}

func TestValidateLength_CountsRunes(t *testing.T) {
	assert.NoError(t, ValidateLength("заголовок", "Привет", 5, 6))
	assert.Error(t, ValidateLength("заголовок", "Привет!", 5, 6))
}

func TestNormalizeSkills(t *testing.T) {
	skills, err := NormalizeSkills([]string{" Go ", "Docker"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Docker"}, skills)

	_, err = NormalizeSkills(nil)
	assert.Error(t, err)

	_, err = NormalizeSkills([]string{"Go", "GO"})
	assert.Error(t, err)

	_, err = NormalizeSkills([]string{strings.Repeat("s", MaxSkillLength+1)})
	assert.Error(t, err)
}

func TestSanitizeSearch(t *testing.T) {
	assert.Equal(t, "logo", SanitizeSearch("  logo "))
	assert.Len(t, []rune(SanitizeSearch(strings.Repeat("я", 300))), MaxSearchQueryLength)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("p", MaxPasswordBytes+1)))
	assert.Error(t, ValidatePassword("pass\x00word"))
}
