package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/movienest/movienest/internal/models"
)

// Claims описывает данные, хранящиеся в токене доступа.
//
// Subject — строковая форма идентификатора пользователя (из встроенных
// RegisteredClaims), Role — роль на момент выпуска, TokenType — всегда
// "access" для текущего вида токенов.
type Claims struct {
	Role                 models.Role `json:"role"`       // Роль пользователя
	TokenType            string      `json:"token_type"` // Тип токена
	jwt.RegisteredClaims             // Стандартные claims (sub, exp, iat)
}

// checkRequired валидирует обязательные claims после проверки подписи.
// Отсутствующий subject, неизвестная роль или чужой тип токена делают
// токен искажённым.
func (c *Claims) checkRequired() error {
	if c.Subject == "" {
		return errors.New("missing subject claim")
	}
	if _, err := models.ParseRole(string(c.Role)); err != nil {
		return fmt.Errorf("invalid role claim: %w", err)
	}
	if c.TokenType != TokenTypeAccess {
		return fmt.Errorf("unexpected token type %q", c.TokenType)
	}
	return nil
}
