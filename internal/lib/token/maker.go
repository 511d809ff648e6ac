// Package token реализует выпуск и проверку подписанных токенов доступа
// с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с subject,
// ролью и типом токена. MakerImpl — конкретная реализация с использованием
// секретного ключа, алгоритма подписи и срока жизни.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/movienest/movienest/internal/models"
)

// Ошибки проверки и выпуска токенов. Категории не пересекаются:
// истёкший токен никогда не считается искажённым, а недостаточная роль —
// невалидным токеном, чтобы граничный слой мог выбрать корректный ответ.
var (
	// ErrExpiredToken возвращается, когда подпись верна, но срок жизни истёк.
	ErrExpiredToken = errors.New("token has expired")
	// ErrMalformedToken возвращается при любой другой ошибке проверки:
	// неверная подпись, нечитаемая структура, отсутствующий claim.
	ErrMalformedToken = errors.New("token is malformed or invalid")
	// ErrInsufficientRole возвращается, когда токен валиден, но роль
	// не даёт доступа к запрошенной операции.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrSignToken возвращается при ошибке подписи во время выпуска токена.
	ErrSignToken = errors.New("failed to sign token")
	// ErrUnsupportedAlgorithm возвращается конструктором, если настроенный
	// алгоритм подписи не входит в список разрешённых. Фатальна для старта.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// TokenTypeAccess — тип выпускаемых токенов. Зарезервирован под будущие
// виды токенов (например refresh).
const TokenTypeAccess = "access"

// supportedAlgorithms — список разрешённых алгоритмов подписи.
// Алгоритм проверяется один раз при создании Maker, до обслуживания запросов.
var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// Maker описывает интерфейс для выпуска и проверки токенов доступа.
type Maker interface {
	// GenerateToken выпускает токен с заданными subject и ролью
	// и сроком жизни по умолчанию.
	GenerateToken(subject string, role models.Role) (string, error)
	// GenerateTokenWithTTL выпускает токен с явно заданным сроком жизни.
	GenerateTokenWithTTL(subject string, role models.Role, ttl time.Duration) (string, error)
	// GenerateTokenForID выпускает токен для числового идентификатора
	// пользователя, нормализуя его к строковому subject.
	GenerateTokenForID(id int64, role models.Role) (string, error)
	// ParseToken проверяет подпись и срок жизни, возвращает *Claims.
	ParseToken(tokenStr string) (*Claims, error)
	// AuthorizeToken проверяет токен и дополнительно требует роль required,
	// возвращая subject владельца.
	AuthorizeToken(tokenStr string, required models.Role) (string, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа,
// алгоритма подписи и времени жизни токена (TTL).
//
// Ключ и алгоритм фиксируются на весь процесс: токены, выпущенные одним
// экземпляром, валидны на любом экземпляре с той же конфигурацией.
type MakerImpl struct {
	secretKey string             // Секретный ключ для подписи токенов
	method    jwt.SigningMethod  // Алгоритм подписи из списка разрешённых
	tokenTTL  time.Duration      // Время жизни токена по умолчанию
}

// New создаёт MakerImpl, валидируя алгоритм подписи по списку разрешённых.
// Неизвестный или небезопасный алгоритм возвращает ErrUnsupportedAlgorithm:
// процесс с такой конфигурацией не должен обслуживать ни одного запроса.
func New(secretKey, algorithm string, ttl time.Duration) (*MakerImpl, error) {
	if _, ok := supportedAlgorithms[algorithm]; !ok {
		return nil, fmt.Errorf("token.New: %w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token.New: %w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return &MakerImpl{
		secretKey: secretKey,
		method:    method,
		tokenTTL:  ttl,
	}, nil
}

// GenerateToken выпускает токен со сроком жизни по умолчанию.
func (m *MakerImpl) GenerateToken(subject string, role models.Role) (string, error) {
	return m.GenerateTokenWithTTL(subject, role, m.tokenTTL)
}

// GenerateTokenForID нормализует числовой идентификатор к строке:
// токены для 123 и "123" декодируются в одинаковый subject.
func (m *MakerImpl) GenerateTokenForID(id int64, role models.Role) (string, error) {
	return m.GenerateTokenWithTTL(strconv.FormatInt(id, 10), role, m.tokenTTL)
}

// GenerateTokenWithTTL выпускает подписанный токен с заданным сроком жизни.
// Ошибка подписи оборачивается в ErrSignToken и не приводит к панике.
func (m *MakerImpl) GenerateTokenWithTTL(subject string, role models.Role, ttl time.Duration) (string, error) {
	const op = "token.GenerateTokenWithTTL"
	now := time.Now().UTC()
	claims := Claims{
		Role:      role,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(m.method, claims)
	signed, err := t.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrSignToken, err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок жизни токена и возвращает Claims.
//
// Принимается только настроенный алгоритм подписи. Истёкший токен даёт
// ErrExpiredToken, любая другая проблема — ErrMalformedToken.
func (m *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "token.ParseToken"
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(m.secretKey), nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpiredToken)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}
	if err := claims.checkRequired(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedToken, err)
	}
	return claims, nil
}

// AuthorizeToken проверяет токен и требует роль required, возвращая subject.
// Недостаточная роль даёт ErrInsufficientRole, а не ErrMalformedToken.
func (m *MakerImpl) AuthorizeToken(tokenStr string, required models.Role) (string, error) {
	const op = "token.AuthorizeToken"
	claims, err := m.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	if !claims.Role.Meets(required) {
		return "", fmt.Errorf("%s: %w", op, ErrInsufficientRole)
	}
	return claims.Subject, nil
}
