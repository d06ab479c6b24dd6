package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"foodlink/internal/service"
)

// stubAuthService backs handler tests with an in-memory account set.
type stubAuthService struct {
	accounts map[string]string // email -> password
}

func newStubAuthService() *stubAuthService {
	return &stubAuthService{accounts: make(map[string]string)}
}

func (s *stubAuthService) Register(ctx context.Context, input service.RegisterInput) error {
	if _, ok := s.accounts[input.Email]; ok {
		return service.ErrEmailAlreadyRegistered
	}
	s.accounts[input.Email] = input.Password
	return nil
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	stored, ok := s.accounts[email]
	if !ok || stored != password {
		return "", service.ErrInvalidCredentials
	}
	return "token-" + email, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error {
	return nil
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func doRequest(t *testing.T, e *echo.Echo, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRegisterAndLoginFlow(t *testing.T) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	h := NewAuthHandler(newStubAuthService())

	register := `{"name":"A","email":"a@x.com","password":"secret","role":"DONOR"}`
	rec := doRequest(t, e, h.Register, register)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "user registered successfully")

	// Same email again conflicts.
	rec = doRequest(t, e, h.Register, register)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_ALREADY_REGISTERED")

	rec = doRequest(t, e, h.Login, `{"email":"a@x.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestLoginFailureResponsesIdentical(t *testing.T) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	svc := newStubAuthService()
	_ = svc.Register(context.Background(), service.RegisterInput{Email: "a@x.com", Password: "secret"})
	h := NewAuthHandler(svc)

	wrongPassword := doRequest(t, e, h.Login, `{"email":"a@x.com","password":"wrong"}`)
	unknownEmail := doRequest(t, e, h.Login, `{"email":"nobody@x.com","password":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	h := NewAuthHandler(newStubAuthService())

	rec := doRequest(t, e, h.Register, `{"email":"not-an-email","password":"secret","name":"A","role":"DONOR"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
