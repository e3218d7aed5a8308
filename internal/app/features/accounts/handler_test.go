package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	userstore "github.com/dalemusser/tourhub/internal/app/store/users"
	"github.com/dalemusser/tourhub/internal/app/system/mailer"
	"github.com/dalemusser/tourhub/internal/app/system/token"
	"github.com/dalemusser/tourhub/internal/testutil"
)

type fakeMailer struct {
	sent []mailer.Email
	err  error
}

func (f *fakeMailer) Send(e mailer.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

func newTestHandler(t *testing.T, mail mailer.Sender) (*Handler, *userstore.Store) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	store := userstore.New(db, 10*time.Minute)
	tokens, err := token.NewManager("test-secret-do-not-use", time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	h := NewHandler(store, tokens, mail,
		"https://tourhub.example", "TourHub",
		apierrors.NewErrorLogger(zap.NewNop(), false), zap.NewNop())
	return h, store
}

type envelope struct {
	Status  string         `json:"status"`
	Token   string         `json:"token"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func TestSignup(t *testing.T) {
	h, _ := newTestHandler(t, &fakeMailer{})

	req := testutil.JSONRequest(t, "POST", "/signup", map[string]string{
		"name":            "Ada Lovelace",
		"email":           "ada@example.com",
		"password":        "pass1234",
		"passwordConfirm": "pass1234",
	})
	rec := httptest.NewRecorder()
	h.HandleSignup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var env envelope
	testutil.DecodeJSON(t, rec, &env)
	if env.Status != "success" || env.Token == "" {
		t.Errorf("expected success with token, got %+v", env)
	}
	user, _ := env.Data["user"].(map[string]any)
	if user == nil {
		t.Fatal("expected user in response data")
	}
	for _, forbidden := range []string{"password", "passwordConfirm", "password_hash"} {
		if _, ok := user[forbidden]; ok {
			t.Errorf("response leaks %q", forbidden)
		}
	}
	if user["role"] != "user" {
		t.Errorf("signup role = %v, want user", user["role"])
	}
}

func TestSignup_MismatchedConfirm(t *testing.T) {
	h, _ := newTestHandler(t, &fakeMailer{})

	req := testutil.JSONRequest(t, "POST", "/signup", map[string]string{
		"name":            "Bob",
		"email":           "bob@example.com",
		"password":        "pass1234",
		"passwordConfirm": "different",
	})
	rec := httptest.NewRecorder()
	h.HandleSignup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLoginScenario(t *testing.T) {
	h, _ := newTestHandler(t, &fakeMailer{})

	signup := testutil.JSONRequest(t, "POST", "/signup", map[string]string{
		"name":            "Carol",
		"email":           "carol@example.com",
		"password":        "pass1234",
		"passwordConfirm": "pass1234",
	})
	h.HandleSignup(httptest.NewRecorder(), signup)

	// Correct credentials log in.
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email": "carol@example.com", "password": "pass1234",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("login status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var env envelope
	testutil.DecodeJSON(t, rec, &env)
	if env.Token == "" {
		t.Error("login should return a token")
	}

	// Wrong password is rejected.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email": "carol@example.com", "password": "wrongpass",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}

	// Unknown email gets the same answer.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email": "nobody@example.com", "password": "pass1234",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", rec.Code)
	}

	// Missing fields are a client error, not an auth failure.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email": "carol@example.com",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password status = %d, want 400", rec.Code)
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t, &fakeMailer{})

	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, testutil.JSONRequest(t, "POST", "/forgotPassword",
		map[string]string{"email": "ghost@example.com"}))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

var resetURLPattern = regexp.MustCompile(`resetPassword/([0-9a-f]{64})`)

func TestForgotAndResetPassword(t *testing.T) {
	mail := &fakeMailer{}
	h, store := newTestHandler(t, mail)

	h.HandleSignup(httptest.NewRecorder(), testutil.JSONRequest(t, "POST", "/signup",
		map[string]string{
			"name": "Dana", "email": "dana@example.com",
			"password": "pass1234", "passwordConfirm": "pass1234",
		}))

	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, testutil.JSONRequest(t, "POST", "/forgotPassword",
		map[string]string{"email": "dana@example.com"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// The raw token travels only in the email, never in the response.
	if resetURLPattern.MatchString(rec.Body.String()) {
		t.Error("response must not echo the reset token")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1", len(mail.sent))
	}
	m := resetURLPattern.FindStringSubmatch(mail.sent[0].TextBody)
	if m == nil {
		t.Fatalf("no reset token in email body: %q", mail.sent[0].TextBody)
	}
	raw := m[1]

	// Reset with the emailed token.
	req := testutil.JSONRequest(t, "PATCH", "/resetPassword/"+raw, map[string]string{
		"password": "newpass99", "passwordConfirm": "newpass99",
	})
	req = testutil.WithChiURLParam(req, "token", raw)
	rec = httptest.NewRecorder()
	h.HandleResetPassword(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var env envelope
	testutil.DecodeJSON(t, rec, &env)
	if env.Token == "" {
		t.Error("reset should log the user in with a fresh token")
	}

	// New password works.
	user, err := store.GetByEmailWithPassword(context.Background(), "dana@example.com")
	if err != nil {
		t.Fatalf("GetByEmailWithPassword: %v", err)
	}
	if user.PasswordChangedAt == nil {
		t.Error("password_changed_at should be stamped")
	}

	// The token is single use.
	req = testutil.JSONRequest(t, "PATCH", "/resetPassword/"+raw, map[string]string{
		"password": "another99", "passwordConfirm": "another99",
	})
	req = testutil.WithChiURLParam(req, "token", raw)
	rec = httptest.NewRecorder()
	h.HandleResetPassword(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("reused token status = %d, want 404", rec.Code)
	}
}

func TestForgotPassword_MailFailureClearsToken(t *testing.T) {
	mail := &fakeMailer{err: errors.New("smtp down")}
	h, store := newTestHandler(t, mail)

	h.HandleSignup(httptest.NewRecorder(), testutil.JSONRequest(t, "POST", "/signup",
		map[string]string{
			"name": "Evan", "email": "evan@example.com",
			"password": "pass1234", "passwordConfirm": "pass1234",
		}))

	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, testutil.JSONRequest(t, "POST", "/forgotPassword",
		map[string]string{"email": "evan@example.com"}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	// The dead token must not be usable later.
	user, err := store.GetByEmailWithPassword(context.Background(), "evan@example.com")
	if err != nil {
		t.Fatalf("GetByEmailWithPassword: %v", err)
	}
	if user.PasswordResetToken != "" || user.PasswordResetExpires != nil {
		t.Error("reset fields should be cleared after a mail failure")
	}
}

func TestResetPassword_InvalidToken(t *testing.T) {
	h, _ := newTestHandler(t, &fakeMailer{})

	req := testutil.JSONRequest(t, "PATCH", "/resetPassword/deadbeef", map[string]string{
		"password": "newpass99", "passwordConfirm": "newpass99",
	})
	req = testutil.WithChiURLParam(req, "token", "deadbeef")
	rec := httptest.NewRecorder()
	h.HandleResetPassword(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
