// file: controllers/test_helpers_test.go
package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"zerosync-web/middleware"
	"zerosync-web/models"
	"zerosync-web/services"
)

const testSessionName = "testsession"

// --- mocks ---

type MockLoginSimulator struct {
	mock.Mock
}

func (m *MockLoginSimulator) BeginLogin(visitorID string) (<-chan models.Profile, error) {
	args := m.Called(visitorID)
	ch, _ := args.Get(0).(<-chan models.Profile)
	return ch, args.Error(1)
}

func (m *MockLoginSimulator) CancelLogin(visitorID string) error {
	return m.Called(visitorID).Error(0)
}

func (m *MockLoginSimulator) Logout(visitorID string) {
	m.Called(visitorID)
}

func (m *MockLoginSimulator) Session(visitorID string) models.Session {
	return m.Called(visitorID).Get(0).(models.Session)
}

func (m *MockLoginSimulator) Touch(visitorID string) {
	m.Called(visitorID)
}

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Submit(app models.WhitelistApplication) (models.ApplicationReceipt, error) {
	args := m.Called(app)
	return args.Get(0).(models.ApplicationReceipt), args.Error(1)
}

type MockCurrencyNotifier struct {
	mock.Mock
}

func (m *MockCurrencyNotifier) NotifyCurrency(visitorID string, currency models.Currency) {
	m.Called(visitorID, currency)
}

// closedProfile is a login result that already completed.
func closedProfile() <-chan models.Profile {
	ch := make(chan models.Profile, 1)
	ch <- services.DefaultProfile
	close(ch)
	return ch
}

// --- router ---

type testEnv struct {
	router  *gin.Engine
	catalog *services.CatalogService
	logins  *MockLoginSimulator
	pages   *PageController
}

// setupTestRouter builds an engine with the real templates, the embedded
// catalog and a mocked login simulator that reports session.
func setupTestRouter(t *testing.T, session models.Session) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(sessions.Sessions(testSessionName, middleware.NewSessionStore(false, []byte("test-secret"))))
	router.Use(middleware.Visitor(nil))
	router.Use(middleware.CurrencyProvider(services.NewCurrencyFormatter(language.English)))
	router.SetFuncMap(TemplateFuncs())
	router.LoadHTMLGlob("../templates/*.html")

	catalog, err := services.NewDefaultCatalogService()
	require.NoError(t, err)

	logins := new(MockLoginSimulator)
	logins.On("Session", mock.Anything).Return(session).Maybe()

	pages := NewPageController(catalog, logins, "ws://localhost:8080/ws", 2*time.Second)
	return &testEnv{router: router, catalog: catalog, logins: logins, pages: pages}
}

func (e *testEnv) registerPages() {
	e.router.GET("/", e.pages.Home)
	e.router.GET("/rules", e.pages.Rules)
	e.router.GET("/staff", e.pages.Staff)
	e.router.GET("/team", e.pages.Staff)
	e.router.GET("/store", e.pages.Store)
	e.router.GET("/queue-priority", e.pages.QueuePriority)
	e.router.GET("/tos", e.pages.TOS)
	e.router.GET("/apply", e.pages.Apply)
	e.router.GET("/application", e.pages.Apply)
	e.router.NoRoute(e.pages.NotFound)
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var last *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testSessionName {
			last = cookie
		}
	}
	return last
}

type requestOption func(*http.Request)

func withCookie(c *http.Cookie) requestOption {
	return func(r *http.Request) {
		if c != nil {
			r.AddCookie(c)
		}
	}
}

func withHeader(k, v string) requestOption {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func perform(router http.Handler, method, target string, body io.Reader, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func form(values url.Values) io.Reader {
	return strings.NewReader(values.Encode())
}

const formContentType = "application/x-www-form-urlencoded"

func latestSessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	var last *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == testSessionName {
			last = c
		}
	}
	return last
}
