package gin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/adapter/outbound/aibackend"
	"github.com/mockupstudio/server/internal/adapter/outbound/memory"
	"github.com/mockupstudio/server/internal/adapter/outbound/modelrun"
	"github.com/mockupstudio/server/internal/adapter/outbound/postgres"
	"github.com/mockupstudio/server/internal/adapter/outbound/session"
	"github.com/mockupstudio/server/internal/domain/account"
	"github.com/mockupstudio/server/internal/domain/billing"
	"github.com/mockupstudio/server/internal/domain/generation"
	"github.com/mockupstudio/server/internal/domain/style"
	"github.com/mockupstudio/server/internal/infra/config"
	"github.com/mockupstudio/server/internal/infra/database"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/port/outbound"
	"github.com/mockupstudio/server/internal/utils/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const adminEmail = "admin@example.com"

type testEnv struct {
	router       *gin.Engine
	db           *gorm.DB
	tokens       outbound.SessionTokenPort
	accounts     outbound.AccountDatabasePort
	transactions outbound.TransactionDatabasePort
	history      outbound.HistoryPort
	backendHits  *atomic.Int32
}

// newTestEnv wires the HTTP surface against sqlite, an in-memory style cache
// and fake image backends. backend answers /api/{op}; modelRun answers
// prediction requests.
func newTestEnv(t *testing.T, backend, modelRun http.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	db, err := database.New(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	hits := &atomic.Int32{}
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if backend == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		backend(w, r)
	}))
	t.Cleanup(backendSrv.Close)

	modelRunCfg := config.ModelRunConfig{
		StandardModel: "google/nano-banana",
		ProModel:      "google/nano-banana-pro",
		PollInterval:  5 * time.Millisecond,
	}
	if modelRun != nil {
		modelRunSrv := httptest.NewServer(modelRun)
		t.Cleanup(modelRunSrv.Close)
		modelRunCfg.BaseURL = modelRunSrv.URL
		modelRunCfg.Token = "tok"
	}

	accountsDB := postgres.NewAccountAdapter(db)
	ledger := postgres.NewLedgerAdapter(db)
	history := postgres.NewHistoryAdapter(db)
	transactions := postgres.NewTransactionAdapter(db)
	styles := postgres.NewStyleAdapter(db)
	tokens := session.NewJWTIssuer(session.Config{Secret: "test-secret", Expiry: time.Hour})

	accounts := account.NewAccountDomain(accountsDB, history, transactions, tokens,
		account.Config{BcryptCost: 4, AdminEmails: []string{adminEmail}}, logger)
	gateway := generation.NewGateway(
		aibackend.NewClient(backendSrv.Client(), config.AIBackendConfig{BaseURL: backendSrv.URL}, nil, logger),
		modelrun.NewClient(http.DefaultClient, modelRunCfg, nil, logger),
		generation.DefaultUpscalePolicy(),
		logger,
	)
	gen := generation.NewGenerationDomain(generation.Ports{
		Accounts:        accountsDB,
		Ledger:          ledger,
		History:         history,
		Transactions:    transactions,
		Styles:          styles,
		GeneratedImages: postgres.NewGeneratedImageAdapter(db),
	}, gateway, nil, generation.Config{}, logger)
	styleDomain := style.NewStyleDomain(styles, memory.NewStyleCache(), nil, logger)
	billingDomain := billing.NewBillingDomain(accountsDB, ledger, transactions, nil, billing.Config{AppURL: "http://app"}, nil, logger)

	resp := NewResponder(false, logger)
	authRequired := middleware.RequireAuth(accounts)
	adminRequired := []gin.HandlerFunc{authRequired, middleware.RequireAdmin(accounts, logger)}

	router := gin.New()
	api := router.Group("/api")
	NewAuthAdapter(accounts, CookieConfig{}, resp).RegisterRoutes(api, authRequired)
	NewStyleAdapter(styleDomain, resp).RegisterRoutes(api, adminRequired...)
	NewEnhanceStyleAdapter(style.NewEnhanceDomain(postgres.NewEnhanceStyleAdapter(db), logger), resp).
		RegisterRoutes(api, adminRequired...)
	NewBillingAdapter(billingDomain, resp).RegisterRoutes(api, authRequired)

	protected := api.Group("", authRequired)
	NewImageAdapter(gen, resp).RegisterRoutes(protected)
	NewUserAdapter(accounts, resp).RegisterRoutes(protected)
	NewAdminAdapter(accounts, resp).RegisterRoutes(api.Group("", adminRequired...))

	return &testEnv{
		router:       router,
		db:           db,
		tokens:       tokens,
		accounts:     accountsDB,
		transactions: transactions,
		history:      history,
		backendHits:  hits,
	}
}

// signedIn creates an account with the given balance and returns its session token.
func (e *testEnv) signedIn(t *testing.T, email string, credits int64) (*model.Account, string) {
	t.Helper()
	a := &model.Account{Email: email, Name: "Test User", PasswordHash: "x", Credits: credits}
	require.NoError(t, e.accounts.Create(context.Background(), a))
	token, _, err := e.tokens.Issue(a.ID)
	require.NoError(t, err)
	return a, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) balance(t *testing.T, a *model.Account) int64 {
	t.Helper()
	got, err := e.accounts.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	return got.Credits
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestImage_InsufficientCreditsSkipsBackend(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"enhancedImage":"data:image/png;base64,AAAA"}`))
	}, nil)
	a, token := env.signedIn(t, "broke@example.com", 0)

	w := env.do(t, http.MethodPost, "/api/image/enhance", token, gin.H{"image": "data:image/png;base64,AAAA"})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Insufficient credits", decode(t, w).Message)
	assert.Equal(t, int32(0), env.backendHits.Load())
	assert.Equal(t, int64(0), env.balance(t, a))
}

func TestImage_EnhanceSucceeds(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/enhance", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"enhancedImage":"https://cdn/enhanced.png"}`))
	}, nil)
	a, token := env.signedIn(t, "rich@example.com", 3)

	w := env.do(t, http.MethodPost, "/api/image/enhance", token, gin.H{"image": "data:image/png;base64,AAAA", "highRes": false})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		EnhancedImage string `json:"enhancedImage"`
		Credits       int64  `json:"credits"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "https://cdn/enhanced.png", data.EnhancedImage)
	assert.Equal(t, int64(2), data.Credits)
	assert.Equal(t, int64(2), env.balance(t, a))

	hist, err := env.history.Read(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "https://cdn/enhanced.png", hist[0].URL)
}

func TestImage_FailuresAreRefunded(t *testing.T) {
	tests := []struct {
		name    string
		backend http.HandlerFunc
		wantMsg string
	}{
		{
			name: "business failure",
			backend: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":false,"message":"Prompt rejected"}`))
			},
			wantMsg: "Prompt rejected",
		},
		{
			name: "non json body",
			backend: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`<html>bad gateway</html>`))
			},
			wantMsg: "AI backend returned invalid response",
		},
		{
			name: "missing image",
			backend: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":true}`))
			},
			wantMsg: "Generation failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.backend, nil)
			a, token := env.signedIn(t, "user@example.com", 5)

			w := env.do(t, http.MethodPost, "/api/image/generate", token, gin.H{"prompt": "a red dress"})

			assert.Equal(t, http.StatusBadGateway, w.Code)
			assert.Equal(t, tt.wantMsg, decode(t, w).Message)
			assert.Equal(t, int64(5), env.balance(t, a))

			hist, err := env.history.Read(context.Background(), a.ID)
			require.NoError(t, err)
			assert.Empty(t, hist)
		})
	}
}

func TestImage_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodPost, "/api/image/upscale", "", gin.H{"image": "x"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int32(0), env.backendHits.Load())
}

func TestImage_StyleTransfer4K(t *testing.T) {
	var predictions atomic.Int32
	env := newTestEnv(t, nil, func(w http.ResponseWriter, r *http.Request) {
		predictions.Add(1)
		assert.Equal(t, "/v1/models/google/nano-banana-pro/predictions", r.URL.Path)
		var body map[string]map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4K", body["input"]["resolution"])
		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":"https://cdn/mockup.png"}`))
	})
	a, token := env.signedIn(t, "designer@example.com", 600)

	s := &model.Style{
		Name:               "Runway",
		ReferenceImage:     "https://cdn/ref.png",
		Prompt:             "place the fabric on the dress",
		StyleType:          model.StyleTypeFabricMockup,
		RequiresLogoUpload: true,
	}
	require.NoError(t, postgres.NewStyleAdapter(env.db).Create(context.Background(), s))

	w := env.do(t, http.MethodPost, "/api/image/style-transfer", token, gin.H{
		"styleId":          s.ID.String(),
		"fabricImage":      "https://cdn/fabric.png",
		"logoImage":        "https://cdn/logo.png",
		"resolutionChoice": "4k",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Image   string `json:"image"`
		Credits int64  `json:"credits"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "https://cdn/mockup.png", data.Image)
	assert.Equal(t, int64(100), data.Credits)
	assert.Equal(t, int64(100), env.balance(t, a))
	assert.Equal(t, int32(1), predictions.Load())

	txs, err := env.transactions.ListByAccount(context.Background(), a.ID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TransactionTypeDebit, txs[0].Type)
	assert.Equal(t, int64(500), txs[0].Amount)
	assert.Equal(t, "studio:"+s.ID.String()+":model2:4k", txs[0].Description)

	hist, err := env.history.Read(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "https://cdn/mockup.png", hist[0].URL)
}

func TestImage_StyleTransferUnknownStyle(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	a, token := env.signedIn(t, "designer@example.com", 600)

	w := env.do(t, http.MethodPost, "/api/image/style-transfer", token, gin.H{
		"styleId":     "8a3e5c4e-0000-4000-8000-000000000000",
		"fabricImage": "https://cdn/fabric.png",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Style not found", decode(t, w).Message)
	assert.Equal(t, int64(600), env.balance(t, a))
}

func TestAuth_CookieFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": "New@Example.com", "password": "secret1", "name": "Ada Lovelace",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			token = c.Value
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		}
	}
	require.NotEmpty(t, token)

	var data struct {
		User account.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "new@example.com", data.User.Email)
	assert.Equal(t, int64(0), data.User.Credits)
	assert.Equal(t, "free", data.User.Subscription)

	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": "new@example.com", "password": "secret1", "name": "Ada Lovelace",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "new@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)

	w = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidJSON(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", decode(t, w).Message)
}

func TestStyles_ListCachesAndAdminWrites(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, userToken := env.signedIn(t, "user@example.com", 0)
	_, adminToken := env.signedIn(t, adminEmail, 0)

	w := env.do(t, http.MethodPost, "/api/styles", userToken, gin.H{"name": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/styles", adminToken, gin.H{"name": "Runway"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/styles", adminToken, gin.H{
		"name": "Runway", "description": "Catwalk lighting", "coverImage": "data:image/png;base64,AAAA",
		"referenceImage": "https://cdn/ref.png", "prompt": "p",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Style
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, model.StyleTypeFabricMockup, created.StyleType)
	assert.Equal(t, "https://cdn/ref.png", created.ExampleAfterImage)

	w = env.do(t, http.MethodGet, "/api/styles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, styleListCacheControl, w.Header().Get("Cache-Control"))

	w = env.do(t, http.MethodGet, "/api/styles", "", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = env.do(t, http.MethodGet, "/api/styles?full=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var full []model.Style
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &full))
	require.Len(t, full, 1)
	assert.Empty(t, full[0].CoverImage)

	w = env.do(t, http.MethodDelete, "/api/styles/"+created.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/styles", "", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = env.do(t, http.MethodGet, "/api/styles/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/api/styles/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUser_History(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	a, token := env.signedIn(t, "user@example.com", 0)
	require.NoError(t, env.history.Prepend(context.Background(), a.ID, model.HistoryEntry{URL: "https://cdn/1.png", CreatedAt: time.Now()}))

	w := env.do(t, http.MethodGet, "/api/user/history", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, historyCacheControl, w.Header().Get("Cache-Control"))
	var data struct {
		History model.UsageHistory `json:"history"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	require.Len(t, data.History, 1)
	assert.Equal(t, "https://cdn/1.png", data.History[0].URL)
}

func TestBilling_WithoutProvider(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, token := env.signedIn(t, "user@example.com", 0)

	w := env.do(t, http.MethodGet, "/api/billing/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/billing/checkout", token, gin.H{"planId": "pack_42"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/billing/checkout", token, gin.H{"planId": "pack_500"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Payment provider is not configured", decode(t, w).Message)

	w = env.do(t, http.MethodGet, "/api/billing/verify", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_Users(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	user, userToken := env.signedIn(t, "user@example.com", 10)
	_, adminToken := env.signedIn(t, adminEmail, 0)

	w := env.do(t, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/users?search=user@&page=1&pageSize=10", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page model.PaginatedResponse[account.AccountSummary]
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, user.ID, page.Items[0].ID)

	w = env.do(t, http.MethodPatch, "/api/admin/users/"+user.ID.String(), adminToken, gin.H{"credits": 250})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(250), env.balance(t, user))

	w = env.do(t, http.MethodGet, "/api/admin/users/export", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "users-export-")
	assert.True(t, strings.HasPrefix(w.Body.String(), "id,name,email,credits"))
	assert.Contains(t, w.Body.String(), "user@example.com")
}

func TestAdmin_UserLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, adminToken := env.signedIn(t, adminEmail, 0)

	w := env.do(t, http.MethodPost, "/api/admin/users", adminToken, gin.H{
		"name": "New User", "email": "New@Example.com", "password": "secret1", "credits": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var createdUser struct {
		User account.AccountSummary `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &createdUser))
	id := createdUser.User.ID
	assert.Equal(t, "new@example.com", createdUser.User.Email)
	assert.Equal(t, int64(30), createdUser.User.Credits)

	w = env.do(t, http.MethodPost, "/api/admin/users", adminToken, gin.H{"email": "new@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email already exists", decode(t, w).Message)

	w = env.do(t, http.MethodPost, "/api/admin/users", adminToken, gin.H{"email": "other@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", decode(t, w).Message)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "new@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ctx := context.Background()
	require.NoError(t, env.transactions.RecordDebit(ctx, id, 3, "enhance"))
	require.NoError(t, env.transactions.RecordCredit(ctx, id, 100, "manual"))

	w = env.do(t, http.MethodGet, "/api/admin/users?search=new@", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page model.PaginatedResponse[account.AccountSummary]
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Items[0].TransactionCount)
	assert.Equal(t, int64(3), page.Items[0].TotalCreditsSpent)

	w = env.do(t, http.MethodGet, "/api/admin/users/"+id.String()+"/transactions?limit=1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var history struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &history))
	assert.Len(t, history.Transactions, 1)

	w = env.do(t, http.MethodPatch, "/api/admin/users/"+id.String(), adminToken, gin.H{"email": adminEmail})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already in use", decode(t, w).Message)

	w = env.do(t, http.MethodPatch, "/api/admin/users/"+id.String(), adminToken, gin.H{"name": "Renamed User", "credits": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	stored, err := env.accounts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New User", stored.Name)
	assert.Equal(t, int64(30), stored.Credits)

	w = env.do(t, http.MethodPatch, "/api/admin/users/"+id.String(), adminToken, gin.H{"email": "moved@example.com", "password": "secret2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "moved@example.com", "password": "secret2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/admin/users/"+id.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, string(decode(t, w).Data))

	w = env.do(t, http.MethodDelete, "/api/admin/users/"+id.String(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w).Message)

	w = env.do(t, http.MethodGet, "/api/admin/users/"+id.String()+"/transactions", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnhanceStyles_PublicListAndAdminWrites(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, userToken := env.signedIn(t, "user@example.com", 0)
	_, adminToken := env.signedIn(t, adminEmail, 0)

	w := env.do(t, http.MethodGet, "/api/enhance-styles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))

	body := gin.H{"name": "Crisp", "description": "Sharper detail", "coverImage": "https://cdn/crisp.png", "prompt": "sharpen"}
	w = env.do(t, http.MethodPost, "/api/enhance-styles", userToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/enhance-styles", adminToken, gin.H{"name": "Crisp"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name, description, cover image, and prompt are required", decode(t, w).Message)

	w = env.do(t, http.MethodPost, "/api/enhance-styles", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var preset model.EnhanceStyle
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &preset))

	w = env.do(t, http.MethodPut, "/api/enhance-styles/"+preset.ID.String(), adminToken, gin.H{"prompt": "sharpen more"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/enhance-styles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.EnhanceStyle
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "sharpen more", list[0].Prompt)

	w = env.do(t, http.MethodDelete, "/api/enhance-styles/"+preset.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/enhance-styles/"+preset.ID.String(), adminToken, gin.H{"prompt": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Enhance style not found", decode(t, w).Message)
}
