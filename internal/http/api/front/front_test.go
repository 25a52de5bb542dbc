package front

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/config"
	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/models"
)

const (
	frontTestSecret = "front-test-secret"
	frontMemberID   = "3f2e1d0c-9b8a-4765-8432-10fedcba9876"
)

func newFrontTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:front_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(
		&models.Page{}, &models.Section{}, &models.SiteContent{},
		&models.Profile{}, &models.MembershipApplication{}, &models.Document{}, &models.Payment{},
	); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	resolver := cms.NewResolver(conn, nil, nil)
	manager := membership.NewManager(conn, nil)

	engine := gin.New()
	RegisterFrontRoutes(engine, conn, config.JWTConfig{Secret: frontTestSecret, Leeway: 30 * time.Second}, resolver, manager)
	return engine, conn
}

func frontBearerToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": "member@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, errSign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(frontTestSecret))
	if errSign != nil {
		t.Fatalf("sign: %v", errSign)
	}
	return signed
}

func doFrontRequest(engine *gin.Engine, method, target, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestPublicPageEndpoint(t *testing.T) {
	engine, conn := newFrontTestRouter(t)
	page := models.Page{Slug: "about-us", Title: "About Us", IsPublished: true}
	if errCreate := conn.Create(&page).Error; errCreate != nil {
		t.Fatalf("seed page: %v", errCreate)
	}
	section := models.Section{PageID: page.ID, SectionType: cms.SectionHero, Content: []byte(`{"title":"About"}`), OrderIndex: 1, IsActive: true}
	if errCreate := conn.Create(&section).Error; errCreate != nil {
		t.Fatalf("seed section: %v", errCreate)
	}

	recorder := doFrontRequest(engine, http.MethodGet, "/v0/front/pages/about-us", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var resolved cms.ResolvedPage
	if errDecode := json.Unmarshal(recorder.Body.Bytes(), &resolved); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if resolved.Slug != "about-us" || len(resolved.Sections) != 1 {
		t.Fatalf("unexpected payload: %+v", resolved)
	}
}

func TestPublicPageUnpublishedIs404(t *testing.T) {
	engine, conn := newFrontTestRouter(t)
	page := models.Page{Slug: "draft", Title: "Draft", IsPublished: false}
	if errCreate := conn.Create(&page).Error; errCreate != nil {
		t.Fatalf("seed page: %v", errCreate)
	}

	recorder := doFrontRequest(engine, http.MethodGet, "/v0/front/pages/draft", "", "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestPublicContentAbsentIsNull(t *testing.T) {
	engine, _ := newFrontTestRouter(t)

	recorder := doFrontRequest(engine, http.MethodGet, "/v0/front/content/home_hero", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var payload struct {
		Key     string          `json:"key"`
		Content json.RawMessage `json:"content"`
	}
	if errDecode := json.Unmarshal(recorder.Body.Bytes(), &payload); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if payload.Key != "home_hero" || string(payload.Content) != "null" {
		t.Fatalf("expected null content, got %s", recorder.Body.String())
	}
}

func TestProfileRequiresToken(t *testing.T) {
	engine, _ := newFrontTestRouter(t)

	recorder := doFrontRequest(engine, http.MethodGet, "/v0/front/profile", "", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestProfileAutoProvisioning(t *testing.T) {
	engine, conn := newFrontTestRouter(t)
	token := frontBearerToken(t, frontMemberID)

	recorder := doFrontRequest(engine, http.MethodGet, "/v0/front/profile", token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var profile models.Profile
	if errFind := conn.Where("id = ?", frontMemberID).First(&profile).Error; errFind != nil {
		t.Fatalf("expected provisioned profile: %v", errFind)
	}
	if profile.MembershipStatus != models.StatusPending || profile.Role != models.RoleMember {
		t.Fatalf("expected pending member, got %s/%s", profile.MembershipStatus, profile.Role)
	}
	if profile.Email != "member@example.com" {
		t.Fatalf("expected email from claims, got %q", profile.Email)
	}
}

func TestProvisionsFreshMembersBackToBack(t *testing.T) {
	engine, conn := newFrontTestRouter(t)

	first := doFrontRequest(engine, http.MethodGet, "/v0/front/profile", frontBearerToken(t, frontMemberID), "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 for first member, got %d: %s", first.Code, first.Body.String())
	}

	secondID := "4b3c2d1e-0f9a-4b8c-8d7e-6f5a4b3c2d1e"
	second := doFrontRequest(engine, http.MethodGet, "/v0/front/profile", frontBearerToken(t, secondID), "")
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 for second member, got %d: %s", second.Code, second.Body.String())
	}

	var total int64
	if errCount := conn.Model(&models.Profile{}).Count(&total).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if total != 2 {
		t.Fatalf("expected both members provisioned, got %d rows", total)
	}
}

func TestMembershipCardDerivesExpired(t *testing.T) {
	engine, conn := newFrontTestRouter(t)
	past := time.Now().UTC().AddDate(0, -1, 0)
	registration := "SOOOP-2024-001"
	profile := models.Profile{
		ID:                 frontMemberID,
		Email:              "member@example.com",
		Role:               models.RoleMember,
		MembershipStatus:   models.StatusActive,
		MembershipExpiry:   &past,
		RegistrationNumber: &registration,
	}
	if errCreate := conn.Create(&profile).Error; errCreate != nil {
		t.Fatalf("seed: %v", errCreate)
	}

	recorder := doFrontRequest(engine, http.MethodGet, "/v0/front/membership", frontBearerToken(t, frontMemberID), "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var payload struct {
		MembershipStatus   string `json:"membership_status"`
		RegistrationNumber string `json:"registration_number"`
	}
	if errDecode := json.Unmarshal(recorder.Body.Bytes(), &payload); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if payload.MembershipStatus != models.StatusExpired {
		t.Fatalf("expected derived expired, got %s", payload.MembershipStatus)
	}
	if payload.RegistrationNumber != "SOOOP-2024-001" {
		t.Fatalf("unexpected registration number %q", payload.RegistrationNumber)
	}

	var stored models.Profile
	if errFind := conn.Where("id = ?", frontMemberID).First(&stored).Error; errFind != nil {
		t.Fatalf("find: %v", errFind)
	}
	if stored.MembershipStatus != models.StatusActive {
		t.Fatalf("expected stored status untouched, got %s", stored.MembershipStatus)
	}
}

func TestApplyValidationErrors(t *testing.T) {
	engine, conn := newFrontTestRouter(t)
	profile := models.Profile{ID: frontMemberID, Email: "member@example.com", Role: models.RoleMember, MembershipStatus: models.StatusPending}
	if errCreate := conn.Create(&profile).Error; errCreate != nil {
		t.Fatalf("seed: %v", errCreate)
	}
	token := frontBearerToken(t, frontMemberID)

	missingPayment := `{"qualification":"OD","payment":{"amount":0,"transaction_id":""}}`
	recorder := doFrontRequest(engine, http.MethodPost, "/v0/front/membership/apply", token, missingPayment)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestApplySubmitsApplication(t *testing.T) {
	engine, conn := newFrontTestRouter(t)
	profile := models.Profile{ID: frontMemberID, Email: "member@example.com", Role: models.RoleMember, MembershipStatus: models.StatusPending}
	if errCreate := conn.Create(&profile).Error; errCreate != nil {
		t.Fatalf("seed: %v", errCreate)
	}
	token := frontBearerToken(t, frontMemberID)

	body := `{
		"qualification": "Doctor of Optometry",
		"institution": "University of Karachi",
		"desired_type": "full",
		"documents": [{"kind": "degree", "name": "degree.pdf", "url": "https://store.example.com/degree.pdf"}],
		"payment": {"amount": 150000, "transaction_id": "TXN-0042"}
	}`
	recorder := doFrontRequest(engine, http.MethodPost, "/v0/front/membership/apply", token, body)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	second := doFrontRequest(engine, http.MethodPost, "/v0/front/membership/apply", token, body)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for second open application, got %d", second.Code)
	}

	current := doFrontRequest(engine, http.MethodGet, "/v0/front/membership/application", token, "")
	if current.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", current.Code)
	}
	var payload struct {
		Status  string `json:"status"`
		Payment struct {
			Currency   string `json:"currency"`
			ReceiptRef string `json:"receipt_ref"`
		} `json:"payment"`
	}
	if errDecode := json.Unmarshal(current.Body.Bytes(), &payload); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if payload.Status != models.ApplicationSubmitted || payload.Payment.Currency != "PKR" {
		t.Fatalf("unexpected application payload: %s", current.Body.String())
	}
}
