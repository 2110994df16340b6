package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"support-desk/internal/entities"
	"support-desk/internal/export"
	"support-desk/internal/services"
	"support-desk/internal/snapshot"
	"support-desk/pkg/config"
	"support-desk/pkg/customvalidator"
	"support-desk/pkg/eventbus"
	"support-desk/pkg/service"
	"support-desk/pkg/utils"
)

var routerNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

// staticLoader каждый раз отдаёт новый снимок с одними и теми же данными.
type staticLoader struct{}

func (staticLoader) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	return &snapshot.Snapshot{
		Companies: []entities.Company{
			{ID: "c1", Name: "Acme Corp", ContactEmail: "it@acme.test", Salary: null.Float64From(1000)},
			{ID: "c2", Name: "Globex", ContactEmail: "ops@globex.test"},
		},
		Categories: []entities.TicketCategory{{ID: "cat1", Name: "Network"}},
		Tickets: []entities.Ticket{
			{
				ID: "t1", Title: "VPN down", Status: "open", Priority: "high",
				CompanyID: null.StringFrom("c1"), CompanyName: "Acme Corp",
				TimeSpent: 2, CreatedAt: routerNow.Add(-48 * time.Hour),
				DueDate: null.TimeFrom(routerNow.Add(time.Hour)),
			},
			{
				ID: "t2", Title: "Printer jam", Status: "resolved", Priority: "low",
				CompanyID: null.StringFrom("c2"), CompanyName: "Globex",
				TimeSpent: 1, CreatedAt: routerNow.Add(-5 * time.Hour),
				ResolvedAt: null.TimeFrom(routerNow.Add(-2 * time.Hour)),
			},
		},
	}, nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

type RouterTestSuite struct {
	suite.Suite
	Echo  *echo.Echo
	Token string
}

func (s *RouterTestSuite) SetupSuite() {
	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	s.Require().NoError(err)
	cfg := &config.Config{Operator: config.OperatorConfig{Email: "support@acme.test", PasswordHash: string(hash)}}

	nop := zap.NewNop()
	loggers := &Loggers{Main: nop, Auth: nop, Ticket: nop}
	jwtSvc := service.NewJWTService("router-secret", time.Hour, 24*time.Hour)
	holder := snapshot.NewHolder(staticLoader{}, nop)
	bus := eventbus.New(nop)
	clock := services.Clock(func() time.Time { return routerNow })

	// Репозитории не нужны: проверяются чтение из снимка и отказы до обращения к хранилищу.
	svc := Services{
		Auth:     services.NewAuthService(cfg.Operator, jwtSvc, nil, nop),
		Company:  services.NewCompanyService(nil, holder, bus, clock, nop),
		Category: services.NewCategoryService(nil, holder, bus, nop),
		Ticket:   services.NewTicketService(nil, nil, nil, nil, holder, bus, clock, nop),
		Comment:  services.NewCommentService(nil, nil, bus, nop),
		Report:   services.NewReportService(holder, clock, nop),
	}
	InitRouter(e, svc, nil, jwtSvc, cfg, loggers)
	s.Echo = e

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"support@acme.test","password":"secret123"}`, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	s.decodeBody(rec, &tokens)
	s.Require().NotEmpty(tokens.AccessToken)
	s.Token = tokens.AccessToken
}

func (s *RouterTestSuite) do(method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) decodeBody(rec *httptest.ResponseRecorder, out interface{}) {
	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	s.Require().True(env.Status, env.Message)
	s.Require().NoError(json.Unmarshal(env.Body, out))
}

func (s *RouterTestSuite) TestListCompanies() {
	rec := s.do(http.MethodGet, "/api/companies?search=glob", "", "")
	s.Equal(http.StatusOK, rec.Code)

	var list []entities.Company
	s.decodeBody(rec, &list)
	s.Require().Len(list, 1)
	s.Equal("c2", list[0].ID)
}

func (s *RouterTestSuite) TestListTicketsWithFilter() {
	rec := s.do(http.MethodGet, "/api/tickets?filter[status]=resolved&filter[company_id]=all", "", "")
	s.Equal(http.StatusOK, rec.Code)

	var list []entities.Ticket
	s.decodeBody(rec, &list)
	s.Require().Len(list, 1)
	s.Equal("t2", list[0].ID)
}

func (s *RouterTestSuite) TestTicketNotFound() {
	rec := s.do(http.MethodGet, "/api/tickets/nope", "", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterTestSuite) TestCompanyStats() {
	rec := s.do(http.MethodGet, "/api/companies/c1/stats?range=last-7-days", "", "")
	s.Equal(http.StatusOK, rec.Code)

	var details struct {
		Rollup struct {
			Tickets    int     `json:"tickets"`
			HoursSpent float64 `json:"hoursSpent"`
		} `json:"rollup"`
	}
	s.decodeBody(rec, &details)
	s.Equal(1, details.Rollup.Tickets)
	s.Equal(2.0, details.Rollup.HoursSpent)
}

func (s *RouterTestSuite) TestReportValidation() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/reports?range=forever", "", "").Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/reports?company=Initech", "", "").Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/reports?format=pdf", "", "").Code)
}

func (s *RouterTestSuite) TestReportJSONDownload() {
	rec := s.do(http.MethodGet, "/api/reports?range=last-7-days&format=json", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "IT_Support_Report_2025-10-15.json")

	var doc map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &doc))
	for _, key := range []string{"period", "company", "stats", "weeklyData", "monthlyData", "companyData", "ticketsByType", "generatedAt"} {
		s.Contains(doc, key)
	}
}

func (s *RouterTestSuite) TestReportXLSXDownload() {
	rec := s.do(http.MethodGet, "/api/reports?format=xlsx", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(export.XLSXContentType, rec.Header().Get(echo.HeaderContentType))
	s.NotZero(rec.Body.Len())
}

func (s *RouterTestSuite) TestDashboardAndSchedule() {
	rec := s.do(http.MethodGet, "/api/dashboard", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var ov struct {
		PendingTickets int `json:"pending_tickets"`
		TodayTasks     int `json:"today_tasks"`
	}
	s.decodeBody(rec, &ov)
	s.Equal(1, ov.PendingTickets)
	s.Equal(1, ov.TodayTasks)

	rec = s.do(http.MethodGet, "/api/schedule?date=2025-10-15", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var schedule struct {
		Days       []json.RawMessage `json:"days"`
		TotalTasks int               `json:"total_tasks"`
	}
	s.decodeBody(rec, &schedule)
	s.Len(schedule.Days, 7)
	s.Equal(1, schedule.TotalTasks)
}

func (s *RouterTestSuite) TestMutationsRequireToken() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/tickets", `{}`, "").Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodDelete, "/api/companies/c1", "", "").Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/categories", `{"name":"x"}`, "bad-token").Code)
}

func (s *RouterTestSuite) TestCreateTicketValidation() {
	rec := s.do(http.MethodPost, "/api/tickets", `{"title":"","priority":"urgent"}`, s.Token)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestLoginWrongPassword() {
	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"support@acme.test","password":"wrong-pass"}`, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
