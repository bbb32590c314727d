package report_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	"github.com/mbarcellos/finance-tracker/internal/report"
)

type stubReportService struct {
	summaries []report.SummaryResponse
	lastYear  int
	lastMonth int
	called    bool
}

func (s *stubReportService) ComputeMetrics(groupIDs []int64, today time.Time) (report.MetricsSnapshot, error) {
	return report.MetricsSnapshot{}, nil
}

func (s *stubReportService) Project(groupIDs []int64, monthsAhead int, start time.Time) ([]report.MonthlyProjection, error) {
	return nil, nil
}

func (s *stubReportService) SummariesForPeriod(userID int64, year, month int) ([]report.SummaryResponse, error) {
	s.called = true
	s.lastYear = year
	s.lastMonth = month
	return s.summaries, nil
}

var _ = Describe("Report Handler", func() {
	var (
		service *stubReportService
		router  chi.Router
	)

	BeforeEach(func() {
		service = &stubReportService{}
		handler := report.NewHandler(service, slog.New(slog.NewTextHandler(GinkgoWriter, nil)))
		router = chi.NewRouter()
		handler.RegisterRoutes(router)
	})

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.SessionUser{ID: 10}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("GET /financial/summaries", func() {
		It("passes the period through to the service", func() {
			rec := get("/financial/summaries?year=2024&month=3")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.called).To(BeTrue())
			Expect(service.lastYear).To(Equal(2024))
			Expect(service.lastMonth).To(Equal(3))
		})

		It("defaults both period parts to zero when absent", func() {
			rec := get("/financial/summaries")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastYear).To(Equal(0))
			Expect(service.lastMonth).To(Equal(0))
		})

		It("accepts the month bounds", func() {
			Expect(get("/financial/summaries?month=1").Code).To(Equal(http.StatusOK))
			Expect(get("/financial/summaries?month=12").Code).To(Equal(http.StatusOK))
		})

		It("rejects months outside 1 through 12", func() {
			for _, raw := range []string{"0", "13", "-3", "march"} {
				rec := get("/financial/summaries?month=" + raw)
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(rec.Body.String()).To(ContainSubstring("month must be an integer between 1 and 12"))
			}
		})

		It("rejects a non-numeric year", func() {
			rec := get("/financial/summaries?year=twenty")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("year must be a positive integer"))
		})

		It("requires an authenticated session", func() {
			req := httptest.NewRequest(http.MethodGet, "/financial/summaries", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
