package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	getadmin "line-tracker/http-server/admin/get"
	removeadmin "line-tracker/http-server/admin/remove"
	saveadmin "line-tracker/http-server/admin/save"
	updateadmin "line-tracker/http-server/admin/update"
	getconfig "line-tracker/http-server/daily-config/get"
	removeconfig "line-tracker/http-server/daily-config/remove"
	saveconfig "line-tracker/http-server/daily-config/save"
	updateconfig "line-tracker/http-server/daily-config/update"
	getdowntimes "line-tracker/http-server/downtimes/get"
	removedowntime "line-tracker/http-server/downtimes/remove"
	savedowntime "line-tracker/http-server/downtimes/save"
	updatedowntime "line-tracker/http-server/downtimes/update"
	getentries "line-tracker/http-server/entries/get"
	removeentry "line-tracker/http-server/entries/remove"
	saveentries "line-tracker/http-server/entries/save"
	generate_excel "line-tracker/http-server/generate-report/generate-excel"
	getreports "line-tracker/http-server/reports/get"
	getslots "line-tracker/http-server/slots/get"
	getsummary "line-tracker/http-server/summary/get"
	"line-tracker/internal/config"
	"line-tracker/internal/middleware/auth"
	"line-tracker/internal/middleware/metrics"
	"line-tracker/internal/service/downtime"
	"line-tracker/internal/service/entry"
	genexcel "line-tracker/internal/service/generate-excel"
	"line-tracker/internal/service/report"
	"line-tracker/internal/service/schedule"
	"line-tracker/internal/storage/mysql"
)

type services struct {
	resolver  *schedule.Resolver
	entries   *entry.Service
	downtimes *downtime.Service
	reports   *report.Service
	excel     *genexcel.GenerateExcelService
}

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Metrics)

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		// справочники для формы ввода, только активные
		r.Get("/groups", getadmin.GetGroups(log, storage, true))
		r.Get("/reasons", getadmin.GetReasons(log, storage, true))

		r.Get("/slots", getslots.GetSlots(log, svc.resolver))

		r.Get("/entries", getentries.GetEntries(log, svc.entries))
		r.Post("/entries", saveentries.SaveEntries(log, svc.entries))
		r.Delete("/entries/{id}", removeentry.DeleteEntry(log, svc.entries))

		r.Get("/summary", getsummary.GetSummary(log, svc.reports))

		r.Get("/downtimes", getdowntimes.GetDowntimes(log, svc.downtimes))
		r.Post("/downtimes", savedowntime.SaveDowntime(log, svc.downtimes))
		r.Put("/downtimes/{id}", updatedowntime.UpdateDowntime(log, svc.downtimes))
		r.Delete("/downtimes/{id}", removedowntime.DeleteDowntime(log, svc.downtimes))

		r.Route("/daily-config", func(r chi.Router) {
			r.Get("/", getconfig.GetDailyConfig(log, storage))
			r.Put("/shift", updateconfig.SaveShift(log, storage))
			r.Delete("/shift", removeconfig.DeleteShift(log, storage))
			r.Put("/slots", updateconfig.SaveSlots(log, storage))
			r.Post("/breaks", saveconfig.SaveBreak(log, storage))
			r.Delete("/breaks/{id}", removeconfig.DeleteBreak(log, storage))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/weekly", getreports.Weekly(log, svc.reports))
			r.Get("/monthly", getreports.Monthly(log, svc.reports))
			r.Get("/line-comparison", getreports.LineComparison(log, svc.reports))
			r.Get("/manpower", getreports.Manpower(log, svc.reports))
			r.Get("/deficit", getreports.Deficit(log, svc.reports))
			r.Get("/downtime", getreports.Downtime(log, svc.reports))
			r.Get("/excel", generate_excel.GenerateReportExcel(log, svc.excel))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.BasicAuth(log, cfg.AdminLogin, cfg.AdminPass))

			r.Get("/groups", getadmin.GetGroups(log, storage, false))
			r.Post("/groups", saveadmin.SaveGroup(log, storage))
			r.Put("/groups/{id}", saveadmin.SaveGroup(log, storage))

			r.Get("/reasons", getadmin.GetReasons(log, storage, false))
			r.Post("/reasons", saveadmin.SaveReason(log, storage))
			r.Put("/reasons/{id}", saveadmin.SaveReason(log, storage))

			r.Get("/settings/shift", getadmin.GetShiftSettings(log, storage))
			r.Put("/settings/shift", updateadmin.UpdateShiftSettings(log, storage))

			r.Get("/default-slots", getadmin.GetDefaultSlots(log, storage))
			r.Put("/default-slots", updateadmin.UpdateDefaultSlots(log, storage))

			r.Get("/default-breaks", getadmin.GetDefaultBreaks(log, storage))
			r.Post("/default-breaks", saveadmin.SaveDefaultBreak(log, storage))
			r.Delete("/default-breaks/{id}", removeadmin.DeleteDefaultBreak(log, storage))
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return router
}
