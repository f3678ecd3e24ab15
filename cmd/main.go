package main

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/propworks/compliance-service/internal/app"
	"github.com/propworks/compliance-service/internal/config"
	"github.com/propworks/compliance-service/internal/constants"
	"github.com/propworks/compliance-service/internal/controllers"
	"github.com/propworks/compliance-service/internal/events"
	"github.com/propworks/compliance-service/internal/routes"
	"github.com/propworks/compliance-service/internal/services"
	"github.com/propworks/compliance-service/internal/utils"
)

const appName = "compliance-service"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize compliance-service:", err)
	}
	defer application.Close()

	restored, err := application.RestoreState(context.Background())
	if err != nil {
		utils.Logger.Fatal("Failed to restore snapshot:", err)
	}
	if !restored && cfg.SeedDemoData {
		if err := application.SeedDemoData(context.Background()); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	bus := events.NewBus()
	store := application.Store

	lifecycleService := services.NewJobLifecycleService(store, bus)
	cascadeService := services.NewCompletionCascadeService(store, bus)
	resolverService := services.NewPpmResolverService(store, lifecycleService, bus)
	reportingService := services.NewReportingService()
	interpreterService := services.NewQueryInterpreterService(cfg.OpenAIAPIKey)
	escalationService := services.NewComplianceEscalationService(cfg, store)

	// Persist after every committed completion; cheap and keeps the durable
	// copy close behind the in-memory truth between periodic saves.
	bus.Subscribe(func(e events.Event) {
		if e.Type != events.JobCompleted {
			return
		}
		if err := application.SaveState(context.Background()); err != nil {
			utils.Logger.WithError(err).Warn("Post-completion snapshot save failed")
		}
	})

	healthController := controllers.NewHealthController()
	propertiesController := controllers.NewPropertiesController(store)
	jobsController := controllers.NewJobsController(lifecycleService, cascadeService)
	schedulesController := controllers.NewSchedulesController(store, resolverService)
	reportsController := controllers.NewReportsController(store, reportingService, interpreterService)

	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.PropertiesBase, propertiesController.CreatePropertyHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PropertiesBase, propertiesController.ListPropertiesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyByID, propertiesController.GetPropertyHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyByID, propertiesController.DeletePropertyHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.PropertyJobs, jobsController.CreateJobHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.JobAssign, jobsController.AssignJobHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.JobTransition, jobsController.TransitionJobHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.JobComplete, jobsController.CompleteJobHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.JobFinalCost, jobsController.RecordFinalCostHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.SchedulesBase, schedulesController.CreateScheduleHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.SchedulesBase, schedulesController.ListSchedulesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ResolverRun, schedulesController.RunResolverHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.ReportsFilter, reportsController.FilterPropertiesHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ReportsGrouped, reportsController.GroupPropertiesHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ReportsSummary, reportsController.ComplianceSummaryHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ReportsWindow, reportsController.WindowStatsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ReportsSearch, reportsController.SearchHandler).Methods(http.MethodPost)

	c := cron.New()
	_, resolverErr := c.AddFunc(constants.ResolverCronSpec, func() {
		resolverService.RunResolutionPass(context.Background(), time.Now().UTC())
	})
	if resolverErr != nil {
		utils.Logger.WithError(resolverErr).Fatal("Failed to schedule resolver cron")
	}

	_, escErr := c.AddFunc(constants.EscalationCronSpec, func() {
		if e := escalationService.RunEscalationSweep(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Escalation sweep failed")
		}
	})
	if escErr != nil {
		utils.Logger.WithError(escErr).Fatal("Failed to schedule escalation cron")
	}

	_, saveErr := c.AddFunc(constants.SnapshotSaveCronSpec, func() {
		if e := application.SaveState(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Periodic snapshot save failed")
		}
	})
	if saveErr != nil {
		utils.Logger.WithError(saveErr).Fatal("Failed to schedule snapshot cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	utils.Logger.Infof("Starting %s on port: %s", appName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("compliance-service failed to start:", err)
	}
}
